package logging

import (
	"context"
	"log/slog"
)

// RedactingHandler is a slog.Handler middleware that redacts secrets from
// records before passing them to the wrapped handler. Values under
// sensitive keys are masked entirely; other string values are scrubbed
// for embedded key and token patterns.
type RedactingHandler struct {
	inner    slog.Handler
	redactor *Redactor
}

// NewRedactingHandler wraps handler with secret redaction.
func NewRedactingHandler(handler slog.Handler, redactor *Redactor) *RedactingHandler {
	return &RedactingHandler{inner: handler, redactor: redactor}
}

// Enabled reports whether the wrapped handler handles records at the level.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts the record's message and attributes, then delegates.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, h.redactor.RedactString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

// WithAttrs redacts the attributes eagerly so pre-bound fields are as safe
// as per-record ones.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &RedactingHandler{inner: h.inner.WithAttrs(redacted), redactor: h.redactor}
}

// WithGroup delegates grouping to the wrapped handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name), redactor: h.redactor}
}

func (h *RedactingHandler) redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if h.redactor.IsSensitiveKey(a.Key) {
			return slog.String(a.Key, h.redactor.MaskValue(s))
		}
		return slog.String(a.Key, h.redactor.RedactString(s))
	case slog.KindGroup:
		group := a.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, ga := range group {
			redacted[i] = h.redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	default:
		// Non-string sensitive values still get masked; a token stored in
		// a Stringer must not leak through its String method.
		if h.redactor.IsSensitiveKey(a.Key) {
			return slog.String(a.Key, "***")
		}
		return a
	}
}
