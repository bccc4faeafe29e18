// Package telemetry groups weft's observability concerns.
//
// # Components
//
//   - logging: structured slog loggers with secret redaction
//   - metrics: Prometheus collectors for pipeline, provider, and
//     environment-reload activity
//   - health: liveness/readiness probes for watch mode
//
// The subpackages are wired directly; there is no umbrella facade. Commands
// build a logger from the telemetry section of weft.yaml and install it as
// the slog default, and watch mode serves the metrics registry and probe
// handlers from one listener.
//
// # Secret Redaction
//
// When redaction is enabled, logger output rewrites values that look like
// credentials (API keys, tokens, bearer headers) before they reach the
// handler, so call sites never need to think about what is safe to log.
package telemetry
