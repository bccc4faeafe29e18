package diagnostics

import (
	"errors"

	pbErrors "weftworks/weft/pkg/playbook/errors"
	"weftworks/weft/pkg/playbook/pipeline"
)

// FromResult converts a pipeline result into diagnostics for one file.
// A successful result yields nil.
func FromResult(file string, result pipeline.Result) []Diagnostic {
	if result.OK() {
		return nil
	}
	return FromError(file, string(result.Stage), result.Err)
}

// FromError converts a processing error into diagnostics. Error lists unpack
// into one diagnostic per entry; unrecognized error types produce a single
// whole-document diagnostic with the message intact.
func FromError(file, stage string, err error) []Diagnostic {
	var list *pbErrors.ErrorList
	if errors.As(err, &list) {
		out := make([]Diagnostic, 0, list.Count())
		for _, e := range list.Errors {
			out = append(out, fromPlaybookError(file, stage, e))
		}
		return out
	}

	var pbErr *pbErrors.Error
	if errors.As(err, &pbErr) {
		return []Diagnostic{fromPlaybookError(file, stage, pbErr)}
	}

	return []Diagnostic{{
		File:     file,
		Severity: SeverityError,
		Stage:    stage,
		Message:  err.Error(),
		Range:    wholeDocument(),
	}}
}

// NewReport runs the conversion for one file and wraps it for output.
func NewReport(file string, result pipeline.Result) Report {
	diags := FromResult(file, result)
	return Report{
		File:        file,
		Valid:       len(diags) == 0,
		Diagnostics: diags,
	}
}

func fromPlaybookError(file, stage string, e *pbErrors.Error) Diagnostic {
	d := Diagnostic{
		File:       file,
		Severity:   SeverityError,
		Stage:      stage,
		Kind:       string(e.Kind),
		Message:    e.Message,
		Suggestion: e.Suggestion,
		Range:      wholeDocument(),
	}
	if e.Location.File != "" {
		d.File = e.Location.File
	}
	if e.Location.Line > 0 {
		d.Range = pointRange(e.Location.Line, e.Location.Column)
	}
	return d
}

// wholeDocument is the degraded-precision fallback: tooling still needs a
// valid range, so location-less errors anchor at line 1.
func wholeDocument() Range {
	return Range{Start: Position{Line: 1}, End: Position{Line: 1}}
}

func pointRange(line, column int) Range {
	p := Position{Line: line, Column: column}
	return Range{Start: p, End: p}
}
