package diagnostics

import (
	"fmt"
	"strings"
)

// Severity classifies how a diagnostic should be treated by tooling.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Position is a 1-based location in a source file. Column zero means the
// column is unknown.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column,omitempty"`
}

// Range spans source positions. End equals Start when only a point is known.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is one editor-style finding about a playbook file. File and
// Range point at where the problem is: for errors inside an included file
// that is the include target, not the document under lint.
type Diagnostic struct {
	File       string   `json:"file"`
	Severity   Severity `json:"severity"`
	Stage      string   `json:"stage,omitempty"`
	Kind       string   `json:"kind,omitempty"`
	Message    string   `json:"message"`
	Range      Range    `json:"range"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// String renders the diagnostic in the single-line lint format:
//
//	✗ Error: Unresolved variable expression "user.nme" (line 3, col 12) [unresolved-variable]
func (d Diagnostic) String() string {
	var sb strings.Builder

	switch d.Severity {
	case SeverityWarning:
		sb.WriteString("⚠  Warning: ")
	default:
		sb.WriteString("✗ Error: ")
	}
	sb.WriteString(d.Message)

	if d.Range.Start.Line > 0 {
		fmt.Fprintf(&sb, " (line %d", d.Range.Start.Line)
		if d.Range.Start.Column > 0 {
			fmt.Fprintf(&sb, ", col %d", d.Range.Start.Column)
		}
		sb.WriteString(")")
	}
	if d.Kind != "" {
		fmt.Fprintf(&sb, " [%s]", d.Kind)
	}

	return sb.String()
}

// Report aggregates the diagnostics produced for one playbook file. Lint and
// watch both emit it, as text or JSON.
type Report struct {
	File        string       `json:"file"`
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}
