package errors

import (
	"fmt"
	"strings"
)

// Location identifies a position in a playbook source file.
// It enables precise error reporting with file, line, and column information.
type Location struct {
	File   string // Path to the playbook file
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns a human-readable representation of the location.
// Format: "file:line:column"
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has valid file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// Kind categorizes the failure encountered while processing a playbook.
type Kind string

const (
	KindSyntax               Kind = "syntax"                 // Markup cannot be parsed
	KindUnresolvedVariable   Kind = "unresolved-variable"    // Placeholder names no defined variable
	KindSecurityViolation    Kind = "security-violation"     // Include path escapes the workspace
	KindIncludeNotFound      Kind = "include-not-found"      // Include target missing or unreadable
	KindPlaceholderInInclude Kind = "placeholder-in-include" // Included file carries placeholders
	KindNestedInclude        Kind = "nested-include"         // Included file carries include directives
	KindStructural           Kind = "structural"             // Document shape violates the data model
	KindIO                   Kind = "io"                     // File I/O error outside include handling
)

// Error represents a rich playbook error with location, context, and suggestions.
// It provides detailed information for debugging authoring issues.
type Error struct {
	Kind       Kind     // Category of error
	Message    string   // Error message
	Location   Location // Source location (file, line, column)
	Context    string   // Surrounding lines of markup
	Suggestion string   // Suggested fix (optional)
}

// Error implements the error interface.
// It returns a formatted error message with location and context.
func (e *Error) Error() string {
	var sb strings.Builder

	// Error kind and message
	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Kind, e.Message))

	// Location
	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	// Context (surrounding markup)
	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	// Suggestion
	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// New creates an error of the given kind without location information.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At returns a copy of the error annotated with a source location.
func (e *Error) At(loc Location) *Error {
	out := *e
	out.Location = loc
	return &out
}

// WithSuggestion returns a copy of the error annotated with a suggested fix.
func (e *Error) WithSuggestion(suggestion string) *Error {
	out := *e
	out.Suggestion = suggestion
	return &out
}

// ErrorList represents a collection of errors encountered during processing.
// It allows accumulating multiple errors instead of failing on the first one.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error with the given parameters.
func (el *ErrorList) AddError(kind Kind, message string, location Location) {
	el.Add(&Error{
		Kind:     kind,
		Message:  message,
		Location: location,
	})
}

// AddErrorWithSuggestion creates and adds a new error with a suggestion.
func (el *ErrorList) AddErrorWithSuggestion(kind Kind, message string, location Location, suggestion string) {
	el.Add(&Error{
		Kind:       kind,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
// It returns all errors formatted as a single string.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the error list is empty, otherwise returns the error list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// First returns the first error in the list, or nil if the list is empty.
func (el *ErrorList) First() *Error {
	if !el.HasErrors() {
		return nil
	}
	return el.Errors[0]
}

// ByKind returns all errors of the given kind.
func (el *ErrorList) ByKind(kind Kind) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Kind == kind {
			result = append(result, err)
		}
	}
	return result
}

// HasKind returns true if the error list contains at least one error of the given kind.
func (el *ErrorList) HasKind(kind Kind) bool {
	for _, err := range el.Errors {
		if err.Kind == kind {
			return true
		}
	}
	return false
}
