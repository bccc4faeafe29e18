// Package diagnostics converts pipeline failures into editor-style findings.
//
// A Diagnostic carries the file, severity, pipeline stage, error kind,
// message, and a source range. Precision degrades gracefully: errors without
// location information anchor at line 1 of the document, but the message and
// stage are always accurate. Both the text lint output and the JSON tooling
// output render from the same Diagnostic values.
package diagnostics
