package errors

import (
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "kind and message",
			err: &Error{
				Kind:    KindSyntax,
				Message: "unexpected end of document",
			},
			contains: []string{"[syntax]", "unexpected end of document"},
		},
		{
			name: "with location",
			err: &Error{
				Kind:     KindUnresolvedVariable,
				Message:  "unresolved variable expression \"user.name\"",
				Location: Location{File: "steps.yaml", Line: 4, Column: 9},
			},
			contains: []string{"[unresolved-variable]", "steps.yaml:4:9"},
		},
		{
			name: "with suggestion",
			err: &Error{
				Kind:       KindIncludeNotFound,
				Message:    "include target missing",
				Suggestion: "Check that 'shared.yaml' exists",
			},
			contains: []string{"suggestion: Check that 'shared.yaml' exists"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Error() = %q, want it to contain %q", got, want)
				}
			}
		})
	}
}

func TestErrorAt(t *testing.T) {
	base := New(KindStructural, "sequence entries must be mappings")
	loc := Location{File: "play.yaml", Line: 12, Column: 3}

	located := base.At(loc)
	if located.Location != loc {
		t.Errorf("At() location = %v, want %v", located.Location, loc)
	}
	if base.Location.IsValid() {
		t.Error("At() mutated the original error")
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{"full", Location{File: "a.yaml", Line: 3, Column: 7}, "a.yaml:3:7"},
		{"empty", Location{}, "<unknown>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorList(t *testing.T) {
	el := NewErrorList()

	if el.HasErrors() {
		t.Error("new error list should be empty")
	}
	if el.ToError() != nil {
		t.Error("ToError() on empty list should be nil")
	}
	if el.First() != nil {
		t.Error("First() on empty list should be nil")
	}

	el.AddError(KindSyntax, "bad indent", Location{File: "x.yaml", Line: 2})
	el.AddError(KindStructural, "unexpected node", Location{File: "x.yaml", Line: 5})
	el.AddError(KindSyntax, "tab character", Location{File: "x.yaml", Line: 9})

	if el.Count() != 3 {
		t.Errorf("Count() = %d, want 3", el.Count())
	}
	if !el.HasKind(KindSyntax) {
		t.Error("HasKind(syntax) = false, want true")
	}
	if el.HasKind(KindNestedInclude) {
		t.Error("HasKind(nested-include) = true, want false")
	}
	if got := len(el.ByKind(KindSyntax)); got != 2 {
		t.Errorf("ByKind(syntax) returned %d errors, want 2", got)
	}
	if el.First().Message != "bad indent" {
		t.Errorf("First() = %q, want %q", el.First().Message, "bad indent")
	}

	msg := el.Error()
	if !strings.Contains(msg, "Found 3 error(s)") {
		t.Errorf("Error() = %q, want error count header", msg)
	}
}

func TestSuggestVariableName(t *testing.T) {
	tests := []struct {
		name    string
		unknown string
		defined []string
		want    string
	}{
		{
			name:    "close match",
			unknown: "usre",
			defined: []string{"user", "model", "project"},
			want:    "Did you mean 'user'?",
		},
		{
			name:    "no variables defined",
			unknown: "anything",
			defined: nil,
			want:    "No variables are defined; add one to the workspace variables file",
		},
		{
			name:    "no close match short list",
			unknown: "zzzzzzzzzz",
			defined: []string{"alpha", "beta"},
			want:    "Defined variables: alpha, beta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestVariableName(tt.unknown, tt.defined); got != tt.want {
				t.Errorf("SuggestVariableName(%q) = %q, want %q", tt.unknown, got, tt.want)
			}
		})
	}
}
