package vars

import (
	"reflect"
	"testing"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{"dotted with index", "a.b[0].c", []string{"a", "b", "0", "c"}},
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"surrounding whitespace", "  x.y  ", []string{"x", "y"}},
		{"double index", "a.b[0][0]", []string{"a", "b", "0", "0"}},
		{"single name", "model", []string{"model"}},
		{"consecutive dots collapse", "a..b", []string{"a", "b"}},
		{"bare index", "[0]", []string{"0"}},
		{"trailing delimiter", "a.b.", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseExpression(tt.expr)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseExpression(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	env := Environment{
		"name":  "World",
		"items": []any{"a", "b", "c"},
		"user": map[string]any{
			"name": "iris",
			"tags": []any{"admin", "dev"},
		},
		"matrix": []any{
			[]any{1, 2},
			[]any{3, 4},
		},
		"byNumber": map[string]any{
			"0": "zero",
		},
		"nothing": nil,
	}

	tests := []struct {
		name   string
		path   []string
		want   any
		wantOK bool
	}{
		{"top-level key", []string{"name"}, "World", true},
		{"sequence index", []string{"items", "1"}, "b", true},
		{"nested mapping", []string{"user", "name"}, "iris", true},
		{"nested sequence", []string{"user", "tags", "0"}, "admin", true},
		{"double index", []string{"matrix", "1", "0"}, 3, true},
		{"integer segment as mapping key", []string{"byNumber", "0"}, "zero", true},
		{"defined null", []string{"nothing"}, nil, true},
		{"missing top-level key", []string{"absent"}, nil, false},
		{"empty path", []string{}, nil, false},
		{"index out of range", []string{"items", "9"}, nil, false},
		{"negative index", []string{"items", "-1"}, nil, false},
		{"non-integer index into sequence", []string{"items", "x"}, nil, false},
		{"descend through scalar", []string{"name", "length"}, nil, false},
		{"descend through null", []string{"nothing", "x"}, nil, false},
		{"missing nested key", []string{"user", "email"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.path, env)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%v) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%v) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveDoesNotMutate(t *testing.T) {
	env := Environment{
		"items": []any{"a", "b"},
	}

	Resolve([]string{"items", "0"}, env)
	Resolve([]string{"items", "9"}, env)

	if !reflect.DeepEqual(env["items"], []any{"a", "b"}) {
		t.Errorf("Resolve mutated the environment: %v", env)
	}
}

func TestEnvironmentNames(t *testing.T) {
	env := Environment{"zeta": 1, "alpha": 2, "mid": 3}
	want := []string{"alpha", "mid", "zeta"}
	if got := env.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestEnvironmentLookup(t *testing.T) {
	env := Environment{"user": map[string]any{"name": "iris"}}

	got, ok := env.Lookup("user.name")
	if !ok || got != "iris" {
		t.Errorf("Lookup(user.name) = %v, %v; want iris, true", got, ok)
	}
	if _, ok := env.Lookup("user.email"); ok {
		t.Error("Lookup(user.email) ok = true, want false")
	}
}
