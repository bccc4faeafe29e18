// Package vars implements the variable environment for playbook rendering:
// dotted/bracketed path expressions, resolution against a nested value tree,
// and placeholder interpolation over decoded documents.
package vars

import (
	"strconv"
	"strings"
)

// ParseExpression splits a path expression into its segments.
// Surrounding whitespace is trimmed first; the remainder is split on runs of
// '.', '[' and ']' with empty segments discarded, so "a.b[0].c", "a.b[0][0]"
// and "  x.y  " all parse predictably. An empty or whitespace-only expression
// yields an empty path.
func ParseExpression(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []string{}
	}
	return strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '.' || r == '[' || r == ']'
	})
}

// Resolve walks a parsed path through the environment.
// The first segment must be a direct key of the environment; every later
// segment indexes into the value reached so far. A segment that parses as a
// non-negative integer indexes sequences and is tried as a literal key
// against mappings. Resolution never mutates the environment; a missing path
// reports ok=false rather than an error.
func Resolve(path []string, env Environment) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}

	current, ok := env[path[0]]
	if !ok {
		return nil, false
	}

	for _, segment := range path[1:] {
		if current == nil {
			return nil, false
		}

		switch v := current.(type) {
		case map[string]any:
			child, ok := v[segment]
			if !ok {
				return nil, false
			}
			current = child
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			current = v[idx]
		default:
			// Scalars are not indexable
			return nil, false
		}
	}

	return current, true
}
