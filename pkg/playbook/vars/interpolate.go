package vars

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	pbErrors "weftworks/weft/pkg/playbook/errors"
)

// placeholderPattern matches ${expr} occurrences inside string scalars.
// The expression may not span lines or contain a closing brace.
var placeholderPattern = regexp.MustCompile(`\$\{([^}\n]*)\}`)

// Marker is the prefix that opens a placeholder. Included files are rejected
// when any string leaf contains it, resolved or not.
const Marker = "${"

// Interpolate rewrites every string leaf of a decoded document, replacing
// each ${expr} occurrence with the value the expression resolves to in env.
// The input graph is not mutated; mappings keep their key sets and sequences
// their order. An expression that does not resolve fails the whole operation,
// it is never substituted with a blank.
//
// Resolved values are always coerced to strings, so a lone full-value
// placeholder still produces a string scalar. Typed substitution is a
// deliberate non-feature.
func Interpolate(doc any, env Environment) (any, error) {
	switch v := doc.(type) {
	case string:
		return interpolateString(v, env)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			replaced, err := Interpolate(child, env)
			if err != nil {
				return nil, err
			}
			out[key] = replaced
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			replaced, err := Interpolate(child, env)
			if err != nil {
				return nil, err
			}
			out[i] = replaced
		}
		return out, nil
	default:
		// Non-string scalars pass through unchanged
		return doc, nil
	}
}

func interpolateString(s string, env Environment) (string, error) {
	var firstErr *pbErrors.Error

	result := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		expr := placeholderPattern.FindStringSubmatch(match)[1]
		path := ParseExpression(expr)

		value, ok := Resolve(path, env)
		if !ok {
			firstErr = unresolvedError(expr, path, env)
			return match
		}
		return Stringify(value)
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

func unresolvedError(expr string, path []string, env Environment) *pbErrors.Error {
	err := &pbErrors.Error{
		Kind:    pbErrors.KindUnresolvedVariable,
		Message: fmt.Sprintf("Unresolved variable expression %q", expr),
	}
	if len(path) > 0 {
		err.Suggestion = pbErrors.SuggestVariableName(path[0], env.Names())
	}
	return err
}

// Stringify renders a resolved value the way it is substituted into strings.
// Scalars render naturally ("null", "true", "5"); composite values render as
// markup text, which is well defined even if rarely what authors want.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return strings.TrimSpace(string(data))
	default:
		return fmt.Sprintf("%v", v)
	}
}
