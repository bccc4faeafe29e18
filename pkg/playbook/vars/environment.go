package vars

import "sort"

// Environment is the variable tree a playbook renders against.
// Top-level keys are variable names; values are arbitrary decoded structures
// (scalars, sequences, mappings). An Environment is treated as immutable for
// the duration of one pipeline run; reloads replace it wholesale.
type Environment map[string]any

// Names returns the defined top-level variable names in sorted order.
// Used for error suggestions and the vars listing command.
func (e Environment) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a path expression string against the environment.
func (e Environment) Lookup(expr string) (any, bool) {
	return Resolve(ParseExpression(expr), e)
}
