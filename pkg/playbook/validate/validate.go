// Package validate checks that a fully resolved playbook document matches
// the minimal shape the rest of the system expects.
package validate

import (
	"fmt"

	pbErrors "weftworks/weft/pkg/playbook/errors"
	"weftworks/weft/pkg/playbook/node"
)

// Static validates the shape of a resolved document.
// The root must be a mapping (or empty); an optional steps field must be a
// sequence; each step must be a mapping; a step name, when present, must be
// a string. Anything else is a structural mismatch.
func Static(doc any) error {
	if doc == nil {
		return nil
	}

	root, ok := doc.(map[string]any)
	if !ok {
		return &pbErrors.Error{
			Kind:       pbErrors.KindStructural,
			Message:    fmt.Sprintf("Document root must be a mapping, got %s", node.KindOf(doc)),
			Suggestion: "Top-level playbook content is a set of named fields",
		}
	}

	steps, present := root["steps"]
	if !present {
		return nil
	}

	seq, ok := steps.([]any)
	if !ok {
		return &pbErrors.Error{
			Kind:       pbErrors.KindStructural,
			Message:    fmt.Sprintf("Field 'steps' must be a sequence, got %s", node.KindOf(steps)),
			Suggestion: "Write steps as a list: one '- name: ...' entry per step",
		}
	}

	for i, step := range seq {
		m, ok := step.(map[string]any)
		if !ok {
			return &pbErrors.Error{
				Kind:    pbErrors.KindStructural,
				Message: fmt.Sprintf("Step %d must be a mapping, got %s", i+1, node.KindOf(step)),
			}
		}
		if name, present := m["name"]; present {
			if _, ok := name.(string); !ok {
				return &pbErrors.Error{
					Kind:    pbErrors.KindStructural,
					Message: fmt.Sprintf("Step %d field 'name' must be a string, got %s", i+1, node.KindOf(name)),
				}
			}
		}
	}

	return nil
}
