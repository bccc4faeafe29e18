package runner

import (
	pbErrors "weftworks/weft/pkg/playbook/errors"
	"weftworks/weft/pkg/playbook/node"
)

// Step is one executable entry from a playbook's steps sequence.
// Fields mirror the step mapping keys; zero values mean the key was absent
// and the workspace defaults apply.
type Step struct {
	// Index is the step's 1-based position in the steps sequence.
	Index int

	// Name is the optional step name used in logs and run records.
	Name string

	// Prompt is the user message sent to the provider. Always non-empty:
	// entries without a prompt never become Steps.
	Prompt string

	// System is an optional system message sent ahead of the prompt.
	System string

	// Provider names the provider for this step, overriding the run default.
	Provider string

	// Model overrides the model for this step.
	Model string

	// MaxTokens overrides the completion token limit for this step.
	MaxTokens int

	// Temperature overrides the sampling temperature for this step.
	Temperature float64
}

// ExtractSteps pulls the executable steps out of a resolved document.
//
// Entries without a prompt are counted as skipped rather than rejected, so
// authors can keep reference entries (links, checklists) in the same
// sequence as executable ones. A prompt that is present but not a string is
// a structural error. The remaining step fields are read leniently: a field
// of the wrong type counts as absent.
func ExtractSteps(doc any) (steps []Step, skipped int, err error) {
	if doc == nil {
		return nil, 0, nil
	}

	root, ok := doc.(map[string]any)
	if !ok {
		return nil, 0, pbErrors.Newf(pbErrors.KindStructural,
			"Document root must be a mapping, got %s", node.KindOf(doc))
	}

	raw, present := root["steps"]
	if !present {
		return nil, 0, nil
	}

	seq, ok := raw.([]any)
	if !ok {
		return nil, 0, pbErrors.Newf(pbErrors.KindStructural,
			"Field 'steps' must be a sequence, got %s", node.KindOf(raw))
	}

	for i, entry := range seq {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, 0, pbErrors.Newf(pbErrors.KindStructural,
				"Step %d must be a mapping, got %s", i+1, node.KindOf(entry))
		}

		promptVal, present := m["prompt"]
		if !present {
			skipped++
			continue
		}
		prompt, ok := promptVal.(string)
		if !ok {
			return nil, 0, pbErrors.Newf(pbErrors.KindStructural,
				"Step %d field 'prompt' must be a string, got %s", i+1, node.KindOf(promptVal))
		}

		steps = append(steps, Step{
			Index:       i + 1,
			Name:        stringField(m, "name"),
			Prompt:      prompt,
			System:      stringField(m, "system"),
			Provider:    stringField(m, "provider"),
			Model:       stringField(m, "model"),
			MaxTokens:   intField(m, "max_tokens"),
			Temperature: floatField(m, "temperature"),
		})
	}

	return steps, skipped, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
