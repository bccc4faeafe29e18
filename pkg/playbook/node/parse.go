package node

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pbErrors "weftworks/weft/pkg/playbook/errors"
)

// Parse decodes playbook markup into the untyped node model.
// It preserves the two-step decode through yaml.Node so syntax errors keep
// their position information from the underlying parser.
func Parse(data []byte, sourcePath string) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, syntaxError(err, sourcePath)
	}

	var doc any
	if err := root.Decode(&doc); err != nil {
		return nil, syntaxError(err, sourcePath)
	}

	if err := rejectNonStringKeys(doc, sourcePath); err != nil {
		return nil, err
	}

	return doc, nil
}

// ParseFile reads and decodes a playbook file.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &pbErrors.Error{
			Kind:    pbErrors.KindIO,
			Message: fmt.Sprintf("Failed to read file: %v", err),
			Location: pbErrors.Location{
				File: path,
			},
		}
	}
	return Parse(data, path)
}

// Marshal renders a decoded document back to markup.
func Marshal(doc any) ([]byte, error) {
	return yaml.Marshal(doc)
}

func syntaxError(err error, sourcePath string) *pbErrors.Error {
	return &pbErrors.Error{
		Kind:    pbErrors.KindSyntax,
		Message: fmt.Sprintf("Markup parsing failed: %v", err),
		Location: pbErrors.Location{
			File: sourcePath,
			Line: 1,
		},
		Suggestion: "Check markup syntax (indentation, colons, quotes)",
	}
}

// rejectNonStringKeys walks the decoded tree and refuses mappings whose keys
// are not strings. The node model only admits string-keyed mappings; the
// decoder falls back to map[any]any when it meets anything else.
func rejectNonStringKeys(doc any, sourcePath string) error {
	switch v := doc.(type) {
	case map[string]any:
		for _, child := range v {
			if err := rejectNonStringKeys(child, sourcePath); err != nil {
				return err
			}
		}
	case []any:
		for _, child := range v {
			if err := rejectNonStringKeys(child, sourcePath); err != nil {
				return err
			}
		}
	case map[any]any:
		return &pbErrors.Error{
			Kind:    pbErrors.KindSyntax,
			Message: "Mapping keys must be strings",
			Location: pbErrors.Location{
				File: sourcePath,
				Line: 1,
			},
			Suggestion: "Quote the key to force a string (for example '1': value)",
		}
	}
	return nil
}
