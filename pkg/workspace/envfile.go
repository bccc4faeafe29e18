package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pbErrors "weftworks/weft/pkg/playbook/errors"
	"weftworks/weft/pkg/playbook/node"
	"weftworks/weft/pkg/playbook/vars"
)

// varsFileSuffixes lists the filename suffixes honored as workspace
// variables files.
var varsFileSuffixes = []string{".vars.yaml", ".vars.yml"}

// IsVarsFile reports whether a filename follows the variables file
// naming convention.
func IsVarsFile(name string) bool {
	lower := strings.ToLower(filepath.Base(name))
	for _, suffix := range varsFileSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// DiscoverVarsFile returns the first variables file at the workspace root in
// directory listing order. At most one file is honored; absence returns an
// empty path, not an error.
func DiscoverVarsFile(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("failed to list workspace root: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsVarsFile(entry.Name()) {
			return filepath.Join(root, entry.Name()), nil
		}
	}
	return "", nil
}

// LoadEnvFile parses a variables file into an Environment.
// The file's top-level keys become the variable names; an empty file yields
// an empty environment; any non-mapping root is an error.
func LoadEnvFile(path string) (vars.Environment, error) {
	doc, err := node.ParseFile(path)
	if err != nil {
		return nil, err
	}

	switch v := doc.(type) {
	case nil:
		return vars.Environment{}, nil
	case map[string]any:
		return vars.Environment(v), nil
	default:
		return nil, &pbErrors.Error{
			Kind:    pbErrors.KindStructural,
			Message: fmt.Sprintf("Variables file root must be a mapping, got %s", node.KindOf(doc)),
			Location: pbErrors.Location{
				File: path,
				Line: 1,
			},
			Suggestion: "Write one 'name: value' pair per variable",
		}
	}
}
