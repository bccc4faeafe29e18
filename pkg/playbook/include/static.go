package include

import (
	"fmt"
	"path/filepath"
	"strings"

	pbErrors "weftworks/weft/pkg/playbook/errors"
	"weftworks/weft/pkg/playbook/node"
	"weftworks/weft/pkg/playbook/vars"
)

// markupExtensions lists the file extensions the resolver inlines.
var markupExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

// IsMarkupFile reports whether the path carries a recognized markup extension.
func IsMarkupFile(path string) bool {
	return markupExtensions[strings.ToLower(filepath.Ext(path))]
}

// ValidateStatic confirms that included content is fully static.
// Includes are spliced before interpolation runs, so a placeholder inside an
// included file would silently skip variable resolution; a nested directive
// would demand cycle detection the design declines to support. Both are hard
// failures.
func ValidateStatic(doc any) error {
	switch node.KindOf(doc) {
	case node.KindInclude:
		target, _ := node.IncludeTarget(doc)
		return &pbErrors.Error{
			Kind:       pbErrors.KindNestedInclude,
			Message:    fmt.Sprintf("Included file contains a nested include directive for %q", target),
			Suggestion: "Inline the nested content; includes do not compose",
		}
	case node.KindMapping:
		for _, child := range doc.(map[string]any) {
			if err := ValidateStatic(child); err != nil {
				return err
			}
		}
	case node.KindSequence:
		for _, child := range doc.([]any) {
			if err := ValidateStatic(child); err != nil {
				return err
			}
		}
	default:
		if s, ok := doc.(string); ok && strings.Contains(s, vars.Marker) {
			return &pbErrors.Error{
				Kind:       pbErrors.KindPlaceholderInInclude,
				Message:    fmt.Sprintf("Included file contains the placeholder marker in %q", s),
				Suggestion: "Included content must be static; move the placeholder into the including playbook",
			}
		}
	}
	return nil
}
