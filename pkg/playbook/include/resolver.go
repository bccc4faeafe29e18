// Package include resolves include directives in playbook documents.
// Targets are confined to a workspace root, and included content must be
// fully static: no placeholders, no further include directives.
package include

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pbErrors "weftworks/weft/pkg/playbook/errors"
	"weftworks/weft/pkg/playbook/node"
)

// DefaultMaxFileSize caps how large an included file may be.
const DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB

// Resolver loads include directives relative to a workspace root and refuses
// any target that escapes it.
type Resolver struct {
	root        string // normalized absolute workspace root
	maxFileSize int64
	resolved    int
}

// NewResolver creates a resolver rooted at the given directory.
// The root is normalized to its absolute, symlink-resolved form so traversal
// checks operate on real paths (e.g. /var -> /private/var on macOS).
func NewResolver(root string) *Resolver {
	normalized := root
	if absPath, err := filepath.Abs(root); err == nil {
		normalized = absPath
		if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
			normalized = realPath
		}
	}

	return &Resolver{
		root:        normalized,
		maxFileSize: DefaultMaxFileSize,
	}
}

// WithMaxFileSize sets the maximum size of an included file.
func (r *Resolver) WithMaxFileSize(size int64) *Resolver {
	r.maxFileSize = size
	return r
}

// Root returns the normalized workspace root the resolver is confined to.
func (r *Resolver) Root() string {
	return r.root
}

// Resolved returns how many include directives this resolver has spliced.
func (r *Resolver) Resolved() int {
	return r.resolved
}

// IsDirective reports whether a node is an include directive: a mapping with
// exactly one key named "include" whose value is a string.
func IsDirective(n any) bool {
	return node.KindOf(n) == node.KindInclude
}

// ResolveWorkspacePath resolves a requested include target to an absolute
// path inside the workspace root. Relative targets resolve against the root;
// absolute targets are honored only when they land inside it. The check runs
// on the normalized, symlink-resolved path, so traversal segments and
// symlink tricks in the string form cannot slip past it.
func (r *Resolver) ResolveWorkspacePath(requested string) (string, error) {
	var candidate string
	if filepath.IsAbs(requested) {
		candidate = filepath.Clean(requested)
	} else {
		candidate = filepath.Join(r.root, requested)
	}

	// Resolve symlinks where the target exists; fall back to the lexical
	// absolute form when it does not (the not-found error comes later).
	normalized := candidate
	if realPath, err := filepath.EvalSymlinks(candidate); err == nil {
		normalized = realPath
	}

	rel, err := filepath.Rel(r.root, normalized)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &pbErrors.Error{
			Kind:    pbErrors.KindSecurityViolation,
			Message: fmt.Sprintf("Include path %q escapes the workspace root (directory traversal prevented)", requested),
			Location: pbErrors.Location{
				File: candidate,
			},
			Suggestion: "Keep include targets inside the playbook's directory tree",
		}
	}

	return normalized, nil
}

// Load resolves, reads, parses, and statically validates an include target.
// A target with an unrecognized extension loads as null: only recognized
// markup files are inlined, everything else is treated as absent.
func (r *Resolver) Load(requested string) (any, error) {
	path, err := r.ResolveWorkspacePath(requested)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &pbErrors.Error{
			Kind:    pbErrors.KindIncludeNotFound,
			Message: fmt.Sprintf("Include target %q not found", requested),
			Location: pbErrors.Location{
				File: path,
			},
			Suggestion: pbErrors.SuggestIncludePath(requested),
		}
	}

	if !IsMarkupFile(path) {
		return nil, nil
	}

	if info.Size() > r.maxFileSize {
		return nil, &pbErrors.Error{
			Kind:    pbErrors.KindIO,
			Message: fmt.Sprintf("Include target %q is %d bytes, exceeding the %d byte limit", requested, info.Size(), r.maxFileSize),
			Location: pbErrors.Location{
				File: path,
			},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &pbErrors.Error{
			Kind:    pbErrors.KindIncludeNotFound,
			Message: fmt.Sprintf("Include target %q could not be read: %v", requested, err),
			Location: pbErrors.Location{
				File: path,
			},
		}
	}

	doc, err := node.Parse(data, path)
	if err != nil {
		return nil, err
	}

	if err := ValidateStatic(doc); err != nil {
		var pbErr *pbErrors.Error
		if errors.As(err, &pbErr) {
			return nil, pbErr.At(pbErrors.Location{File: path, Line: 1})
		}
		return nil, err
	}

	return doc, nil
}

// Process walks a document graph and splices every include directive with
// the loaded content of its target. Mappings are rebuilt with each value
// processed, sequences element-wise; other nodes pass through unchanged.
func (r *Resolver) Process(doc any) (any, error) {
	switch node.KindOf(doc) {
	case node.KindInclude:
		target, _ := node.IncludeTarget(doc)
		loaded, err := r.Load(target)
		if err != nil {
			return nil, err
		}
		r.resolved++
		return loaded, nil
	case node.KindMapping:
		m := doc.(map[string]any)
		out := make(map[string]any, len(m))
		for key, child := range m {
			processed, err := r.Process(child)
			if err != nil {
				return nil, err
			}
			out[key] = processed
		}
		return out, nil
	case node.KindSequence:
		s := doc.([]any)
		out := make([]any, len(s))
		for i, child := range s {
			processed, err := r.Process(child)
			if err != nil {
				return nil, err
			}
			out[i] = processed
		}
		return out, nil
	default:
		return doc, nil
	}
}
