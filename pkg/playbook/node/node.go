package node

import "reflect"

// Kind classifies a decoded document node.
// Playbook documents decode into plain Go values: mappings become
// map[string]any, sequences become []any, and everything else is a scalar.
type Kind string

const (
	KindScalar   Kind = "scalar"   // string, number, boolean, null, timestamp
	KindSequence Kind = "sequence" // ordered list of nodes
	KindMapping  Kind = "mapping"  // string-keyed map of nodes
	KindInclude  Kind = "include"  // include directive (single-key mapping)
)

// IncludeKey is the mapping key that marks an include directive.
const IncludeKey = "include"

// KindOf returns the kind of a decoded document node.
// A mapping counts as an include directive only when its single key is
// IncludeKey and the value is a string; a mapping with extra keys or a
// non-string target is an ordinary mapping.
func KindOf(n any) Kind {
	switch v := n.(type) {
	case map[string]any:
		if len(v) == 1 {
			if target, ok := v[IncludeKey]; ok {
				if _, isString := target.(string); isString {
					return KindInclude
				}
			}
		}
		return KindMapping
	case []any:
		return KindSequence
	default:
		return KindScalar
	}
}

// IncludeTarget returns the relative path carried by an include directive.
// The second return value is false if the node is not an include directive.
func IncludeTarget(n any) (string, bool) {
	if KindOf(n) != KindInclude {
		return "", false
	}
	target, _ := n.(map[string]any)[IncludeKey].(string)
	return target, true
}

// Equal reports whether two decoded documents are semantically equal.
// Mapping key order is irrelevant; sequence order and scalar types matter.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
