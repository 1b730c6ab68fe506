package header

import "github.com/aretw0/timethings/pkg/core"

// Get returns the value at path inside tree.
// ok is false when any segment is missing or an intermediate value is not
// a mapping. A present key holding null yields (nil, true).
func Get(tree core.Metadata, path string) (any, bool) {
	segments, ok := SplitPath(path)
	if !ok || tree == nil {
		return nil, false
	}

	var current any = tree
	for _, key := range segments {
		m, isMap := asMap(current)
		if !isMap {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Set stores value at path inside tree, creating intermediate mappings as
// needed. An intermediate that exists but is not a mapping is replaced by a
// fresh mapping and its previous value is discarded.
func Set(tree core.Metadata, path string, value any) {
	segments, ok := SplitPath(path)
	if !ok || tree == nil {
		return
	}

	level := map[string]any(tree)
	for _, key := range segments[:len(segments)-1] {
		next, isMap := asMap(level[key])
		if !isMap {
			next = make(map[string]any)
			level[key] = next
		}
		level = next
	}
	level[segments[len(segments)-1]] = value
}

// asMap unwraps the mapping types a decoded header can hold.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case core.Metadata:
		return m, m != nil
	case map[string]any:
		return m, m != nil
	default:
		return nil, false
	}
}
