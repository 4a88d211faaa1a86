package example

import "sort"

// Merge returns a fresh object holding base's keys followed by every override
// applied in turn. Overrides replace top-level keys only: a nested value in an
// override replaces the whole value in base, it is never merged into it.
// Neither base nor the overrides are mutated.
func Merge(base *Object, overrides ...map[string]any) *Object {
	out := base.Clone()
	for _, override := range overrides {
		for _, key := range sortedKeys(override) {
			out.Set(key, cloneValue(override[key]))
		}
	}
	return out
}

// Combine layers objects left to right with the same shallow semantics as
// Merge: later objects win on shared keys.
func Combine(layers ...*Object) *Object {
	out := NewObject()
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		for _, key := range layer.keys {
			out.Set(key, cloneValue(layer.values[key]))
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
