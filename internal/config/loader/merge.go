package loader

import "maps"

// DeepMerge layers src over dst and returns dst. Nested maps merge key by
// key; any other src value replaces what dst held.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if old, isMap := dst[k].(map[string]any); ok && isMap {
			dst[k] = DeepMerge(old, sub)
			continue
		}
		dst[k] = v
	}
	return dst
}

// Clone deep-copies a settings map, including nested maps and lists.
func Clone(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := maps.Clone(src)
	for k, v := range dst {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return Clone(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
