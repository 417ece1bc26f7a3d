package weather

import "sort"

// MergeKeyValueList collapses the upstream "now" payload into CurrentConditions.
//
// The payload arrives either as a plain object or as an ordered list of
// single-key objects ([{"time":"12:00"},{"temp":4.7},...]). For a list, the
// value of the last occurrence of a key wins. Malformed entries (null,
// non-objects, empty objects) are skipped. Any other input yields an empty
// result; this function never fails.
func MergeKeyValueList(raw any) CurrentConditions {
	switch v := raw.(type) {
	case map[string]any:
		return CurrentConditions(v)
	case CurrentConditions:
		return v
	case []any:
		out := make(CurrentConditions, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok || len(obj) == 0 {
				continue
			}
			k := firstKey(obj)
			out[k] = obj[k]
		}
		return out
	default:
		return CurrentConditions{}
	}
}

// firstKey picks the entry key. Upstream entries carry a single key; for the
// odd multi-key entry the lexically smallest key is used so the outcome does
// not depend on map iteration order.
func firstKey(obj map[string]any) string {
	if len(obj) == 1 {
		for k := range obj {
			return k
		}
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}
