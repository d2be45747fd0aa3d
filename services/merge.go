package services

// MergePatch merges a partial update over the current value of a
// tree-shaped document. Values are the generic JSON shapes produced by
// encoding/json: map[string]interface{}, []interface{}, string, float64,
// bool and nil.
//
// Policy:
//   - an explicit null in the patch replaces the whole subtree with null
//   - a map merges key-by-key against the current map; keys absent from
//     the patch keep their current value
//   - when the current value at a path is null or a different shape, the
//     patch value replaces it wholesale
//   - lists merge element-by-element by index; indexes past the end of the
//     patch keep the current element, indexes past the end of the current
//     list take the patch element
//   - scalars replace
func MergePatch(current, patch interface{}) interface{} {
	if patch == nil {
		return nil
	}
	switch p := patch.(type) {
	case map[string]interface{}:
		cur, ok := current.(map[string]interface{})
		if !ok || cur == nil {
			return p
		}
		merged := make(map[string]interface{}, len(cur)+len(p))
		for k, v := range cur {
			merged[k] = v
		}
		for k, v := range p {
			merged[k] = MergePatch(cur[k], v)
		}
		return merged
	case []interface{}:
		cur, ok := current.([]interface{})
		if !ok || cur == nil {
			return p
		}
		n := len(cur)
		if len(p) > n {
			n = len(p)
		}
		merged := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			switch {
			case i >= len(p):
				merged = append(merged, cur[i])
			case i >= len(cur):
				merged = append(merged, p[i])
			default:
				merged = append(merged, MergePatch(cur[i], p[i]))
			}
		}
		return merged
	default:
		return patch
	}
}
