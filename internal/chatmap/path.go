package chatmap

// GetByPath walks a decoded JSON mapping along path. A missing or non-mapping
// intermediate step degrades to an empty mapping so traversal keeps going; a
// missing terminal key yields the empty string. It never fails: the chat
// action schema is a union of ~10 variants and only one variant's branch is
// populated per record, so absent keys are the normal case.
func GetByPath(record map[string]any, path ...string) any {
	current := record
	for i, key := range path {
		if i == len(path)-1 {
			if v, ok := current[key]; ok {
				return v
			}
			return ""
		}
		next, ok := current[key].(map[string]any)
		if !ok {
			next = map[string]any{}
		}
		current = next
	}
	return ""
}
