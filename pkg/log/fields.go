package log

import "sort"

// FieldKeyPrefix is the name of the field used to prepend a `[prefix]` marker to formatted entries.
const FieldKeyPrefix = "prefix"

// Fields type, used to pass to `WithFields`.
type Fields map[string]any

// Keys returns the sorted field keys, skipping the given ones.
func (fields Fields) Keys(removeKeys ...string) []string {
	var keys []string //nolint:prealloc

	for key := range fields {
		var skip bool

		for _, removeKey := range removeKeys {
			if key == removeKey {
				skip = true
				break
			}
		}

		if !skip {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys
}
