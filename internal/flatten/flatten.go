// Package flatten collapses nested JSON-like values into flat
// path -> leaf mappings. It is used to carry arbitrary source metadata
// alongside canonical health fields without recursing into it twice.
package flatten

import (
	"strings"
	"time"
)

// Separator joins nested object keys in flattened paths.
const Separator = "_"

// Flatten collapses an acyclic JSON-like value into a map from
// separator-joined path to leaf value. Leaves are nil, scalars,
// timestamps and arrays; arrays are opaque and never recursed into.
// Empty nested objects contribute no keys. Flatten never fails; a nil
// or empty input yields an empty map.
func Flatten(value any, prefix string) map[string]any {
	out := make(map[string]any)
	walk(value, prefix, out)
	return out
}

func walk(value any, prefix string, out map[string]any) {
	obj, ok := asObject(value)
	if !ok {
		key := strings.TrimSuffix(prefix, Separator)
		if key == "" {
			return
		}
		out[key] = value
		return
	}
	for key, child := range obj {
		walk(child, prefix+key+Separator, out)
	}
}

// asObject reports whether value should be recursed into. Timestamps
// are map-shaped in no source we ingest, but time.Time is excluded
// explicitly so a pre-parsed instant stays a leaf.
func asObject(value any) (map[string]any, bool) {
	if _, isTime := value.(time.Time); isTime {
		return nil, false
	}
	obj, ok := value.(map[string]any)
	return obj, ok
}

// RemoveDuplicates returns a copy of flat without any key that exactly
// equals, or is a separator-prefixed descendant of, a key present in
// base. It is used to merge leftover metadata without re-emitting
// fields already captured by canonical extraction.
func RemoveDuplicates(base, flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for key, value := range flat {
		if covered(base, key) {
			continue
		}
		out[key] = value
	}
	return out
}

func covered(base map[string]any, key string) bool {
	for baseKey := range base {
		if key == baseKey || strings.HasPrefix(key, baseKey+Separator) {
			return true
		}
	}
	return false
}
