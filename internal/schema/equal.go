package schema

import "github.com/google/go-cmp/cmp"

// Equal reports whether a and b are the same schema entity: same kinds,
// names, documentation, defaults and field order, recursively.
func Equal(a, b Schema) bool {
	return cmp.Equal(a, b)
}

// Diff returns a human-readable difference between a and b, or "" when they
// are equal.
func Diff(a, b Schema) string {
	return cmp.Diff(a, b)
}
