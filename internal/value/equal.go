package value

import "bytes"

// Equal reports whether a and b are the same variant with the same payload,
// recursively. Floating point payloads compare with ==, so NaN never equals
// itself. Nil values are equal only to nil.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Null:
		return true
	case Boolean:
		return av == b.(Boolean)
	case Int:
		return av == b.(Int)
	case Long:
		return av == b.(Long)
	case Float:
		return av == b.(Float)
	case Double:
		return av == b.(Double)
	case Bytes:
		return bytes.Equal(av, b.(Bytes))
	case Fixed:
		bv := b.(Fixed)
		return av.Size == bv.Size && bytes.Equal(av.Bytes, bv.Bytes)
	case String:
		return av == b.(String)
	case Union:
		bv := b.(Union)
		return av.Index == bv.Index && Equal(av.Value, bv.Value)
	case Enum:
		return av == b.(Enum)
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv := b.(Map)
		if len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, ok := bv[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	case Record:
		bv := b.(Record)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Name != bv[i].Name || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
