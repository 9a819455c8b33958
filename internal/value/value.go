package value

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface representing every shape the Avro format can
// encode. Only the types in this file implement it.
type Value interface {
	Kind() Kind
	avroValue() // Sealed
}

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBytes
	KindFixed
	KindString
	KindUnion
	KindEnum
	KindArray
	KindMap
	KindRecord
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBytes:
		return "bytes"
	case KindFixed:
		return "fixed"
	case KindString:
		return "string"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Null represents the absence of a value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) avroValue() {}

// Boolean is a boolean value.
type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }
func (Boolean) avroValue() {}

// Int is a 32-bit signed integer.
type Int int32

func (Int) Kind() Kind { return KindInt }
func (Int) avroValue() {}

// Long is a 64-bit signed integer.
type Long int64

func (Long) Kind() Kind { return KindLong }
func (Long) avroValue() {}

// Float is a 32-bit IEEE 754 number.
type Float float32

func (Float) Kind() Kind { return KindFloat }
func (Float) avroValue() {}

// Double is a 64-bit IEEE 754 number.
type Double float64

func (Double) Kind() Kind { return KindDouble }
func (Double) avroValue() {}

// Bytes is a variable-length byte sequence.
type Bytes []byte

func (Bytes) Kind() Kind { return KindBytes }
func (Bytes) avroValue() {}

// Fixed is a byte sequence whose length is part of its type.
// Size always equals len(Bytes) for values built by NewFixed.
type Fixed struct {
	Size  int
	Bytes []byte
}

func (Fixed) Kind() Kind { return KindFixed }
func (Fixed) avroValue() {}

// String is a UTF-8 text value.
type String string

func (String) Kind() Kind { return KindString }
func (String) avroValue() {}

// Union is a tagged choice: one branch of a union, identified by its
// zero-based index, holding exactly one inner value.
type Union struct {
	Index uint32
	Value Value
}

func (Union) Kind() Kind { return KindUnion }
func (Union) avroValue() {}

// Enum is an enumerated symbol. Index and Symbol refer to the same symbol.
type Enum struct {
	Index  uint32
	Symbol string
}

func (Enum) Kind() Kind { return KindEnum }
func (Enum) avroValue() {}

// Array is an ordered sequence of values.
type Array []Value

func (Array) Kind() Kind { return KindArray }
func (Array) avroValue() {}

// Map is a string-keyed mapping. Iteration order is irrelevant;
// use SortedKeys for deterministic iteration.
type Map map[string]Value

func (Map) Kind() Kind { return KindMap }
func (Map) avroValue() {}

// Field is a single named entry of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered list of named fields.
type Record []Field

func (Record) Kind() Kind { return KindRecord }
func (Record) avroValue() {}

// NewFixed creates a Fixed value sized to b.
func NewFixed(b []byte) Fixed {
	return Fixed{Size: len(b), Bytes: b}
}

// F is a shorthand for Field.
// Example: Record{F("a", Long(27)), F("b", String("foo"))}
func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// None is the value of an absent optional: the null branch of an
// optional union.
func None() Union {
	return Union{Index: 0, Value: Null{}}
}

// Some wraps a present optional value in the second branch of an
// optional union.
func Some(v Value) Union {
	return Union{Index: 1, Value: v}
}

// Optional returns None for a nil v and Some(v) otherwise.
func Optional(v Value) Union {
	if v == nil {
		return None()
	}
	return Some(v)
}

// Get returns the value of the first field with the given name.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in record order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings by UTF-16 code units.
// Go's native string comparison uses UTF-8 bytes, which orders
// supplementary-plane characters differently.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
