package ser

import "github.com/roach88/avrovalue/internal/value"

// UnknownLen is passed as a length hint when the number of elements is not
// known before serialization starts.
const UnknownLen = -1

// Serializer is the generic serialization protocol. A Serializable value
// describes itself by calling exactly one hook; aggregate hooks return a
// builder that receives the elements and produces the value on End.
//
// Nested values are passed as any and resolved with Of, so they may be plain
// Go values or Serializable implementations.
type Serializer interface {
	SerializeBool(v bool) (value.Value, error)
	SerializeInt8(v int8) (value.Value, error)
	SerializeInt16(v int16) (value.Value, error)
	SerializeInt32(v int32) (value.Value, error)
	SerializeInt64(v int64) (value.Value, error)
	SerializeUint8(v uint8) (value.Value, error)
	SerializeUint16(v uint16) (value.Value, error)
	SerializeUint32(v uint32) (value.Value, error)
	SerializeUint64(v uint64) (value.Value, error)
	SerializeFloat32(v float32) (value.Value, error)
	SerializeFloat64(v float64) (value.Value, error)
	SerializeChar(v rune) (value.Value, error)
	SerializeString(v string) (value.Value, error)
	SerializeBytes(v []byte) (value.Value, error)

	// SerializeNone and SerializeSome handle optional values.
	SerializeNone() (value.Value, error)
	SerializeSome(v any) (value.Value, error)

	SerializeUnit() (value.Value, error)
	SerializeUnitStruct(name string) (value.Value, error)
	SerializeUnitVariant(name string, index uint32, variant string) (value.Value, error)
	SerializeNewtypeStruct(name string, v any) (value.Value, error)
	SerializeNewtypeVariant(name string, index uint32, variant string, v any) (value.Value, error)

	SerializeSeq(length int) (SeqBuilder, error)
	SerializeTuple(length int) (SeqBuilder, error)
	SerializeTupleStruct(name string, length int) (SeqBuilder, error)
	SerializeTupleVariant(name string, index uint32, variant string, length int) (SeqBuilder, error)
	SerializeMap(length int) (MapBuilder, error)
	SerializeStruct(name string, length int) (StructBuilder, error)
	SerializeStructVariant(name string, index uint32, variant string, length int) (StructBuilder, error)

	// IsHumanReadable reports whether the destination is a human-readable
	// format. Types may use it to pick a representation.
	IsHumanReadable() bool
}

// Serializable is implemented by types that describe themselves through the
// protocol, the way encoding/json.Marshaler lets a type own its JSON form.
type Serializable interface {
	SerializeAvro(s Serializer) (value.Value, error)
}

// SeqBuilder accumulates the elements of a sequence, tuple or tuple variant.
type SeqBuilder interface {
	SerializeElement(v any) error
	End() (value.Value, error)
}

// MapBuilder accumulates the entries of a map. Keys and values alternate:
// SerializeKey then SerializeValue.
type MapBuilder interface {
	SerializeKey(k any) error
	SerializeValue(v any) error
	End() (value.Value, error)
}

// StructBuilder accumulates the fields of a struct or struct variant in
// declaration order.
type StructBuilder interface {
	SerializeField(name string, v any) error
	End() (value.Value, error)
}

// SerializeEntry serializes one key/value pair into b.
func SerializeEntry(b MapBuilder, k, v any) error {
	if err := b.SerializeKey(k); err != nil {
		return err
	}
	return b.SerializeValue(v)
}
