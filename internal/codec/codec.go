package codec

import (
	"fmt"

	"github.com/linkedin/goavro/v2"

	"github.com/roach88/avrovalue/internal/schema"
	"github.com/roach88/avrovalue/internal/value"
)

// Encoder encodes value trees with one schema. It is safe for concurrent
// use.
type Encoder struct {
	schema    schema.Schema
	converter *converter
	codec     *goavro.Codec
}

// NewEncoder compiles s.
func NewEncoder(s schema.Schema) (*Encoder, error) {
	codec, err := schema.CanonicalCodec(s)
	if err != nil {
		return nil, err
	}
	return &Encoder{schema: s, converter: newConverter(s), codec: codec}, nil
}

// Schema returns the schema the encoder was built with.
func (e *Encoder) Schema() schema.Schema {
	return e.schema
}

// ToNative reconciles v with the schema and returns the goavro native form.
func (e *Encoder) ToNative(v value.Value) (any, error) {
	return e.converter.native(v, e.schema, "$")
}

// Encode returns the Avro binary encoding of v.
func (e *Encoder) Encode(v value.Value) ([]byte, error) {
	native, err := e.ToNative(v)
	if err != nil {
		return nil, err
	}
	data, err := e.codec.BinaryFromNative(nil, native)
	if err != nil {
		return nil, fmt.Errorf("encode binary: %w", err)
	}
	return data, nil
}

// EncodeJSON returns the Avro JSON encoding of v.
func (e *Encoder) EncodeJSON(v value.Value) ([]byte, error) {
	native, err := e.ToNative(v)
	if err != nil {
		return nil, err
	}
	data, err := e.codec.TextualFromNative(nil, native)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

// ToNative reconciles v with s without compiling s.
func ToNative(v value.Value, s schema.Schema) (any, error) {
	return newConverter(s).native(v, s, "$")
}

// Encode returns the Avro binary encoding of v under s.
func Encode(v value.Value, s schema.Schema) ([]byte, error) {
	e, err := NewEncoder(s)
	if err != nil {
		return nil, err
	}
	return e.Encode(v)
}

// EncodeJSON returns the Avro JSON encoding of v under s.
func EncodeJSON(v value.Value, s schema.Schema) ([]byte, error) {
	e, err := NewEncoder(s)
	if err != nil {
		return nil, err
	}
	return e.EncodeJSON(v)
}
