package ser

import (
	"bytes"
	"math"

	"github.com/roach88/avrovalue/internal/value"
)

// Option configures a serialization pass.
type Option func(*options)

type options struct {
	humanReadable *bool
}

// WithHumanReadable overrides the process-wide human-readable flag for one
// pass. It changes only what IsHumanReadable reports, never an output value.
func WithHumanReadable(v bool) Option {
	return func(o *options) {
		o.humanReadable = &v
	}
}

// pass is the state shared by every Dispatcher of one ToValue call.
type pass struct {
	hint          *BytesHint
	humanReadable bool
}

// Dispatcher implements Serializer and produces value.Value trees.
//
// Nested values are serialized by a newly constructed Dispatcher that shares
// only the pass (byte hint and human-readable flag) with its parent.
type Dispatcher struct {
	pass *pass
}

var _ Serializer = (*Dispatcher)(nil)

// NewDispatcher starts a new serialization pass.
func NewDispatcher(opts ...Option) *Dispatcher {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var readable bool
	if o.humanReadable != nil {
		readable = *o.humanReadable
	} else {
		readable = IsHumanReadable()
	}

	return &Dispatcher{pass: &pass{
		hint:          &BytesHint{},
		humanReadable: readable,
	}}
}

// ToValue interprets v as an Avro value.
//
// Conversion fails for uint64 values above math.MaxInt64, maps whose keys do
// not serialize to strings, and Go kinds with no Avro shape.
func ToValue(v any, opts ...Option) (value.Value, error) {
	return Of(v).SerializeAvro(NewDispatcher(opts...))
}

// nested returns a fresh Dispatcher for the same pass.
func (d *Dispatcher) nested() *Dispatcher {
	return &Dispatcher{pass: d.pass}
}

// serialize converts a nested value. Errors are returned unchanged.
func (d *Dispatcher) serialize(v any) (value.Value, error) {
	return Of(v).SerializeAvro(d.nested())
}

func (d *Dispatcher) bytesHint() *BytesHint {
	return d.pass.hint
}

func (d *Dispatcher) SerializeBool(v bool) (value.Value, error) {
	return value.Boolean(v), nil
}

func (d *Dispatcher) SerializeInt8(v int8) (value.Value, error) {
	return d.SerializeInt32(int32(v))
}

func (d *Dispatcher) SerializeInt16(v int16) (value.Value, error) {
	return d.SerializeInt32(int32(v))
}

func (d *Dispatcher) SerializeInt32(v int32) (value.Value, error) {
	return value.Int(v), nil
}

func (d *Dispatcher) SerializeInt64(v int64) (value.Value, error) {
	return value.Long(v), nil
}

func (d *Dispatcher) SerializeUint8(v uint8) (value.Value, error) {
	return d.SerializeInt32(int32(v))
}

func (d *Dispatcher) SerializeUint16(v uint16) (value.Value, error) {
	return d.SerializeInt32(int32(v))
}

// SerializeUint32 widens by range: values that fit an int32 stay Int.
func (d *Dispatcher) SerializeUint32(v uint32) (value.Value, error) {
	if v <= math.MaxInt32 {
		return d.SerializeInt32(int32(v))
	}
	return d.SerializeInt64(int64(v))
}

// SerializeUint64 fails for values above math.MaxInt64; Avro has no
// unsigned 64-bit type and the value is never saturated.
func (d *Dispatcher) SerializeUint64(v uint64) (value.Value, error) {
	if v <= math.MaxInt64 {
		return d.SerializeInt64(int64(v))
	}
	return nil, newEncodeError(ErrCodeValueOutOfRange, "uint64 value too large to represent: %d", v)
}

func (d *Dispatcher) SerializeFloat32(v float32) (value.Value, error) {
	return value.Float(v), nil
}

func (d *Dispatcher) SerializeFloat64(v float64) (value.Value, error) {
	return value.Double(v), nil
}

func (d *Dispatcher) SerializeChar(v rune) (value.Value, error) {
	return d.SerializeString(string(v))
}

func (d *Dispatcher) SerializeString(v string) (value.Value, error) {
	return value.String(v), nil
}

// SerializeBytes copies v into Bytes, or into Fixed when the pass hint says
// so.
func (d *Dispatcher) SerializeBytes(v []byte) (value.Value, error) {
	if d.pass.hint.Kind() == BytesFixed {
		return value.NewFixed(bytes.Clone(v)), nil
	}
	return value.Bytes(bytes.Clone(v)), nil
}

func (d *Dispatcher) SerializeNone() (value.Value, error) {
	return value.None(), nil
}

func (d *Dispatcher) SerializeSome(v any) (value.Value, error) {
	inner, err := d.serialize(v)
	if err != nil {
		return nil, err
	}
	return value.Some(inner), nil
}

func (d *Dispatcher) SerializeUnit() (value.Value, error) {
	return value.Null{}, nil
}

func (d *Dispatcher) SerializeUnitStruct(string) (value.Value, error) {
	return d.SerializeUnit()
}

// SerializeUnitVariant emits the variant name as a bare String. The
// dispatcher has no schema, so any tag wrapping a consumer expects is left
// to the consuming schema.
func (d *Dispatcher) SerializeUnitVariant(_ string, _ uint32, variant string) (value.Value, error) {
	return value.String(variant), nil
}

// SerializeNewtypeStruct is transparent: the wrapper serializes as its
// inner value.
func (d *Dispatcher) SerializeNewtypeStruct(_ string, v any) (value.Value, error) {
	return d.serialize(v)
}

// SerializeNewtypeVariant produces
//
//	Record[("type", Enum(index, variant)), ("value", Union(index, v))]
func (d *Dispatcher) SerializeNewtypeVariant(_ string, index uint32, variant string, v any) (value.Value, error) {
	inner, err := d.serialize(v)
	if err != nil {
		return nil, err
	}
	return variantRecord(index, variant, value.Union{Index: index, Value: inner}), nil
}

func (d *Dispatcher) SerializeSeq(length int) (SeqBuilder, error) {
	return newSeqBuilder(d, length), nil
}

func (d *Dispatcher) SerializeTuple(length int) (SeqBuilder, error) {
	return d.SerializeSeq(length)
}

func (d *Dispatcher) SerializeTupleStruct(_ string, length int) (SeqBuilder, error) {
	return d.SerializeSeq(length)
}

func (d *Dispatcher) SerializeTupleVariant(_ string, index uint32, variant string, length int) (SeqBuilder, error) {
	return newSeqVariantBuilder(d, index, variant, length), nil
}

func (d *Dispatcher) SerializeMap(length int) (MapBuilder, error) {
	return newMapBuilder(d, length), nil
}

func (d *Dispatcher) SerializeStruct(_ string, length int) (StructBuilder, error) {
	return newStructBuilder(d, length), nil
}

func (d *Dispatcher) SerializeStructVariant(_ string, index uint32, variant string, length int) (StructBuilder, error) {
	return newStructVariantBuilder(d, index, variant, length), nil
}

func (d *Dispatcher) IsHumanReadable() bool {
	return d.pass.humanReadable
}

// variantRecord builds the two-field shape shared by newtype, tuple and
// struct variants. Field names are literally "type" and "value".
func variantRecord(index uint32, variant string, payload value.Value) value.Record {
	return value.Record{
		value.F("type", value.Enum{Index: index, Symbol: variant}),
		value.F("value", payload),
	}
}
