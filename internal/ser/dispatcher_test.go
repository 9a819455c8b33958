package ser

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/avrovalue/internal/value"
)

type testRecord struct {
	A int64  `avro:"a"`
	B string `avro:"b"`
}

type testInner struct {
	A testRecord `avro:"a"`
	B int32      `avro:"b"`
}

func TestToValueRecord(t *testing.T) {
	test := testRecord{A: 27, B: "foo"}
	expected := value.Record{
		value.F("a", value.Long(27)),
		value.F("b", value.String("foo")),
	}

	got, err := ToValue(test)
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	inner, err := ToValue(testInner{A: test, B: 35})
	require.NoError(t, err)
	assert.Equal(t, value.Record{
		value.F("a", expected),
		value.F("b", value.Int(35)),
	}, inner)
}

func TestToValueNumericWidening(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want value.Value
	}{
		{"int8 sign-extends", int8(-128), value.Int(-128)},
		{"int16 sign-extends", int16(-32768), value.Int(-32768)},
		{"int32", int32(math.MinInt32), value.Int(math.MinInt32)},
		{"int64", int64(math.MaxInt64), value.Long(math.MaxInt64)},
		{"int is 64-bit", int(5), value.Long(5)},
		{"uint8 zero-extends", uint8(255), value.Int(255)},
		{"uint16 zero-extends", uint16(65535), value.Int(65535)},
		{"uint32 fits int", uint32(math.MaxInt32), value.Int(math.MaxInt32)},
		{"uint32 above int range", uint32(math.MaxInt32 + 1), value.Long(math.MaxInt32 + 1)},
		{"uint32 max", uint32(math.MaxUint32), value.Long(math.MaxUint32)},
		{"uint64 max long", uint64(math.MaxInt64), value.Long(math.MaxInt64)},
		{"uint is 64-bit", uint(7), value.Long(7)},
		{"float32", float32(1.5), value.Float(1.5)},
		{"float64", float64(64), value.Double(64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToValueUint64OutOfRange(t *testing.T) {
	_, err := ToValue(uint64(math.MaxInt64) + 1)
	require.Error(t, err)
	assert.True(t, IsValueOutOfRange(err))
	assert.Contains(t, err.Error(), "too large to represent")

	_, err = ToValue(uint64(math.MaxUint64))
	assert.True(t, IsValueOutOfRange(err))
}

func TestToValueScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want value.Value
	}{
		{"bool", true, value.Boolean(true)},
		{"char", Char('x'), value.String("x")},
		{"multibyte char", Char('é'), value.String("é")},
		{"string", "text", value.String("text")},
		{"bytes", []byte{1, 2}, value.Bytes{1, 2}},
		{"byte array", [2]byte{3, 4}, value.Bytes{3, 4}},
		{"fixed bytes", FixedBytes{5, 6}, value.NewFixed([]byte{5, 6})},
		{"nil", nil, value.None()},
		{"unit struct", struct{}{}, value.Null{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToValueOptional(t *testing.T) {
	type withOption struct {
		Present *int32 `avro:"present"`
		Absent  *int32 `avro:"absent"`
	}
	n := int32(3)

	got, err := ToValue(withOption{Present: &n})
	require.NoError(t, err)
	assert.Equal(t, value.Record{
		value.F("present", value.Some(value.Int(3))),
		value.F("absent", value.None()),
	}, got)
}

func TestDispatcherHooks(t *testing.T) {
	d := NewDispatcher()

	tests := []struct {
		name string
		call func() (value.Value, error)
		want value.Value
	}{
		{"unit", d.SerializeUnit, value.Null{}},
		{"none", d.SerializeNone, value.Union{Index: 0, Value: value.Null{}}},
		{"unit struct", func() (value.Value, error) { return d.SerializeUnitStruct("Empty") }, value.Null{}},
		{"unit variant", func() (value.Value, error) { return d.SerializeUnitVariant("E", 0, "Val1") }, value.String("Val1")},
		{"some", func() (value.Value, error) { return d.SerializeSome(int64(2)) }, value.Union{Index: 1, Value: value.Long(2)}},
		{"newtype struct is transparent", func() (value.Value, error) { return d.SerializeNewtypeStruct("Meters", 1.5) }, value.Double(1.5)},
		{"char", func() (value.Value, error) { return d.SerializeChar('z') }, value.String("z")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.call()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatcherNewtypeVariant(t *testing.T) {
	d := NewDispatcher()

	got, err := d.SerializeNewtypeVariant("SingleValue", 0, "Double", 64.0)
	require.NoError(t, err)
	assert.Equal(t, value.Record{
		value.F("type", value.Enum{Index: 0, Symbol: "Double"}),
		value.F("value", value.Union{Index: 0, Value: value.Double(64)}),
	}, got)
}

func TestDispatcherTupleVariant(t *testing.T) {
	d := NewDispatcher()

	b, err := d.SerializeTupleVariant("Tuple", 1, "Val2", 3)
	require.NoError(t, err)
	for _, f := range []float32{1, 2, 3} {
		require.NoError(t, b.SerializeElement(f))
	}
	got, err := b.End()
	require.NoError(t, err)

	assert.Equal(t, value.Record{
		value.F("type", value.Enum{Index: 1, Symbol: "Val2"}),
		value.F("value", value.Array{
			value.Union{Index: 1, Value: value.Float(1)},
			value.Union{Index: 1, Value: value.Float(2)},
			value.Union{Index: 1, Value: value.Float(3)},
		}),
	}, got)
}

func TestDispatcherStructVariant(t *testing.T) {
	d := NewDispatcher()

	b, err := d.SerializeStructVariant("Shape", 0, "Val1", 2)
	require.NoError(t, err)
	require.NoError(t, b.SerializeField("x", float32(1)))
	require.NoError(t, b.SerializeField("y", float32(2)))
	got, err := b.End()
	require.NoError(t, err)

	assert.Equal(t, value.Record{
		value.F("type", value.Enum{Index: 0, Symbol: "Val1"}),
		value.F("value", value.Union{Index: 0, Value: value.Record{
			value.F("x", value.Float(1)),
			value.F("y", value.Float(2)),
		}}),
	}, got)
}

// recorder captures the serializer it was handed.
type recorder struct {
	seen *[]Serializer
}

func (r recorder) SerializeAvro(s Serializer) (value.Value, error) {
	*r.seen = append(*r.seen, s)
	return s.SerializeBool(s.IsHumanReadable())
}

func TestDispatcherNestedInstances(t *testing.T) {
	var seen []Serializer
	d := NewDispatcher(WithHumanReadable(false))

	b, err := d.SerializeSeq(2)
	require.NoError(t, err)
	require.NoError(t, b.SerializeElement(recorder{seen: &seen}))
	require.NoError(t, b.SerializeElement(recorder{seen: &seen}))
	got, err := b.End()
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.NotSame(t, d, seen[0], "nested values get a new dispatcher")
	assert.NotSame(t, seen[0], seen[1])
	assert.Same(t, d.bytesHint(), seen[0].(*Dispatcher).bytesHint(), "the pass hint is shared")
	assert.Equal(t, value.Array{value.Boolean(false), value.Boolean(false)}, got)
}

func TestHumanReadableDoesNotChangeOutput(t *testing.T) {
	in := testInner{A: testRecord{A: 1, B: "x"}, B: 2}

	readable, err := ToValue(in, WithHumanReadable(true))
	require.NoError(t, err)
	compact, err := ToValue(in, WithHumanReadable(false))
	require.NoError(t, err)

	assert.Equal(t, readable, compact)
	assert.True(t, NewDispatcher(WithHumanReadable(true)).IsHumanReadable())
	assert.False(t, NewDispatcher(WithHumanReadable(false)).IsHumanReadable())
}

func TestNestedErrorsPropagateUnchanged(t *testing.T) {
	type holder struct {
		Values []uint64 `avro:"values"`
	}

	_, direct := ToValue(uint64(math.MaxUint64))
	_, nested := ToValue(holder{Values: []uint64{1, math.MaxUint64}})
	require.Error(t, nested)

	var ee *EncodeError
	require.True(t, errors.As(nested, &ee))
	assert.Equal(t, ErrCodeValueOutOfRange, ee.Code)
	assert.Equal(t, direct.Error(), nested.Error(), "no wrapping on the way up")
}
