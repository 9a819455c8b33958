package ser

import "github.com/roach88/avrovalue/internal/value"

// BytesKind selects the Avro representation of a byte slice.
type BytesKind uint8

const (
	// BytesVariable produces value.Bytes. It is the default.
	BytesVariable BytesKind = iota
	// BytesFixed produces value.Fixed sized to the slice.
	BytesFixed
)

// String returns the kind name.
func (k BytesKind) String() string {
	if k == BytesFixed {
		return "fixed"
	}
	return "bytes"
}

// BytesHint is the byte-representation cell of one serialization pass.
//
// The protocol has a single SerializeBytes hook but Avro distinguishes bytes
// from fixed, so a field annotation sets the hint immediately before the
// hook runs and the hint is restored to BytesVariable as soon as the hook
// returns, whether it failed or not.
//
// A BytesHint is not synchronized. It belongs to exactly one pass, and a
// pass runs on one goroutine; concurrent passes each get their own hint from
// NewDispatcher.
type BytesHint struct {
	kind BytesKind
}

// Kind returns the representation the next SerializeBytes call will use.
func (h *BytesHint) Kind() BytesKind {
	return h.kind
}

// acquire sets the hint and returns the function that restores it.
func (h *BytesHint) acquire(kind BytesKind) (release func()) {
	h.kind = kind
	return func() { h.kind = BytesVariable }
}

// hinted is implemented by serializers that consult a BytesHint.
type hinted interface {
	bytesHint() *BytesHint
}

// SerializeFixed serializes b through s as a fixed-size byte sequence.
// Serializers without a hint cell receive a plain SerializeBytes call.
func SerializeFixed(s Serializer, b []byte) (value.Value, error) {
	return serializeBytesAs(s, b, BytesFixed)
}

// SerializeBytes serializes b through s as a variable-length byte sequence.
func SerializeBytes(s Serializer, b []byte) (value.Value, error) {
	return serializeBytesAs(s, b, BytesVariable)
}

func serializeBytesAs(s Serializer, b []byte, kind BytesKind) (value.Value, error) {
	h, ok := s.(hinted)
	if !ok {
		return s.SerializeBytes(b)
	}
	release := h.bytesHint().acquire(kind)
	defer release()
	return s.SerializeBytes(b)
}

// FixedBytes is a byte slice that always serializes as value.Fixed.
type FixedBytes []byte

// SerializeAvro implements Serializable.
func (b FixedBytes) SerializeAvro(s Serializer) (value.Value, error) {
	return SerializeFixed(s, b)
}
