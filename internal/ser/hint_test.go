package ser

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/avrovalue/internal/value"
)

type bytesRecord struct {
	Fixed    []byte  `avro:"fixed,fixed"`
	Variable []byte  `avro:"variable"`
	Array    [4]byte `avro:"array,fixed"`
	Optional *[]byte `avro:"optional,fixed"`
}

func TestFixedFieldAnnotation(t *testing.T) {
	opt := []byte{9}
	in := bytesRecord{
		Fixed:    []byte{1, 2, 3},
		Variable: []byte{4},
		Array:    [4]byte{5, 6, 7, 8},
		Optional: &opt,
	}

	got, err := ToValue(in)
	require.NoError(t, err)
	assert.Equal(t, value.Record{
		value.F("fixed", value.NewFixed([]byte{1, 2, 3})),
		value.F("variable", value.Bytes{4}),
		value.F("array", value.NewFixed([]byte{5, 6, 7, 8})),
		value.F("optional", value.Some(value.NewFixed([]byte{9}))),
	}, got)

	in.Optional = nil
	got, err = ToValue(in)
	require.NoError(t, err)
	optional, ok := got.(value.Record).Get("optional")
	require.True(t, ok)
	assert.Equal(t, value.None(), optional)
}

func TestBytesFieldOptionOnNonBytes(t *testing.T) {
	type bad struct {
		N int32 `avro:"n,fixed"`
	}

	_, err := ToValue(bad{})
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
}

func TestUnknownTagOption(t *testing.T) {
	type bad struct {
		N int32 `avro:"n,omitempty"`
	}

	_, err := ToValue(bad{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown avro tag option")
}

func TestHintResetsAfterFixed(t *testing.T) {
	d := NewDispatcher()

	got, err := SerializeFixed(d, []byte{1})
	require.NoError(t, err)
	assert.Equal(t, value.NewFixed([]byte{1}), got)
	assert.Equal(t, BytesVariable, d.bytesHint().Kind())

	got, err = d.SerializeBytes([]byte{1})
	require.NoError(t, err)
	assert.Equal(t, value.Bytes{1}, got)
}

// failingBytes wraps a Serializer and fails every SerializeBytes call after
// checking the hint it was given.
type failingBytes struct {
	*Dispatcher
	seen BytesKind
}

var errBytes = errors.New("bytes failed")

func (f *failingBytes) SerializeBytes([]byte) (value.Value, error) {
	f.seen = f.bytesHint().Kind()
	return nil, errBytes
}

func TestHintResetsAfterFailure(t *testing.T) {
	f := &failingBytes{Dispatcher: NewDispatcher()}

	_, err := SerializeFixed(f, []byte{1})
	require.ErrorIs(t, err, errBytes)
	assert.Equal(t, BytesFixed, f.seen)
	assert.Equal(t, BytesVariable, f.bytesHint().Kind())

	got, err := f.Dispatcher.SerializeBytes([]byte{2})
	require.NoError(t, err)
	assert.Equal(t, value.Bytes{2}, got)
}

func TestHintIsPerPass(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			got, err := ToValue(FixedBytes{1, 2})
			if err == nil && got.Kind() != value.KindFixed {
				err = errors.New("expected fixed")
			}
			errs <- err
		}()
		go func() {
			defer wg.Done()
			got, err := ToValue([]byte{1, 2})
			if err == nil && got.Kind() != value.KindBytes {
				err = errors.New("expected bytes")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestSerializeFixedWithoutHint(t *testing.T) {
	var calls int
	s := countingBytes{Serializer: NewDispatcher(), calls: &calls}

	got, err := SerializeFixed(s, []byte{3})
	require.NoError(t, err)
	assert.Equal(t, value.Bytes{3}, got, "without a hint cell the bytes stay variable")
	assert.Equal(t, 1, calls)
}

// countingBytes counts SerializeBytes calls on a serializer that exposes
// only the Serializer interface.
type countingBytes struct {
	Serializer
	calls *int
}

func (c countingBytes) SerializeBytes(b []byte) (value.Value, error) {
	*c.calls++
	return c.Serializer.SerializeBytes(b)
}

func TestBytesKindString(t *testing.T) {
	assert.Equal(t, "bytes", BytesVariable.String())
	assert.Equal(t, "fixed", BytesFixed.String())
}
