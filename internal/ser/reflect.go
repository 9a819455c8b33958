package ser

import (
	"reflect"
	"strings"
	"sync"

	"github.com/roach88/avrovalue/internal/value"
)

const avroTagKey = "avro"

var (
	serializableType = reflect.TypeOf((*Serializable)(nil)).Elem()
	enumType         = reflect.TypeOf((*Enum)(nil)).Elem()
)

// Of returns v as a Serializable. Values that implement Serializable are
// returned as is; anything else is described by the reflective driver:
//
//   - bool, integers, floats and strings use the matching hook (int and
//     uint are 64-bit)
//   - []byte and [N]byte use SerializeBytes
//   - nil pointers and nil interfaces are None; a non-nil pointer is Some
//     of its element unless Serializable or Enum is implemented only on the
//     pointer receiver
//   - slices are sequences, other arrays are tuples
//   - maps are maps; their keys must serialize to strings
//   - structs are structs named by their `avro` tags; a struct with no
//     serializable fields is a unit struct
//   - types implementing Enum are enum variants
//   - Char is a single character
//
// Channels, functions, complex numbers and unsafe pointers are unsupported.
func Of(v any) Serializable {
	if s, ok := v.(Serializable); ok && !isOptionalPointer(reflect.ValueOf(v)) {
		return s
	}
	return reflected{rv: reflect.ValueOf(v)}
}

// Char is a rune that serializes as a one-character string.
type Char rune

// SerializeAvro implements Serializable.
func (c Char) SerializeAvro(s Serializer) (value.Value, error) {
	return s.SerializeChar(rune(c))
}

// reflected drives the protocol for a reflect.Value.
type reflected struct {
	rv reflect.Value
}

func (r reflected) SerializeAvro(s Serializer) (value.Value, error) {
	return serializeReflect(s, r.rv)
}

func serializeReflect(s Serializer, rv reflect.Value) (value.Value, error) {
	if !rv.IsValid() {
		return s.SerializeNone()
	}
	if isOptionalPointer(rv) {
		return s.SerializeSome(reflected{rv: rv.Elem()})
	}
	if impl, ok := implementation[Serializable](rv, serializableType); ok {
		return impl.SerializeAvro(s)
	}
	if impl, ok := implementation[Enum](rv, enumType); ok {
		return SerializeVariant(s, impl.AvroVariant(), taggingOf(impl))
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return s.SerializeNone()
		}
		if rv.Kind() == reflect.Interface {
			return serializeReflect(s, rv.Elem())
		}
		return s.SerializeSome(reflected{rv: rv.Elem()})
	case reflect.Bool:
		return s.SerializeBool(rv.Bool())
	case reflect.Int8:
		return s.SerializeInt8(int8(rv.Int()))
	case reflect.Int16:
		return s.SerializeInt16(int16(rv.Int()))
	case reflect.Int32:
		return s.SerializeInt32(int32(rv.Int()))
	case reflect.Int, reflect.Int64:
		return s.SerializeInt64(rv.Int())
	case reflect.Uint8:
		return s.SerializeUint8(uint8(rv.Uint()))
	case reflect.Uint16:
		return s.SerializeUint16(uint16(rv.Uint()))
	case reflect.Uint32:
		return s.SerializeUint32(uint32(rv.Uint()))
	case reflect.Uint, reflect.Uint64:
		return s.SerializeUint64(rv.Uint())
	case reflect.Float32:
		return s.SerializeFloat32(float32(rv.Float()))
	case reflect.Float64:
		return s.SerializeFloat64(rv.Float())
	case reflect.String:
		return s.SerializeString(rv.String())
	case reflect.Slice:
		if isByteElem(rv.Type()) {
			return s.SerializeBytes(rv.Bytes())
		}
		return serializeElements(s, rv, false)
	case reflect.Array:
		if isByteElem(rv.Type()) {
			return s.SerializeBytes(byteArray(rv))
		}
		return serializeElements(s, rv, true)
	case reflect.Map:
		return serializeMap(s, rv)
	case reflect.Struct:
		return serializeStruct(s, rv)
	default:
		return nil, newEncodeError(ErrCodeUnsupportedType, "cannot serialize %s", rv.Type())
	}
}

// implementation returns rv (or its address) as T when its type implements
// iface. Nil pointers and interfaces never match, so they become None.
func implementation[T any](rv reflect.Value, iface reflect.Type) (T, bool) {
	var zero T
	if !rv.CanInterface() {
		return zero, false
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return zero, false
		}
	}
	if rv.Type().Implements(iface) {
		impl, ok := rv.Interface().(T)
		return impl, ok
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(iface) {
		impl, ok := rv.Addr().Interface().(T)
		return impl, ok
	}
	return zero, false
}

// isOptionalPointer reports whether rv is a non-nil pointer whose element
// implements Serializable or Enum itself. Go puts value-receiver methods in
// the pointer's method set too, so such a pointer must still be Some.
func isOptionalPointer(rv reflect.Value) bool {
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false
	}
	elem := rv.Type().Elem()
	return elem.Implements(serializableType) || elem.Implements(enumType)
}

func isByteElem(t reflect.Type) bool {
	elem := t.Elem()
	if elem.Kind() != reflect.Uint8 {
		return false
	}
	// Named byte types with their own SerializeAvro serialize one by one
	return !elem.Implements(serializableType) && !reflect.PointerTo(elem).Implements(serializableType)
}

func byteArray(rv reflect.Value) []byte {
	b := make([]byte, rv.Len())
	reflect.Copy(reflect.ValueOf(b), rv)
	return b
}

func serializeElements(s Serializer, rv reflect.Value, tuple bool) (value.Value, error) {
	n := rv.Len()

	var (
		b   SeqBuilder
		err error
	)
	if tuple {
		b, err = s.SerializeTuple(n)
	} else {
		b, err = s.SerializeSeq(n)
	}
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		if err := b.SerializeElement(reflected{rv: rv.Index(i)}); err != nil {
			return nil, err
		}
	}
	return b.End()
}

func serializeMap(s Serializer, rv reflect.Value) (value.Value, error) {
	b, err := s.SerializeMap(rv.Len())
	if err != nil {
		return nil, err
	}

	iter := rv.MapRange()
	for iter.Next() {
		if err := SerializeEntry(b, reflected{rv: iter.Key()}, reflected{rv: iter.Value()}); err != nil {
			return nil, err
		}
	}
	return b.End()
}

func serializeStruct(s Serializer, rv reflect.Value) (value.Value, error) {
	fields, err := structFields(rv)
	if err != nil {
		return nil, err
	}
	name := rv.Type().Name()
	if len(fields) == 0 {
		return s.SerializeUnitStruct(name)
	}

	b, err := s.SerializeStruct(name, len(fields))
	if err != nil {
		return nil, err
	}
	return endStruct(b, fields)
}

// structMetadata describes the serializable fields of a struct type.
type structMetadata struct {
	Fields []fieldDescriptor
}

// fieldDescriptor describes one struct field.
type fieldDescriptor struct {
	Name  string
	Index []int
	// Bytes is set by the `fixed` or `bytes` tag options.
	Bytes *BytesKind
}

// elem returns the field of rv as a nested value for the protocol.
func (f fieldDescriptor) elem(rv reflect.Value) any {
	fv := rv.FieldByIndex(f.Index)
	if f.Bytes != nil {
		return hintedBytes{rv: fv, kind: *f.Bytes}
	}
	return reflected{rv: fv}
}

// hintedBytes is a byte field carrying a representation annotation.
type hintedBytes struct {
	rv   reflect.Value
	kind BytesKind
}

func (h hintedBytes) SerializeAvro(s Serializer) (value.Value, error) {
	rv := h.rv
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return s.SerializeNone()
		}
		return s.SerializeSome(hintedBytes{rv: rv.Elem(), kind: h.kind})
	}
	if rv.Kind() == reflect.Array {
		return serializeBytesAs(s, byteArray(rv), h.kind)
	}
	return serializeBytesAs(s, rv.Bytes(), h.kind)
}

var structMetadataCache sync.Map // map[reflect.Type]*structMetadata

func structMetadataFor(t reflect.Type) (*structMetadata, error) {
	if meta, ok := structMetadataCache.Load(t); ok {
		return meta.(*structMetadata), nil
	}

	meta, err := buildStructMetadata(t)
	if err != nil {
		return nil, err
	}
	structMetadataCache.Store(t, meta)
	return meta, nil
}

func buildStructMetadata(t reflect.Type) (*structMetadata, error) {
	meta := &structMetadata{}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get(avroTagKey)
		if tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}

		fd := fieldDescriptor{Name: name, Index: sf.Index}
		for _, opt := range strings.Split(opts, ",") {
			switch opt {
			case "":
			case "fixed", "bytes":
				if !isByteField(sf.Type) {
					return nil, newEncodeError(ErrCodeUnsupportedType,
						"field %s.%s: %q option requires []byte or [N]byte, got %s", t.Name(), sf.Name, opt, sf.Type)
				}
				kind := BytesVariable
				if opt == "fixed" {
					kind = BytesFixed
				}
				fd.Bytes = &kind
			default:
				return nil, newEncodeError(ErrCodeUnsupportedType,
					"field %s.%s: unknown avro tag option %q", t.Name(), sf.Name, opt)
			}
		}
		meta.Fields = append(meta.Fields, fd)
	}

	return meta, nil
}

func isByteField(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() == reflect.Uint8
	}
	return false
}
