package ser

import (
	"reflect"

	"github.com/roach88/avrovalue/internal/value"
)

// VariantKind is the payload shape of an enum variant.
type VariantKind uint8

const (
	// UnitVariant carries no payload, such as a color Red.
	UnitVariant VariantKind = iota
	// NewtypeVariant carries one value, such as Circle(radius).
	NewtypeVariant
	// TupleVariant carries positional values, such as XY(x, y).
	TupleVariant
	// StructVariant carries named fields, such as Rect{W, H}.
	StructVariant
)

// Variant describes the enum variant a value currently holds.
//
// Payload depends on Kind: nil for UnitVariant, the inner value for
// NewtypeVariant, a slice or array of elements (or []any) for TupleVariant,
// and a struct (or pointer to struct) whose fields become the variant
// fields for StructVariant.
type Variant struct {
	Enum    string
	Index   uint32
	Name    string
	Kind    VariantKind
	Payload any
}

// Enum is implemented by Go types standing in for a tagged enum. Go has no
// sum types, so the type reports the variant it holds.
type Enum interface {
	AvroVariant() Variant
}

// TaggedEnum is an Enum with a representation other than External.
type TaggedEnum interface {
	Enum
	AvroTagging() Tagging
}

// TagStyle is one of the four external representations of an enum.
type TagStyle uint8

const (
	// TagExternal uses the dedicated variant hooks.
	TagExternal TagStyle = iota
	// TagInternal stores the variant name in a field of the payload.
	TagInternal
	// TagAdjacent emits {tag: name, content: payload}.
	TagAdjacent
	// TagUntagged emits the payload alone.
	TagUntagged
)

// Tagging selects how enum variants are reshaped before they reach the
// serializer.
type Tagging struct {
	Style   TagStyle
	Tag     string
	Content string
}

// External is the default tagging.
func External() Tagging { return Tagging{Style: TagExternal} }

// Internal stores the variant name under tag inside the payload.
func Internal(tag string) Tagging { return Tagging{Style: TagInternal, Tag: tag} }

// Adjacent emits the variant name under tag and the payload under content.
func Adjacent(tag, content string) Tagging {
	return Tagging{Style: TagAdjacent, Tag: tag, Content: content}
}

// Untagged emits only the payload.
func Untagged() Tagging { return Tagging{Style: TagUntagged} }

func taggingOf(e Enum) Tagging {
	if t, ok := e.(TaggedEnum); ok {
		return t.AvroTagging()
	}
	return External()
}

// SerializeVariant drives s for one enum variant under tagging t.
//
// Unit variants always go through SerializeUnitVariant, whatever the
// tagging, because the unit hook carries no tagging context. Other variants
// are reshaped the way the tagging demands before the hooks are called:
// internal tagging requires a struct or map payload, adjacent tagging emits
// a two-field struct, untagged emits the payload on its own.
func SerializeVariant(s Serializer, v Variant, t Tagging) (value.Value, error) {
	if v.Kind == UnitVariant {
		return s.SerializeUnitVariant(v.Enum, v.Index, v.Name)
	}

	switch t.Style {
	case TagInternal:
		return serializeInternal(s, v, t.Tag)
	case TagAdjacent:
		return serializeAdjacent(s, v, t.Tag, t.Content)
	case TagUntagged:
		return payloadOf(v).SerializeAvro(s)
	default:
		return serializeExternal(s, v)
	}
}

func serializeExternal(s Serializer, v Variant) (value.Value, error) {
	switch v.Kind {
	case NewtypeVariant:
		return s.SerializeNewtypeVariant(v.Enum, v.Index, v.Name, v.Payload)
	case TupleVariant:
		elems, err := tupleElements(v)
		if err != nil {
			return nil, err
		}
		b, err := s.SerializeTupleVariant(v.Enum, v.Index, v.Name, len(elems))
		if err != nil {
			return nil, err
		}
		return endSeq(b, elems)
	case StructVariant:
		fields, err := variantFields(v)
		if err != nil {
			return nil, err
		}
		b, err := s.SerializeStructVariant(v.Enum, v.Index, v.Name, len(fields))
		if err != nil {
			return nil, err
		}
		return endStruct(b, fields)
	}
	return nil, newEncodeError(ErrCodeUnsupportedVariant, "variant %s.%s has unknown kind %d", v.Enum, v.Name, v.Kind)
}

func serializeInternal(s Serializer, v Variant, tag string) (value.Value, error) {
	switch v.Kind {
	case StructVariant:
		fields, err := variantFields(v)
		if err != nil {
			return nil, err
		}
		return taggedStruct(s, v.Enum, tag, v.Name, fields)
	case NewtypeVariant:
		rv := indirect(reflect.ValueOf(v.Payload))
		switch rv.Kind() {
		case reflect.Struct:
			fields, err := structFields(rv)
			if err != nil {
				return nil, err
			}
			return taggedStruct(s, v.Enum, tag, v.Name, fields)
		case reflect.Map:
			b, err := s.SerializeMap(rv.Len() + 1)
			if err != nil {
				return nil, err
			}
			if err := SerializeEntry(b, tag, v.Name); err != nil {
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
		return nil, newEncodeError(ErrCodeUnsupportedVariant,
			"cannot serialize internally tagged variant %s.%s containing %T", v.Enum, v.Name, v.Payload)
	}
	return nil, newEncodeError(ErrCodeUnsupportedVariant,
		"cannot serialize internally tagged tuple variant %s.%s", v.Enum, v.Name)
}

func serializeAdjacent(s Serializer, v Variant, tag, content string) (value.Value, error) {
	b, err := s.SerializeStruct(v.Enum, 2)
	if err != nil {
		return nil, err
	}
	if err := b.SerializeField(tag, v.Name); err != nil {
		return nil, err
	}
	if err := b.SerializeField(content, payloadOf(v)); err != nil {
		return nil, err
	}
	return b.End()
}

func taggedStruct(s Serializer, name, tag, variant string, fields []namedElem) (value.Value, error) {
	b, err := s.SerializeStruct(name, len(fields)+1)
	if err != nil {
		return nil, err
	}
	if err := b.SerializeField(tag, variant); err != nil {
		return nil, err
	}
	return endStruct(b, fields)
}

// payloadOf returns the variant payload reshaped as a standalone value:
// the inner value of a newtype, a tuple, or a struct named by the variant.
func payloadOf(v Variant) Serializable {
	switch v.Kind {
	case TupleVariant:
		return variantTuple{v: v}
	case StructVariant:
		return variantStruct{v: v}
	}
	return Of(v.Payload)
}

type variantTuple struct{ v Variant }

func (t variantTuple) SerializeAvro(s Serializer) (value.Value, error) {
	elems, err := tupleElements(t.v)
	if err != nil {
		return nil, err
	}
	b, err := s.SerializeTuple(len(elems))
	if err != nil {
		return nil, err
	}
	return endSeq(b, elems)
}

type variantStruct struct{ v Variant }

func (st variantStruct) SerializeAvro(s Serializer) (value.Value, error) {
	fields, err := variantFields(st.v)
	if err != nil {
		return nil, err
	}
	b, err := s.SerializeStruct(st.v.Name, len(fields))
	if err != nil {
		return nil, err
	}
	return endStruct(b, fields)
}

// namedElem is one field of a struct payload.
type namedElem struct {
	name string
	elem any
}

func tupleElements(v Variant) ([]any, error) {
	if elems, ok := v.Payload.([]any); ok {
		return elems, nil
	}
	rv := indirect(reflect.ValueOf(v.Payload))
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = reflected{rv: rv.Index(i)}
		}
		return elems, nil
	}
	return nil, newEncodeError(ErrCodeUnsupportedVariant,
		"tuple variant %s.%s needs a slice or array payload, got %T", v.Enum, v.Name, v.Payload)
}

func variantFields(v Variant) ([]namedElem, error) {
	rv := indirect(reflect.ValueOf(v.Payload))
	if rv.Kind() != reflect.Struct {
		return nil, newEncodeError(ErrCodeUnsupportedVariant,
			"struct variant %s.%s needs a struct payload, got %T", v.Enum, v.Name, v.Payload)
	}
	return structFields(rv)
}

func structFields(rv reflect.Value) ([]namedElem, error) {
	meta, err := structMetadataFor(rv.Type())
	if err != nil {
		return nil, err
	}
	fields := make([]namedElem, len(meta.Fields))
	for i, f := range meta.Fields {
		fields[i] = namedElem{name: f.Name, elem: f.elem(rv)}
	}
	return fields, nil
}

func endSeq(b SeqBuilder, elems []any) (value.Value, error) {
	for _, e := range elems {
		if err := b.SerializeElement(e); err != nil {
			return nil, err
		}
	}
	return b.End()
}

func endStruct(b StructBuilder, fields []namedElem) (value.Value, error) {
	for _, f := range fields {
		if err := b.SerializeField(f.name, f.elem); err != nil {
			return nil, err
		}
	}
	return b.End()
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
