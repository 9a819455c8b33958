package ser

import "github.com/roach88/avrovalue/internal/value"

// seqBuilder collects sequence and tuple elements into an Array.
type seqBuilder struct {
	d     *Dispatcher
	items []value.Value
}

func newSeqBuilder(d *Dispatcher, length int) *seqBuilder {
	return &seqBuilder{d: d, items: makeItems(length)}
}

func (b *seqBuilder) SerializeElement(v any) error {
	item, err := b.d.serialize(v)
	if err != nil {
		return err
	}
	b.items = append(b.items, item)
	return nil
}

func (b *seqBuilder) End() (value.Value, error) {
	return value.Array(b.items), nil
}

// seqVariantBuilder collects tuple variant elements, wrapping each one in
// the variant's union branch.
type seqVariantBuilder struct {
	d       *Dispatcher
	index   uint32
	variant string
	items   []value.Value
}

func newSeqVariantBuilder(d *Dispatcher, index uint32, variant string, length int) *seqVariantBuilder {
	return &seqVariantBuilder{d: d, index: index, variant: variant, items: makeItems(length)}
}

func (b *seqVariantBuilder) SerializeElement(v any) error {
	item, err := b.d.serialize(v)
	if err != nil {
		return err
	}
	b.items = append(b.items, value.Union{Index: b.index, Value: item})
	return nil
}

func (b *seqVariantBuilder) End() (value.Value, error) {
	return variantRecord(b.index, b.variant, value.Array(b.items)), nil
}

// mapBuilder records each key with the index its value will occupy. A key
// written twice points at the later value; the earlier value is dropped on
// End.
type mapBuilder struct {
	d       *Dispatcher
	indices map[string]int
	values  []value.Value
}

func newMapBuilder(d *Dispatcher, length int) *mapBuilder {
	if length < 0 {
		length = 0
	}
	return &mapBuilder{
		d:       d,
		indices: make(map[string]int, length),
		values:  make([]value.Value, 0, length),
	}
}

func (b *mapBuilder) SerializeKey(k any) error {
	key, err := b.d.serialize(k)
	if err != nil {
		return err
	}
	s, ok := key.(value.String)
	if !ok {
		return newEncodeError(ErrCodeMapKeyNotString, "map key is not a string: got %s", key.Kind())
	}
	b.indices[string(s)] = len(b.values)
	return nil
}

func (b *mapBuilder) SerializeValue(v any) error {
	item, err := b.d.serialize(v)
	if err != nil {
		return err
	}
	b.values = append(b.values, item)
	return nil
}

func (b *mapBuilder) End() (value.Value, error) {
	items := make(value.Map, len(b.indices))
	for key, i := range b.indices {
		if i < len(b.values) {
			items[key] = b.values[i]
		}
	}
	return items, nil
}

// structBuilder collects named fields in declaration order. For a struct
// variant the record is wrapped in the variant shape on End.
type structBuilder struct {
	d       *Dispatcher
	fields  value.Record
	variant bool
	index   uint32
	name    string
}

func newStructBuilder(d *Dispatcher, length int) *structBuilder {
	return &structBuilder{d: d, fields: makeFields(length)}
}

func newStructVariantBuilder(d *Dispatcher, index uint32, variant string, length int) *structBuilder {
	return &structBuilder{
		d:       d,
		fields:  makeFields(length),
		variant: true,
		index:   index,
		name:    variant,
	}
}

func (b *structBuilder) SerializeField(name string, v any) error {
	item, err := b.d.serialize(v)
	if err != nil {
		return err
	}
	b.fields = append(b.fields, value.F(name, item))
	return nil
}

func (b *structBuilder) End() (value.Value, error) {
	if !b.variant {
		return b.fields, nil
	}
	return variantRecord(b.index, b.name, value.Union{Index: b.index, Value: b.fields}), nil
}

func makeItems(length int) []value.Value {
	if length < 0 {
		return []value.Value{}
	}
	return make([]value.Value, 0, length)
}

func makeFields(length int) value.Record {
	if length < 0 {
		length = 0
	}
	return make(value.Record, 0, length)
}
