package schemaeq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/avrovalue/internal/schema"
)

func record(name string, fields ...schema.Field) *schema.Record {
	return &schema.Record{Name: schema.Name{Name: name, Namespace: "test"}, Fields: fields}
}

func field(name string, s schema.Schema) schema.Field {
	return schema.Field{Name: name, Schema: s}
}

func everyKind() []schema.Schema {
	var out []schema.Schema
	for _, p := range schema.Primitives() {
		out = append(out, p)
	}
	return append(out,
		record("R", field("a", schema.Long), field("b", schema.String)),
		&schema.Enum{Name: schema.Name{Name: "E"}, Symbols: []string{"A", "B"}},
		&schema.Fixed{Name: schema.Name{Name: "F"}, Size: 16},
		&schema.Union{Branches: []schema.Schema{schema.Null, schema.Long}},
		&schema.Decimal{Precision: 10, Scale: 2, Inner: schema.Bytes},
		&schema.Array{Items: schema.Int},
		&schema.Map{Values: schema.Double},
		&schema.Ref{Name: schema.Name{Name: "R", Namespace: "test"}},
	)
}

func TestStructFieldEqReflexive(t *testing.T) {
	var c StructFieldEq
	for _, s := range everyKind() {
		assert.True(t, c.Compare(s, s), s.Kind().String())
	}
}

func TestCanonicalFormEqReflexive(t *testing.T) {
	var c CanonicalFormEq
	for _, s := range everyKind() {
		assert.True(t, c.Compare(s, s), s.Kind().String())
	}
}

func TestStructFieldEqKindMismatch(t *testing.T) {
	var c StructFieldEq
	kinds := everyKind()
	for i, a := range kinds {
		for j, b := range kinds {
			if i == j {
				continue
			}
			assert.False(t, c.Compare(a, b), "%s vs %s", a.Kind(), b.Kind())
		}
	}
}

func TestStructFieldEqRecords(t *testing.T) {
	var c StructFieldEq

	base := record("R", field("a", schema.Long), field("b", schema.String))
	renamed := record("R",
		schema.Field{Name: "x", Schema: schema.Long, Default: 5, HasDefault: true, Doc: "x"},
		field("y", schema.String),
	)
	reordered := record("R", field("b", schema.String), field("a", schema.Long))
	other := record("Other", field("a", schema.Long), field("b", schema.String))
	shorter := record("R", field("a", schema.Long))

	assert.True(t, c.Compare(base, renamed), "field names and defaults are ignored")
	assert.False(t, c.Compare(base, reordered), "field order matters")
	assert.False(t, c.Compare(base, other), "record names must agree")
	assert.False(t, c.Compare(base, shorter))

	documented := record("R", field("a", schema.Long), field("b", schema.String))
	documented.Doc = "documented"
	assert.True(t, c.Compare(base, documented))
}

func TestStructFieldEqNamespaces(t *testing.T) {
	var c StructFieldEq
	a := &schema.Fixed{Name: schema.Name{Name: "F", Namespace: "a"}, Size: 4}
	b := &schema.Fixed{Name: schema.Name{Name: "F", Namespace: "b"}, Size: 4}
	assert.False(t, c.Compare(a, b))
}

func TestStructFieldEqNamedTypes(t *testing.T) {
	var c StructFieldEq
	name := schema.Name{Name: "N"}

	assert.True(t, c.Compare(
		&schema.Enum{Name: name, Symbols: []string{"A"}, Doc: "one"},
		&schema.Enum{Name: name, Symbols: []string{"A"}, Default: "A"},
	))
	assert.False(t, c.Compare(
		&schema.Enum{Name: name, Symbols: []string{"A", "B"}},
		&schema.Enum{Name: name, Symbols: []string{"B", "A"}},
	))
	assert.False(t, c.Compare(&schema.Fixed{Name: name, Size: 1}, &schema.Fixed{Name: name, Size: 2}))
	assert.False(t, c.Compare(&schema.Ref{Name: name}, &schema.Ref{Name: schema.Name{Name: "M"}}))
}

func TestStructFieldEqUnions(t *testing.T) {
	var c StructFieldEq
	a := &schema.Union{Branches: []schema.Schema{schema.Null, schema.String}}
	b := &schema.Union{Branches: []schema.Schema{schema.String, schema.Null}}
	d := &schema.Union{Branches: []schema.Schema{schema.Null}}

	assert.False(t, c.Compare(a, b), "branches are compared by position")
	assert.False(t, c.Compare(a, d))
}

func TestStructFieldEqDecimal(t *testing.T) {
	var c StructFieldEq
	bytesDec := &schema.Decimal{Precision: 8, Scale: 2, Inner: schema.Bytes}
	fixedDec := &schema.Decimal{Precision: 8, Scale: 2, Inner: &schema.Fixed{Name: schema.Name{Name: "D"}, Size: 8}}

	assert.True(t, c.Compare(bytesDec, fixedDec), "the underlying type is not compared")
	assert.False(t, c.Compare(bytesDec, &schema.Decimal{Precision: 8, Scale: 3, Inner: schema.Bytes}))
	assert.False(t, c.Compare(bytesDec, &schema.Decimal{Precision: 9, Scale: 2, Inner: schema.Bytes}))
}

func TestStructFieldEqArrayMapAsymmetry(t *testing.T) {
	var c StructFieldEq
	a := record("R", field("a", schema.Long))
	b := record("R", field("renamed", schema.Long))
	assert.True(t, c.Compare(a, b))

	assert.False(t, c.Compare(&schema.Array{Items: a}, &schema.Array{Items: b}),
		"array items use exact schema equality")
	assert.True(t, c.Compare(&schema.Map{Values: a}, &schema.Map{Values: b}),
		"map values are compared recursively")
}

func TestStructFieldEqNil(t *testing.T) {
	var c StructFieldEq
	assert.True(t, c.Compare(nil, nil))
	assert.False(t, c.Compare(nil, schema.Int))
	assert.False(t, c.Compare(schema.Int, nil))
}

func TestCanonicalFormEq(t *testing.T) {
	var c CanonicalFormEq

	assert.True(t, c.Compare(schema.Uuid, schema.String), "logical types are not part of the canonical form")
	assert.True(t, c.Compare(
		record("R", schema.Field{Name: "a", Schema: schema.Long, Default: 1, HasDefault: true}),
		record("R", field("a", schema.Long)),
	))
	assert.False(t, c.Compare(
		record("R", field("a", schema.Long)),
		record("R", field("b", schema.Long)),
	), "field names are part of the canonical form")
	assert.False(t, c.Compare(&schema.Array{}, &schema.Array{}), "schemas without a canonical form")
}

func TestComparatorFunc(t *testing.T) {
	var calls int
	c := ComparatorFunc(func(a, b schema.Schema) bool {
		calls++
		return true
	})
	assert.True(t, c.Compare(schema.Int, schema.Long))
	assert.Equal(t, 1, calls)
}
