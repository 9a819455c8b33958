package schemaeq

import (
	"log/slog"
	"slices"

	"github.com/roach88/avrovalue/internal/schema"
)

// Comparator decides whether two schemas are equal.
type Comparator interface {
	Compare(a, b schema.Schema) bool
}

// ComparatorFunc adapts a function to Comparator.
type ComparatorFunc func(a, b schema.Schema) bool

// Compare implements Comparator.
func (f ComparatorFunc) Compare(a, b schema.Schema) bool {
	return f(a, b)
}

// CanonicalFormEq reports schemas equal when their Parsing Canonical Forms
// are identical. A schema without a canonical form is equal to nothing.
type CanonicalFormEq struct{}

// Compare implements Comparator.
func (CanonicalFormEq) Compare(a, b schema.Schema) bool {
	ca, err := schema.CanonicalForm(a)
	if err != nil {
		slog.Debug("no canonical form", "error", err)
		return false
	}
	cb, err := schema.CanonicalForm(b)
	if err != nil {
		slog.Debug("no canonical form", "error", err)
		return false
	}
	return ca == cb
}

// StructFieldEq compares schemas kind by kind.
//
// Top-level names must agree first. Then records need the same number of
// fields with pairwise equal field schemas (field names, defaults, order and
// docs are ignored); enums need identical symbol lists; fixed types the same
// size; unions pairwise equal branches; decimals the same precision and
// scale; maps equal value schemas; refs the same name.
//
// Array items are compared with schema.Equal, not recursively, so two
// arrays of records that differ only in field names are unequal while two
// maps of the same records are equal.
type StructFieldEq struct{}

// Compare implements Comparator.
func (c StructFieldEq) Compare(a, b schema.Schema) bool {
	if !sameName(schema.NameOf(a), schema.NameOf(b)) {
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind().IsPrimitive() {
		return true
	}

	switch a := a.(type) {
	case *schema.Record:
		b := b.(*schema.Record)
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !c.Compare(a.Fields[i].Schema, b.Fields[i].Schema) {
				return false
			}
		}
		return true
	case *schema.Enum:
		return slices.Equal(a.Symbols, b.(*schema.Enum).Symbols)
	case *schema.Fixed:
		return a.Size == b.(*schema.Fixed).Size
	case *schema.Union:
		b := b.(*schema.Union)
		if len(a.Branches) != len(b.Branches) {
			return false
		}
		for i := range a.Branches {
			if !c.Compare(a.Branches[i], b.Branches[i]) {
				return false
			}
		}
		return true
	case *schema.Decimal:
		b := b.(*schema.Decimal)
		return a.Precision == b.Precision && a.Scale == b.Scale
	case *schema.Array:
		return schema.Equal(a.Items, b.(*schema.Array).Items)
	case *schema.Map:
		return c.Compare(a.Values, b.(*schema.Map).Values)
	case *schema.Ref:
		// Names were compared above
		return true
	}
	return false
}

func sameName(a, b *schema.Name) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
