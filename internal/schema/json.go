package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

// durationSize is the byte size of the duration logical type.
const durationSize = 12

// logicalBase maps logical primitives to the physical type they annotate.
var logicalBase = map[Kind]Kind{
	KindUuid:                 KindString,
	KindBigDecimal:           KindBytes,
	KindDate:                 KindInt,
	KindTimeMillis:           KindInt,
	KindTimeMicros:           KindLong,
	KindTimestampMillis:      KindLong,
	KindTimestampMicros:      KindLong,
	KindTimestampNanos:       KindLong,
	KindLocalTimestampMillis: KindLong,
	KindLocalTimestampMicros: KindLong,
	KindLocalTimestampNanos:  KindLong,
}

// MarshalJSON returns the Avro JSON form of s. A named type is written in
// full on its first occurrence and by full name afterwards.
func MarshalJSON(s Schema) ([]byte, error) {
	w := &jsonWriter{defined: make(map[string]bool)}
	form, err := w.form(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(form)
}

type jsonWriter struct {
	defined map[string]bool
}

// define reports whether name is new, marking it defined.
func (w *jsonWriter) define(name Name) bool {
	full := name.Fullname()
	if w.defined[full] {
		return false
	}
	w.defined[full] = true
	return true
}

func (w *jsonWriter) form(s Schema) (any, error) {
	switch s := s.(type) {
	case nil:
		return nil, errors.New("nil schema")
	case Primitive:
		return w.primitive(s)
	case *Record:
		return w.record(s)
	case *Enum:
		if !w.define(s.Name) {
			return s.Name.Fullname(), nil
		}
		m := named("enum", s.Name, s.Doc, s.Aliases)
		m["symbols"] = s.Symbols
		if s.Default != "" {
			m["default"] = s.Default
		}
		return m, nil
	case *Fixed:
		if !w.define(s.Name) {
			return s.Name.Fullname(), nil
		}
		m := named("fixed", s.Name, s.Doc, s.Aliases)
		m["size"] = s.Size
		return m, nil
	case *Union:
		branches := make([]any, len(s.Branches))
		for i, b := range s.Branches {
			form, err := w.form(b)
			if err != nil {
				return nil, fmt.Errorf("union branch %d: %w", i, err)
			}
			branches[i] = form
		}
		return branches, nil
	case *Decimal:
		return w.decimal(s)
	case *Array:
		items, err := w.form(s.Items)
		if err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}
		return map[string]any{"type": "array", "items": items}, nil
	case *Map:
		values, err := w.form(s.Values)
		if err != nil {
			return nil, fmt.Errorf("map values: %w", err)
		}
		return map[string]any{"type": "map", "values": values}, nil
	case *Ref:
		return s.Name.Fullname(), nil
	}
	return nil, fmt.Errorf("unknown schema type %T", s)
}

func (w *jsonWriter) primitive(p Primitive) (any, error) {
	k := p.Kind()
	if k == KindDuration {
		name := Name{Name: "duration"}
		if !w.define(name) {
			return name.Fullname(), nil
		}
		return map[string]any{
			"type":        "fixed",
			"name":        name.Name,
			"size":        durationSize,
			"logicalType": k.String(),
		}, nil
	}
	if base, ok := logicalBase[k]; ok {
		return map[string]any{"type": base.String(), "logicalType": k.String()}, nil
	}
	if !k.IsPrimitive() {
		return nil, fmt.Errorf("unknown primitive %d", k)
	}
	return k.String(), nil
}

func (w *jsonWriter) record(r *Record) (any, error) {
	if !w.define(r.Name) {
		return r.Name.Fullname(), nil
	}

	fields := make([]any, len(r.Fields))
	for i, f := range r.Fields {
		form, err := w.form(f.Schema)
		if err != nil {
			return nil, fmt.Errorf("record %s field %q: %w", r.Name, f.Name, err)
		}
		field := map[string]any{"name": f.Name, "type": form}
		if f.Doc != "" {
			field["doc"] = f.Doc
		}
		if len(f.Aliases) > 0 {
			field["aliases"] = f.Aliases
		}
		if f.HasDefault {
			field["default"] = f.Default
		}
		if f.Order != "" && f.Order != OrderAscending {
			field["order"] = string(f.Order)
		}
		fields[i] = field
	}

	m := named("record", r.Name, r.Doc, r.Aliases)
	m["fields"] = fields
	return m, nil
}

func (w *jsonWriter) decimal(d *Decimal) (any, error) {
	var m map[string]any
	switch inner := d.Inner.(type) {
	case *Fixed:
		if !w.define(inner.Name) {
			return nil, fmt.Errorf("decimal fixed %s is defined twice", inner.Name)
		}
		m = named("fixed", inner.Name, inner.Doc, inner.Aliases)
		m["size"] = inner.Size
	case Primitive:
		if inner != Bytes {
			return nil, fmt.Errorf("decimal over %s", inner)
		}
		m = map[string]any{"type": "bytes"}
	default:
		return nil, fmt.Errorf("decimal over %T", d.Inner)
	}
	m["logicalType"] = "decimal"
	m["precision"] = d.Precision
	m["scale"] = d.Scale
	return m, nil
}

func named(typ string, name Name, doc string, aliases []Name) map[string]any {
	m := map[string]any{"type": typ, "name": name.Name}
	if name.Namespace != "" {
		m["namespace"] = name.Namespace
	}
	if doc != "" {
		m["doc"] = doc
	}
	if len(aliases) > 0 {
		full := make([]string, len(aliases))
		for i, a := range aliases {
			full[i] = a.Fullname()
		}
		m["aliases"] = full
	}
	return m
}
