package codec

import (
	"fmt"
	"math"
	"strconv"

	"github.com/linkedin/goavro/v2"

	"github.com/roach88/avrovalue/internal/schema"
	"github.com/roach88/avrovalue/internal/value"
)

// converter reconciles values with one schema graph.
type converter struct {
	names map[string]schema.Schema
}

func newConverter(s schema.Schema) *converter {
	c := &converter{names: make(map[string]schema.Schema)}
	c.collect(s)
	return c
}

// collect indexes the named types defined in s.
func (c *converter) collect(s schema.Schema) {
	switch s := s.(type) {
	case *schema.Record:
		c.names[s.Name.Fullname()] = s
		for _, f := range s.Fields {
			c.collect(f.Schema)
		}
	case *schema.Enum:
		c.names[s.Name.Fullname()] = s
	case *schema.Fixed:
		c.names[s.Name.Fullname()] = s
	case *schema.Decimal:
		c.collect(s.Inner)
	case *schema.Union:
		for _, b := range s.Branches {
			c.collect(b)
		}
	case *schema.Array:
		c.collect(s.Items)
	case *schema.Map:
		c.collect(s.Values)
	case schema.Primitive:
		if s == schema.Duration {
			c.names["duration"] = s
		}
	}
}

func (c *converter) resolve(s schema.Schema, path string) (schema.Schema, error) {
	r, ok := s.(*schema.Ref)
	if !ok {
		return s, nil
	}
	def, ok := c.names[r.Name.Fullname()]
	if !ok {
		return nil, &MismatchError{Path: path, Schema: r.Name.Fullname(), Value: "value", Reason: "undefined reference"}
	}
	return def, nil
}

func mismatch(path string, s schema.Schema, v value.Value, reason string) *MismatchError {
	e := &MismatchError{Path: path, Schema: s.Kind().String(), Value: kindOf(v), Reason: reason}
	if name := schema.NameOf(s); name != nil {
		e.Schema = name.Fullname()
	}
	return e
}

func kindOf(v value.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}

// native converts v to the goavro native form of s.
func (c *converter) native(v value.Value, s schema.Schema, path string) (any, error) {
	s, err := c.resolve(s, path)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, mismatch(path, s, v, "")
	}

	switch s := s.(type) {
	case schema.Primitive:
		return c.primitive(v, s, path)
	case *schema.Union:
		return c.union(v, s, path)
	case *schema.Record:
		return c.record(v, s, path)
	case *schema.Enum:
		return enumSymbol(v, s, path)
	case *schema.Fixed:
		return fixedBytes(v, s, s.Size, path)
	case *schema.Decimal:
		if f, ok := s.Inner.(*schema.Fixed); ok {
			return fixedBytes(v, s, f.Size, path)
		}
		if b, ok := v.(value.Bytes); ok {
			return []byte(b), nil
		}
	case *schema.Array:
		items, ok := v.(value.Array)
		if !ok {
			break
		}
		out := make([]any, len(items))
		for i, item := range items {
			n, err := c.native(item, s.Items, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case *schema.Map:
		entries, ok := v.(value.Map)
		if !ok {
			break
		}
		out := make(map[string]any, len(entries))
		for _, k := range entries.SortedKeys() {
			n, err := c.native(entries[k], s.Values, path+"["+strconv.Quote(k)+"]")
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	}
	return nil, mismatch(path, s, v, "")
}

func (c *converter) primitive(v value.Value, s schema.Primitive, path string) (any, error) {
	switch s {
	case schema.Null:
		switch n := v.(type) {
		case value.Null:
			return nil, nil
		case value.Union:
			// An absent optional
			if _, ok := n.Value.(value.Null); ok {
				return nil, nil
			}
		}
	case schema.Boolean:
		if b, ok := v.(value.Boolean); ok {
			return bool(b), nil
		}
	case schema.Int, schema.Date, schema.TimeMillis:
		switch n := v.(type) {
		case value.Int:
			return int32(n), nil
		case value.Long:
			if n < math.MinInt32 || n > math.MaxInt32 {
				return nil, mismatch(path, s, v, fmt.Sprintf("%d is out of int range", int64(n)))
			}
			return int32(n), nil
		}
	case schema.Long, schema.TimeMicros,
		schema.TimestampMillis, schema.TimestampMicros, schema.TimestampNanos,
		schema.LocalTimestampMillis, schema.LocalTimestampMicros, schema.LocalTimestampNanos:
		switch n := v.(type) {
		case value.Int:
			return int64(n), nil
		case value.Long:
			return int64(n), nil
		}
	case schema.Float:
		switch n := v.(type) {
		case value.Int:
			return float32(n), nil
		case value.Long:
			return float32(n), nil
		case value.Float:
			return float32(n), nil
		case value.Double:
			return float32(n), nil
		}
	case schema.Double:
		switch n := v.(type) {
		case value.Int:
			return float64(n), nil
		case value.Long:
			return float64(n), nil
		case value.Float:
			return float64(n), nil
		case value.Double:
			return float64(n), nil
		}
	case schema.Bytes, schema.BigDecimal:
		switch b := v.(type) {
		case value.Bytes:
			return []byte(b), nil
		case value.Fixed:
			return b.Bytes, nil
		}
	case schema.String, schema.Uuid:
		if str, ok := v.(value.String); ok {
			return string(str), nil
		}
	case schema.Duration:
		return fixedBytes(v, s, 12, path)
	}
	return nil, mismatch(path, s, v, "")
}

// union picks the branch for v. A Union value names its branch; any other
// value takes the first branch that accepts it.
func (c *converter) union(v value.Value, s *schema.Union, path string) (any, error) {
	if u, ok := v.(value.Union); ok {
		if int(u.Index) >= len(s.Branches) {
			return nil, mismatch(path, s, v, fmt.Sprintf("branch %d of %d", u.Index, len(s.Branches)))
		}
		return c.branch(u.Value, s.Branches[u.Index], path)
	}

	for _, b := range s.Branches {
		if n, err := c.branch(v, b, path); err == nil {
			return n, nil
		}
	}
	return nil, mismatch(path, s, v, "no branch accepts the value")
}

func (c *converter) branch(v value.Value, b schema.Schema, path string) (any, error) {
	b, err := c.resolve(b, path)
	if err != nil {
		return nil, err
	}
	n, err := c.native(v, b, path)
	if err != nil {
		return nil, err
	}
	if b == schema.Null {
		return nil, nil
	}
	return goavro.Union(schema.PhysicalTypeName(b), n), nil
}

func (c *converter) record(v value.Value, s *schema.Record, path string) (any, error) {
	lookup, ok := fieldLookup(v)
	if !ok {
		return nil, mismatch(path, s, v, "")
	}

	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		fpath := path + "." + f.Name
		fv, ok := lookup(f.Name)
		if !ok {
			if !f.HasDefault {
				return nil, &MismatchError{Path: fpath, Schema: f.Schema.Kind().String(), Value: "nothing", Reason: "missing field without default"}
			}
			n, err := c.defaultNative(f.Default, f.Schema, fpath)
			if err != nil {
				return nil, err
			}
			out[f.Name] = n
			continue
		}
		n, err := c.native(fv, f.Schema, fpath)
		if err != nil {
			return nil, err
		}
		out[f.Name] = n
	}
	return out, nil
}

// fieldLookup accepts Record and Map values for a record schema.
func fieldLookup(v value.Value) (func(string) (value.Value, bool), bool) {
	switch v := v.(type) {
	case value.Record:
		return v.Get, true
	case value.Map:
		return func(name string) (value.Value, bool) {
			fv, ok := v[name]
			return fv, ok
		}, true
	}
	return nil, false
}

func enumSymbol(v value.Value, s *schema.Enum, path string) (any, error) {
	switch e := v.(type) {
	case value.Enum:
		if int(e.Index) < len(s.Symbols) && s.Symbols[e.Index] == e.Symbol {
			return e.Symbol, nil
		}
		return nil, mismatch(path, s, v, fmt.Sprintf("no symbol %q at %d", e.Symbol, e.Index))
	case value.String:
		if s.Index(string(e)) >= 0 {
			return string(e), nil
		}
		return nil, mismatch(path, s, v, fmt.Sprintf("no symbol %q", string(e)))
	}
	return nil, mismatch(path, s, v, "")
}

func fixedBytes(v value.Value, s schema.Schema, size int, path string) (any, error) {
	var b []byte
	switch f := v.(type) {
	case value.Fixed:
		b = f.Bytes
	case value.Bytes:
		b = f
	default:
		return nil, mismatch(path, s, v, "")
	}
	if len(b) != size {
		return nil, mismatch(path, s, v, fmt.Sprintf("size %d, want %d", len(b), size))
	}
	return b, nil
}
