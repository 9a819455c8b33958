package codec

import (
	"fmt"
	"strconv"

	"github.com/linkedin/goavro/v2"

	"github.com/roach88/avrovalue/internal/schema"
)

// defaultNative converts a field default, as decoded from a schema
// document, to the goavro native form of s. Defaults of unions use the
// first branch; bytes and fixed defaults are strings of code points 0-255.
func (c *converter) defaultNative(def any, s schema.Schema, path string) (any, error) {
	s, err := c.resolve(s, path)
	if err != nil {
		return nil, err
	}
	bad := func() error {
		return &MismatchError{Path: path, Schema: s.Kind().String(), Value: fmt.Sprintf("default %v", def), Reason: "invalid default"}
	}

	switch s := s.(type) {
	case *schema.Union:
		if len(s.Branches) == 0 {
			return nil, bad()
		}
		first, err := c.resolve(s.Branches[0], path)
		if err != nil {
			return nil, err
		}
		n, err := c.defaultNative(def, first, path)
		if err != nil || first == schema.Null {
			return nil, err
		}
		return goavro.Union(schema.PhysicalTypeName(first), n), nil
	case *schema.Record:
		m, ok := def.(map[string]any)
		if !ok {
			return nil, bad()
		}
		out := make(map[string]any, len(s.Fields))
		for _, f := range s.Fields {
			fd, ok := m[f.Name]
			if !ok {
				if !f.HasDefault {
					return nil, bad()
				}
				fd = f.Default
			}
			n, err := c.defaultNative(fd, f.Schema, path+"."+f.Name)
			if err != nil {
				return nil, err
			}
			out[f.Name] = n
		}
		return out, nil
	case *schema.Enum:
		if sym, ok := def.(string); ok && s.Index(sym) >= 0 {
			return sym, nil
		}
	case *schema.Fixed:
		if b, ok := codePoints(def); ok && len(b) == s.Size {
			return b, nil
		}
	case *schema.Decimal:
		if b, ok := codePoints(def); ok {
			return b, nil
		}
	case *schema.Array:
		items, ok := def.([]any)
		if !ok {
			return nil, bad()
		}
		out := make([]any, len(items))
		for i, item := range items {
			n, err := c.defaultNative(item, s.Items, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case *schema.Map:
		entries, ok := def.(map[string]any)
		if !ok {
			return nil, bad()
		}
		out := make(map[string]any, len(entries))
		for k, item := range entries {
			n, err := c.defaultNative(item, s.Values, path+"["+strconv.Quote(k)+"]")
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case schema.Primitive:
		if n, ok := primitiveDefault(def, s); ok {
			return n, nil
		}
	}
	return nil, bad()
}

func primitiveDefault(def any, s schema.Primitive) (any, bool) {
	switch s {
	case schema.Null:
		return nil, def == nil
	case schema.Boolean:
		b, ok := def.(bool)
		return b, ok
	case schema.Int, schema.Date, schema.TimeMillis:
		n, ok := number(def)
		return int32(n), ok
	case schema.Float:
		n, ok := number(def)
		return float32(n), ok
	case schema.Double:
		n, ok := number(def)
		return n, ok
	case schema.String, schema.Uuid:
		str, ok := def.(string)
		return str, ok
	case schema.Bytes, schema.BigDecimal:
		return codePoints(def)
	case schema.Duration:
		b, ok := codePoints(def)
		return b, ok && len(b) == 12
	}
	if schema.PhysicalTypeName(s) == "long" {
		switch n := def.(type) {
		case int:
			return int64(n), true
		case int64:
			return n, true
		case float64:
			return int64(n), true
		}
	}
	return nil, false
}

func number(def any) (float64, bool) {
	switch n := def.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// codePoints converts a JSON bytes default ("ÿ" style) to bytes.
func codePoints(def any) ([]byte, bool) {
	str, ok := def.(string)
	if !ok {
		return nil, false
	}
	out := make([]byte, 0, len(str))
	for _, r := range str {
		if r > 0xff {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}
