package value

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical renders a value tree as deterministic, self-describing
// JSON. Every node is an object tagged with its variant:
//
//	{"type":"record","fields":[{"name":"a","value":{"type":"long","value":27}}]}
//
// Object keys are emitted in sorted order, map entries in UTF-16 key order,
// strings are NFC normalized and HTML characters are not escaped. Bytes and
// fixed payloads are hex encoded. Non-finite floats render as the strings
// "NaN", "Infinity" and "-Infinity".
//
// Two values with equal canonical output are Equal, except for NaN payloads.
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("nil value in tree")
	case Null:
		buf.WriteString(`{"type":"null"}`)
	case Boolean:
		buf.WriteString(`{"type":"boolean","value":`)
		buf.WriteString(strconv.FormatBool(bool(val)))
		buf.WriteByte('}')
	case Int:
		fmt.Fprintf(buf, `{"type":"int","value":%d}`, val)
	case Long:
		fmt.Fprintf(buf, `{"type":"long","value":%d}`, val)
	case Float:
		buf.WriteString(`{"type":"float","value":`)
		writeFloat(buf, float64(val), 32)
		buf.WriteByte('}')
	case Double:
		buf.WriteString(`{"type":"double","value":`)
		writeFloat(buf, float64(val), 64)
		buf.WriteByte('}')
	case Bytes:
		buf.WriteString(`{"type":"bytes","value":"`)
		buf.WriteString(hex.EncodeToString(val))
		buf.WriteString(`"}`)
	case Fixed:
		fmt.Fprintf(buf, `{"size":%d,"type":"fixed","value":"%s"}`, val.Size, hex.EncodeToString(val.Bytes))
	case String:
		buf.WriteString(`{"type":"string","value":`)
		if err := writeString(buf, string(val)); err != nil {
			return err
		}
		buf.WriteByte('}')
	case Union:
		fmt.Fprintf(buf, `{"index":%d,"type":"union","value":`, val.Index)
		if err := writeCanonical(buf, val.Value); err != nil {
			return fmt.Errorf("union[%d]: %w", val.Index, err)
		}
		buf.WriteByte('}')
	case Enum:
		fmt.Fprintf(buf, `{"index":%d,"symbol":`, val.Index)
		if err := writeString(buf, val.Symbol); err != nil {
			return err
		}
		buf.WriteString(`,"type":"enum"}`)
	case Array:
		buf.WriteString(`{"items":[`)
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteString(`],"type":"array"}`)
	case Map:
		buf.WriteString(`{"type":"map","values":{`)
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("map[%q]: %w", k, err)
			}
		}
		buf.WriteString(`}}`)
	case Record:
		buf.WriteString(`{"fields":[`)
		for i, f := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(`{"name":`)
			if err := writeString(buf, f.Name); err != nil {
				return err
			}
			buf.WriteString(`,"value":`)
			if err := writeCanonical(buf, f.Value); err != nil {
				return fmt.Errorf("record field %q: %w", f.Name, err)
			}
			buf.WriteByte('}')
		}
		buf.WriteString(`],"type":"record"}`)
	default:
		return fmt.Errorf("unknown value type: %T", v)
	}
	return nil
}

func writeFloat(buf *bytes.Buffer, f float64, bits int) {
	switch {
	case math.IsNaN(f):
		buf.WriteString(`"NaN"`)
	case math.IsInf(f, 1):
		buf.WriteString(`"Infinity"`)
	case math.IsInf(f, -1):
		buf.WriteString(`"-Infinity"`)
	default:
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
	}
}

// writeString writes s as a JSON string after NFC normalization,
// without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	// Encoder appends a newline
	buf.Write(bytes.TrimSuffix(out.Bytes(), []byte("\n")))
	return nil
}
