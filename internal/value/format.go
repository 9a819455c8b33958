package value

import (
	"strconv"
	"strings"
)

// Format renders a value tree as compact debug text, for example
//
//	Record[("a", Long(27)), ("b", String("foo"))]
//
// Map entries are printed in sorted key order.
func Format(v Value) string {
	var sb strings.Builder
	writeFormat(&sb, v)
	return sb.String()
}

func writeFormat(sb *strings.Builder, v Value) {
	switch val := v.(type) {
	case nil:
		sb.WriteString("<nil>")
	case Null:
		sb.WriteString("Null")
	case Boolean:
		sb.WriteString("Boolean(" + strconv.FormatBool(bool(val)) + ")")
	case Int:
		sb.WriteString("Int(" + strconv.FormatInt(int64(val), 10) + ")")
	case Long:
		sb.WriteString("Long(" + strconv.FormatInt(int64(val), 10) + ")")
	case Float:
		sb.WriteString("Float(" + strconv.FormatFloat(float64(val), 'g', -1, 32) + ")")
	case Double:
		sb.WriteString("Double(" + strconv.FormatFloat(float64(val), 'g', -1, 64) + ")")
	case Bytes:
		sb.WriteString("Bytes")
		writeByteList(sb, val)
	case Fixed:
		sb.WriteString("Fixed(" + strconv.Itoa(val.Size) + ", ")
		writeByteList(sb, val.Bytes)
		sb.WriteByte(')')
	case String:
		sb.WriteString("String(" + strconv.Quote(string(val)) + ")")
	case Union:
		sb.WriteString("Union(" + strconv.FormatUint(uint64(val.Index), 10) + ", ")
		writeFormat(sb, val.Value)
		sb.WriteByte(')')
	case Enum:
		sb.WriteString("Enum(" + strconv.FormatUint(uint64(val.Index), 10) + ", " + strconv.Quote(val.Symbol) + ")")
	case Array:
		sb.WriteString("Array[")
		for i, elem := range val {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeFormat(sb, elem)
		}
		sb.WriteByte(']')
	case Map:
		sb.WriteString("Map{")
		for i, k := range val.SortedKeys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k) + ": ")
			writeFormat(sb, val[k])
		}
		sb.WriteByte('}')
	case Record:
		sb.WriteString("Record[")
		for i, f := range val {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(" + strconv.Quote(f.Name) + ", ")
			writeFormat(sb, f.Value)
			sb.WriteByte(')')
		}
		sb.WriteByte(']')
	}
}

func writeByteList(sb *strings.Builder, b []byte) {
	sb.WriteByte('[')
	for i, c := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(c)))
	}
	sb.WriteByte(']')
}
