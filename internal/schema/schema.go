package schema

// Schema is a sealed interface over every Avro schema kind. Only the types
// in this package implement it.
type Schema interface {
	Kind() Kind
	avroSchema() // Sealed
}

// Kind identifies the variant of a Schema.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBytes
	KindString
	KindUuid
	KindBigDecimal
	KindDate
	KindDuration
	KindTimeMicros
	KindTimeMillis
	KindTimestampMicros
	KindTimestampMillis
	KindTimestampNanos
	KindLocalTimestampMicros
	KindLocalTimestampMillis
	KindLocalTimestampNanos

	KindRecord
	KindEnum
	KindFixed
	KindUnion
	KindDecimal
	KindArray
	KindMap
	KindRef
)

var kindNames = [...]string{
	KindNull:                 "null",
	KindBoolean:              "boolean",
	KindInt:                  "int",
	KindLong:                 "long",
	KindFloat:                "float",
	KindDouble:               "double",
	KindBytes:                "bytes",
	KindString:               "string",
	KindUuid:                 "uuid",
	KindBigDecimal:           "big-decimal",
	KindDate:                 "date",
	KindDuration:             "duration",
	KindTimeMicros:           "time-micros",
	KindTimeMillis:           "time-millis",
	KindTimestampMicros:      "timestamp-micros",
	KindTimestampMillis:      "timestamp-millis",
	KindTimestampNanos:       "timestamp-nanos",
	KindLocalTimestampMicros: "local-timestamp-micros",
	KindLocalTimestampMillis: "local-timestamp-millis",
	KindLocalTimestampNanos:  "local-timestamp-nanos",
	KindRecord:               "record",
	KindEnum:                 "enum",
	KindFixed:                "fixed",
	KindUnion:                "union",
	KindDecimal:              "decimal",
	KindArray:                "array",
	KindMap:                  "map",
	KindRef:                  "ref",
}

// String returns the Avro type or logical type name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is one of the unnamed, parameterless kinds.
func (k Kind) IsPrimitive() bool {
	return k <= KindLocalTimestampNanos
}

// Primitive is a schema kind with no parameters. Logical types whose
// parameters are fixed by Avro (uuid, date, duration and
// the time types) are primitives too.
type Primitive Kind

func (p Primitive) Kind() Kind { return Kind(p) }
func (Primitive) avroSchema()  {}

// String returns the kind name.
func (p Primitive) String() string { return Kind(p).String() }

// The primitive schemas.
const (
	Null                 = Primitive(KindNull)
	Boolean              = Primitive(KindBoolean)
	Int                  = Primitive(KindInt)
	Long                 = Primitive(KindLong)
	Float                = Primitive(KindFloat)
	Double               = Primitive(KindDouble)
	Bytes                = Primitive(KindBytes)
	String               = Primitive(KindString)
	Uuid                 = Primitive(KindUuid)
	BigDecimal           = Primitive(KindBigDecimal)
	Date                 = Primitive(KindDate)
	Duration             = Primitive(KindDuration)
	TimeMicros           = Primitive(KindTimeMicros)
	TimeMillis           = Primitive(KindTimeMillis)
	TimestampMicros      = Primitive(KindTimestampMicros)
	TimestampMillis      = Primitive(KindTimestampMillis)
	TimestampNanos       = Primitive(KindTimestampNanos)
	LocalTimestampMicros = Primitive(KindLocalTimestampMicros)
	LocalTimestampMillis = Primitive(KindLocalTimestampMillis)
	LocalTimestampNanos  = Primitive(KindLocalTimestampNanos)
)

// Primitives lists every primitive schema in Kind order.
func Primitives() []Primitive {
	out := make([]Primitive, 0, KindLocalTimestampNanos+1)
	for k := KindNull; k <= KindLocalTimestampNanos; k++ {
		out = append(out, Primitive(k))
	}
	return out
}

// Order is the sort order of a record field.
type Order string

const (
	OrderAscending  Order = "ascending"
	OrderDescending Order = "descending"
	OrderIgnore     Order = "ignore"
)

// Field is one field of a Record.
type Field struct {
	Name    string
	Doc     string
	Aliases []string
	// Default is the field default as decoded from the document: nil,
	// bool, int, float64, string, []any or map[string]any. HasDefault distinguishes a
	// null default from no default.
	Default    any
	HasDefault bool
	Order      Order
	Schema     Schema
}

// Record is a named list of fields.
type Record struct {
	Name    Name
	Doc     string
	Aliases []Name
	Fields  []Field
}

func (*Record) Kind() Kind  { return KindRecord }
func (*Record) avroSchema() {}

// Field returns the field with the given name.
func (r *Record) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Enum is a named list of symbols.
type Enum struct {
	Name    Name
	Doc     string
	Aliases []Name
	Symbols []string
	// Default is the symbol used by readers for unknown symbols; empty if
	// unset.
	Default string
}

func (*Enum) Kind() Kind  { return KindEnum }
func (*Enum) avroSchema() {}

// Index returns the position of symbol, or -1.
func (e *Enum) Index(symbol string) int {
	for i, s := range e.Symbols {
		if s == symbol {
			return i
		}
	}
	return -1
}

// Fixed is a named byte sequence of a declared size.
type Fixed struct {
	Name    Name
	Doc     string
	Aliases []Name
	Size    int
}

func (*Fixed) Kind() Kind  { return KindFixed }
func (*Fixed) avroSchema() {}

// Union is an ordered list of branch schemas.
type Union struct {
	Branches []Schema
}

func (*Union) Kind() Kind  { return KindUnion }
func (*Union) avroSchema() {}

// Decimal is the decimal logical type over bytes or a fixed.
type Decimal struct {
	Precision int
	Scale     int
	// Inner is Bytes or a *Fixed.
	Inner Schema
}

func (*Decimal) Kind() Kind  { return KindDecimal }
func (*Decimal) avroSchema() {}

// Array is a sequence of items sharing one schema.
type Array struct {
	Items Schema
}

func (*Array) Kind() Kind  { return KindArray }
func (*Array) avroSchema() {}

// Map is a string-keyed map of values sharing one schema.
type Map struct {
	Values Schema
}

func (*Map) Kind() Kind  { return KindMap }
func (*Map) avroSchema() {}

// Ref refers by name to a named type defined elsewhere in the graph.
type Ref struct {
	Name Name
}

func (*Ref) Kind() Kind  { return KindRef }
func (*Ref) avroSchema() {}

// NameOf returns the name of a Record, Enum, Fixed or Ref, and nil for
// every other kind. The returned Name must not be modified.
func NameOf(s Schema) *Name {
	switch s := s.(type) {
	case *Record:
		return &s.Name
	case *Enum:
		return &s.Name
	case *Fixed:
		return &s.Name
	case *Ref:
		return &s.Name
	}
	return nil
}
