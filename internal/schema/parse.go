package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse reads a schema from a JSON or YAML document.
//
// Named types are resolved against the types defined earlier in the same
// document, with namespaces inherited from the enclosing named type. Any use
// of a name after its definition, including a recursive one, becomes a Ref.
// Unknown logical types, and logical types with invalid parameters, fall
// back to the annotated physical type.
func Parse(data []byte) (Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Message: "empty schema document"}
	}

	p := &parser{names: make(map[string]bool)}
	return p.parse(doc.Content[0], "")
}

type parser struct {
	names map[string]bool
}

func errorf(n *yaml.Node, format string, args ...any) *ParseError {
	return &ParseError{Line: n.Line, Column: n.Column, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parse(n *yaml.Node, namespace string) (Schema, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return p.named(n, n.Value, namespace)
	case yaml.SequenceNode:
		return p.union(n, namespace)
	case yaml.MappingNode:
		return p.complex(n, namespace)
	case yaml.AliasNode:
		return p.parse(n.Alias, namespace)
	}
	return nil, errorf(n, "unexpected schema node")
}

var primitiveNames = map[string]Primitive{
	"null":    Null,
	"boolean": Boolean,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
	"bytes":   Bytes,
	"string":  String,
}

// named resolves a type name: a primitive or a previously defined type.
func (p *parser) named(n *yaml.Node, typ, namespace string) (Schema, error) {
	if prim, ok := primitiveNames[typ]; ok {
		return prim, nil
	}
	name, err := NewName(typ, namespace)
	if err != nil {
		return nil, errorf(n, "%v", err)
	}
	if p.names[name.Fullname()] {
		return &Ref{Name: name}, nil
	}
	// Unqualified names may also refer to the null namespace
	if bare := (Name{Name: name.Name}); name.Namespace != "" && typ == name.Name && p.names[bare.Fullname()] {
		return &Ref{Name: bare}, nil
	}
	return nil, errorf(n, "unknown type %q", typ)
}

func (p *parser) define(n *yaml.Node, name Name) error {
	full := name.Fullname()
	if p.names[full] {
		return errorf(n, "type %q is defined twice", full)
	}
	p.names[full] = true
	return nil
}

func (p *parser) union(n *yaml.Node, namespace string) (Schema, error) {
	u := &Union{Branches: make([]Schema, 0, len(n.Content))}
	for _, b := range n.Content {
		if b.Kind == yaml.SequenceNode {
			return nil, errorf(b, "unions may not immediately contain unions")
		}
		branch, err := p.parse(b, namespace)
		if err != nil {
			return nil, err
		}
		u.Branches = append(u.Branches, branch)
	}
	return u, nil
}

// object is a mapping node indexed by key.
type object struct {
	node   *yaml.Node
	fields map[string]*yaml.Node
}

func newObject(n *yaml.Node) object {
	o := object{node: n, fields: make(map[string]*yaml.Node, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		o.fields[n.Content[i].Value] = n.Content[i+1]
	}
	return o
}

func (o object) has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

func (o object) required(key string) (*yaml.Node, error) {
	v, ok := o.fields[key]
	if !ok {
		return nil, errorf(o.node, "missing %q", key)
	}
	return v, nil
}

func (o object) string(key string) (string, error) {
	v, ok := o.fields[key]
	if !ok {
		return "", nil
	}
	if v.Kind != yaml.ScalarNode {
		return "", errorf(v, "%q must be a string", key)
	}
	return v.Value, nil
}

func (o object) int(key string) (int, bool, error) {
	v, ok := o.fields[key]
	if !ok {
		return 0, false, nil
	}
	var i int
	if err := v.Decode(&i); err != nil {
		return 0, false, errorf(v, "%q must be an integer", key)
	}
	return i, true, nil
}

func (o object) strings(key string) ([]string, error) {
	v, ok := o.fields[key]
	if !ok {
		return nil, nil
	}
	var out []string
	if err := v.Decode(&out); err != nil {
		return nil, errorf(v, "%q must be a list of strings", key)
	}
	return out, nil
}

func (p *parser) complex(n *yaml.Node, namespace string) (Schema, error) {
	o := newObject(n)
	typNode, err := o.required("type")
	if err != nil {
		return nil, err
	}
	if typNode.Kind != yaml.ScalarNode {
		// {"type": <schema>} wraps a nested schema
		return p.parse(typNode, namespace)
	}

	logical, err := o.string("logicalType")
	if err != nil {
		return nil, err
	}

	switch typ := typNode.Value; typ {
	case "record", "error":
		return p.record(o, namespace)
	case "enum":
		return p.enum(o, namespace)
	case "fixed":
		return p.fixed(o, namespace, logical)
	case "array":
		items, err := o.required("items")
		if err != nil {
			return nil, err
		}
		s, err := p.parse(items, namespace)
		if err != nil {
			return nil, err
		}
		return &Array{Items: s}, nil
	case "map":
		values, err := o.required("values")
		if err != nil {
			return nil, err
		}
		s, err := p.parse(values, namespace)
		if err != nil {
			return nil, err
		}
		return &Map{Values: s}, nil
	default:
		s, err := p.named(typNode, typ, namespace)
		if err != nil {
			return nil, err
		}
		if prim, ok := s.(Primitive); ok && logical != "" {
			return p.logical(o, prim, logical)
		}
		return s, nil
	}
}

var logicalTypes = map[Primitive]map[string]Primitive{
	String: {"uuid": Uuid},
	Bytes:  {"big-decimal": BigDecimal},
	Int:    {"date": Date, "time-millis": TimeMillis},
	Long: {
		"time-micros":            TimeMicros,
		"timestamp-millis":       TimestampMillis,
		"timestamp-micros":       TimestampMicros,
		"timestamp-nanos":        TimestampNanos,
		"local-timestamp-millis": LocalTimestampMillis,
		"local-timestamp-micros": LocalTimestampMicros,
		"local-timestamp-nanos":  LocalTimestampNanos,
	},
}

func (p *parser) logical(o object, base Primitive, logical string) (Schema, error) {
	if base == Bytes && logical == "decimal" {
		return decimalOr(o, base, base)
	}
	if prim, ok := logicalTypes[base][logical]; ok {
		return prim, nil
	}
	return base, nil
}

// decimalOr returns a Decimal over inner, or fallback when the decimal
// parameters are invalid.
func decimalOr(o object, inner, fallback Schema) (Schema, error) {
	precision, ok, err := o.int("precision")
	if err != nil {
		return nil, err
	}
	scale, _, err := o.int("scale")
	if err != nil {
		return nil, err
	}
	if !ok || precision <= 0 || scale < 0 || scale > precision {
		return fallback, nil
	}
	if f, isFixed := inner.(*Fixed); isFixed && precision > maxFixedPrecision(f.Size) {
		return fallback, nil
	}
	return &Decimal{Precision: precision, Scale: scale, Inner: inner}, nil
}

// maxFixedPrecision is floor(log10(2^(8*size-1) - 1)).
func maxFixedPrecision(size int) int {
	if size <= 0 {
		return 0
	}
	// log10(2) * (8*size - 1)
	return int(float64(8*size-1) * 0.30102999566398120)
}

func (p *parser) typeName(o object, namespace string) (Name, error) {
	nameNode, err := o.required("name")
	if err != nil {
		return Name{}, err
	}
	if o.has("namespace") {
		namespace, err = o.string("namespace")
		if err != nil {
			return Name{}, err
		}
	}
	name, err := NewName(nameNode.Value, namespace)
	if err != nil {
		return Name{}, errorf(nameNode, "%v", err)
	}
	if err := p.define(nameNode, name); err != nil {
		return Name{}, err
	}
	return name, nil
}

func (p *parser) aliases(o object, namespace string) ([]Name, error) {
	raw, err := o.strings("aliases")
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	out := make([]Name, len(raw))
	for i, a := range raw {
		name, err := NewName(a, namespace)
		if err != nil {
			return nil, errorf(o.fields["aliases"], "%v", err)
		}
		out[i] = name
	}
	return out, nil
}

func (p *parser) record(o object, namespace string) (Schema, error) {
	name, err := p.typeName(o, namespace)
	if err != nil {
		return nil, err
	}
	doc, err := o.string("doc")
	if err != nil {
		return nil, err
	}
	aliases, err := p.aliases(o, name.Namespace)
	if err != nil {
		return nil, err
	}

	fieldsNode, err := o.required("fields")
	if err != nil {
		return nil, err
	}
	if fieldsNode.Kind != yaml.SequenceNode {
		return nil, errorf(fieldsNode, "record fields must be a list")
	}

	r := &Record{Name: name, Doc: doc, Aliases: aliases, Fields: make([]Field, 0, len(fieldsNode.Content))}
	seen := make(map[string]bool, len(fieldsNode.Content))
	for _, fn := range fieldsNode.Content {
		f, err := p.field(fn, name.Namespace)
		if err != nil {
			return nil, err
		}
		if seen[f.Name] {
			return nil, errorf(fn, "record %s has duplicate field %q", name, f.Name)
		}
		seen[f.Name] = true
		r.Fields = append(r.Fields, f)
	}
	return r, nil
}

func (p *parser) field(n *yaml.Node, namespace string) (Field, error) {
	if n.Kind != yaml.MappingNode {
		return Field{}, errorf(n, "record field must be an object")
	}
	o := newObject(n)

	nameNode, err := o.required("name")
	if err != nil {
		return Field{}, err
	}
	if !namePattern.MatchString(nameNode.Value) {
		return Field{}, errorf(nameNode, "invalid field name %q", nameNode.Value)
	}
	typNode, err := o.required("type")
	if err != nil {
		return Field{}, err
	}
	s, err := p.parse(typNode, namespace)
	if err != nil {
		return Field{}, err
	}

	f := Field{Name: nameNode.Value, Schema: s}
	if f.Doc, err = o.string("doc"); err != nil {
		return Field{}, err
	}
	if f.Aliases, err = o.strings("aliases"); err != nil {
		return Field{}, err
	}
	if def, ok := o.fields["default"]; ok {
		if err := def.Decode(&f.Default); err != nil {
			return Field{}, errorf(def, "invalid default: %v", err)
		}
		f.HasDefault = true
	}
	order, err := o.string("order")
	if err != nil {
		return Field{}, err
	}
	switch Order(order) {
	case "", OrderAscending, OrderDescending, OrderIgnore:
		f.Order = Order(order)
	default:
		return Field{}, errorf(o.fields["order"], "invalid order %q", order)
	}
	return f, nil
}

func (p *parser) enum(o object, namespace string) (Schema, error) {
	name, err := p.typeName(o, namespace)
	if err != nil {
		return nil, err
	}
	doc, err := o.string("doc")
	if err != nil {
		return nil, err
	}
	aliases, err := p.aliases(o, name.Namespace)
	if err != nil {
		return nil, err
	}
	symbolsNode, err := o.required("symbols")
	if err != nil {
		return nil, err
	}
	symbols, err := o.strings("symbols")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if !namePattern.MatchString(s) {
			return nil, errorf(symbolsNode, "invalid enum symbol %q", s)
		}
		if seen[s] {
			return nil, errorf(symbolsNode, "duplicate enum symbol %q", s)
		}
		seen[s] = true
	}

	e := &Enum{Name: name, Doc: doc, Aliases: aliases, Symbols: symbols}
	if e.Default, err = o.string("default"); err != nil {
		return nil, err
	}
	if e.Default != "" && !seen[e.Default] {
		return nil, errorf(o.fields["default"], "enum default %q is not a symbol", e.Default)
	}
	return e, nil
}

func (p *parser) fixed(o object, namespace, logical string) (Schema, error) {
	name, err := p.typeName(o, namespace)
	if err != nil {
		return nil, err
	}
	doc, err := o.string("doc")
	if err != nil {
		return nil, err
	}
	aliases, err := p.aliases(o, name.Namespace)
	if err != nil {
		return nil, err
	}
	size, ok, err := o.int("size")
	if err != nil {
		return nil, err
	}
	if !ok || size < 0 {
		return nil, errorf(o.node, "fixed %s needs a non-negative size", name)
	}

	f := &Fixed{Name: name, Doc: doc, Aliases: aliases, Size: size}
	switch logical {
	case "decimal":
		return decimalOr(o, f, f)
	case "duration":
		if size == durationSize {
			return Duration, nil
		}
	}
	return f, nil
}
