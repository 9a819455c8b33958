// Package codec encodes value trees with a schema.
//
// The value tree produced by package ser carries no schema, so before
// encoding it is reconciled with one. Union branches are chosen, numbers
// are converted to the width the schema declares, enum symbols are looked
// up and missing record fields take their defaults. The result is the
// native form of github.com/linkedin/goavro/v2, which does the binary and
// JSON encoding.
package codec
