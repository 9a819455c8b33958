// Package schema provides the Avro schema entity.
//
// Schema is a closed set of kinds: the primitives (including the logical
// types built on them), named types (Record, Enum, Fixed), Union, Decimal,
// Array, Map, and Ref. A named type is defined once in a schema graph; later
// uses of the same name are Ref values, so graphs are trees even when the
// schema they describe is recursive.
//
// Schemas are built in code or read with Parse (JSON or YAML documents) and
// LoadCUE. CanonicalForm and the fingerprints are computed with
// github.com/linkedin/goavro/v2.
package schema
