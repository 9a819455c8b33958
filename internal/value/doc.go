// Package value provides the dynamic, schema-tagged value tree for avrovalue.
//
// This package contains the value model only. The serializer in internal/ser
// produces these values; internal/codec hands them to the Avro encoder.
// value imports nothing internal.
//
// Key design constraints:
//   - Value is sealed: only the variants declared here implement it
//   - Values are immutable once built and owned by whoever holds them
//   - Integer variants never hold a number outside their declared width
//   - Record field order is serialization order, not schema order
package value
