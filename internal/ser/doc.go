// Package ser converts application data into Avro value trees.
//
// The conversion is driven through Serializer, a visitor-style protocol with
// one hook per primitive kind and begin/element/end builders for sequences,
// maps, structs and enum variants. Dispatcher is the protocol implementation
// that produces value.Value; the reflective driver (Of) walks plain Go values
// and calls the hooks, so most callers only need ToValue:
//
//	type Test struct {
//		A int64  `avro:"a"`
//		B string `avro:"b"`
//	}
//
//	v, err := ser.ToValue(Test{A: 27, B: "foo"})
//	// v == value.Record{value.F("a", value.Long(27)), value.F("b", value.String("foo"))}
//
// Numeric widening follows the Avro type system: 8/16/32-bit integers become
// Int, 64-bit integers become Long, a uint32 above MaxInt32 becomes Long and a
// uint64 above MaxInt64 is a value-out-of-range error.
//
// Byte slices have a single protocol hook. Whether they become Bytes or Fixed
// is decided by a per-pass hint that SerializeFixed sets for exactly one call
// (the `avro:",fixed"` struct tag and the FixedBytes type both use it). Each
// ToValue call owns its hint, so independent passes may run concurrently; a
// single pass must stay on one goroutine.
package ser
