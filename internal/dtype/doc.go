// Package dtype defines the element types a byte range can be reinterpreted
// as, and converts raw bytes to decoded values.
//
// # Element Types
//
//	ElementType | Width | Decoded as
//	------------|-------|---------------------------------------
//	Text        | 1     | rendered text (see AppendText)
//	Int8        | 1     | int64, sign-extended
//	Int16       | 2     | int64, sign-extended
//	Int32       | 4     | int64, sign-extended
//	Int64       | 8     | int64
//	Float32     | 4     | float64 (Bits = 32)
//	Float64     | 8     | float64 (Bits = 64)
//
// All multi-byte types are little endian.
//
// # Values
//
// A [Value] is a tagged union. Besides the numeric and text kinds it has
// two sentinels: [KindMissing] for addresses that fall outside complete
// file data, and [KindError] for reads that failed. Missing is a normal
// outcome for trailing partial rows and must never be shown as zero.
//
// [Value.String] gives the canonical decimal rendering used by typed
// search: base-10 integers and the shortest round-trip float form for the
// source bit size.
//
// # Key Functions
//
//   - [Decode]: bytes to Value for one element
//   - [DecodeFloat64s]: a run of elements as float64, for statistics
//   - [AppendText]: text rendering of raw bytes
//   - [Encode]: float64 to element bytes, for fixtures
//   - [Parse]: element type from its name
package dtype
