// Package dtype provides array element types and Go type conversion.
//
// Element types are named by Zarr v2 dtype strings: a byte-order character
// ('<' little-endian, '|' not applicable), a kind character ('i' signed
// integer, 'u' unsigned integer, 'f' float) and the element size in bytes.
//
//	DType | Go Type
//	------|---------
//	|u1   | uint8
//	|i1   | int8
//	<i2   | int16
//	<u2   | uint16
//	<i4   | int32
//	<u4   | uint32
//	<i8   | int64
//	<u8   | uint64
//	<f4   | float32
//	<f8   | float64
//
// # Reading Data
//
// Use [Convert] to convert raw bytes to Go values:
//
//	var values []int16
//	err := dtype.Convert(dtype.Int16, rawBytes, numElements, &values)
//
// Any numeric destination slice is accepted; values are converted element
// by element when the destination type differs from the stored type.
// [ToFloat64] is the widening shortcut used by calibrated reads.
//
// # Writing Data
//
// Use [Encode] to convert Go values to raw bytes:
//
//	data, err := dtype.Encode(dtype.Int32, []int32{1, 2, 3})
//
// Use [FromGoType] to find the element type for a Go type.
package dtype
