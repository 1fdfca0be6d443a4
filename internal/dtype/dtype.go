package dtype

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// DType is a Zarr v2 element type string.
type DType string

// Supported element types.
const (
	Uint8   DType = "|u1"
	Int8    DType = "|i1"
	Int16   DType = "<i2"
	Uint16  DType = "<u2"
	Int32   DType = "<i4"
	Uint32  DType = "<u4"
	Int64   DType = "<i8"
	Uint64  DType = "<u8"
	Float32 DType = "<f4"
	Float64 DType = "<f8"
)

var goTypes = map[DType]reflect.Type{
	Uint8:   reflect.TypeOf(uint8(0)),
	Int8:    reflect.TypeOf(int8(0)),
	Int16:   reflect.TypeOf(int16(0)),
	Uint16:  reflect.TypeOf(uint16(0)),
	Int32:   reflect.TypeOf(int32(0)),
	Uint32:  reflect.TypeOf(uint32(0)),
	Int64:   reflect.TypeOf(int64(0)),
	Uint64:  reflect.TypeOf(uint64(0)),
	Float32: reflect.TypeOf(float32(0)),
	Float64: reflect.TypeOf(float64(0)),
}

// Parse validates a dtype string.
func Parse(s string) (DType, error) {
	d := DType(s)
	if _, ok := goTypes[d]; !ok {
		return "", fmt.Errorf("unsupported dtype %q", s)
	}
	return d, nil
}

// GoType returns the Go type that corresponds to d.
func (d DType) GoType() (reflect.Type, error) {
	t, ok := goTypes[d]
	if !ok {
		return nil, fmt.Errorf("unsupported dtype %q", string(d))
	}
	return t, nil
}

// Size returns the size of a single element in bytes, or 0 for an unknown dtype.
func (d DType) Size() int {
	t, ok := goTypes[d]
	if !ok {
		return 0
	}
	return int(t.Size())
}

// IsFloat reports whether d is a floating-point type.
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// IsInteger reports whether d is a signed or unsigned integer type.
func (d DType) IsInteger() bool {
	_, ok := goTypes[d]
	return ok && !d.IsFloat()
}

// ByteOrder returns the byte order of multi-byte elements.
func (d DType) ByteOrder() binary.ByteOrder {
	return binary.LittleEndian
}

func (d DType) String() string {
	return string(d)
}

// FromGoType returns the dtype for a Go element type.
func FromGoType(t reflect.Type) (DType, error) {
	switch t.Kind() {
	case reflect.Uint8:
		return Uint8, nil
	case reflect.Int8:
		return Int8, nil
	case reflect.Int16:
		return Int16, nil
	case reflect.Uint16:
		return Uint16, nil
	case reflect.Int32:
		return Int32, nil
	case reflect.Uint32:
		return Uint32, nil
	case reflect.Int64, reflect.Int:
		return Int64, nil
	case reflect.Uint64, reflect.Uint:
		return Uint64, nil
	case reflect.Float32:
		return Float32, nil
	case reflect.Float64:
		return Float64, nil
	default:
		return "", fmt.Errorf("unsupported Go type: %v", t)
	}
}
