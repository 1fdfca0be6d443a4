package dtype

import (
	"fmt"
	"math"
	"reflect"
)

// Encode converts Go values to raw little-endian bytes.
// The src parameter should be a slice or array of a numeric type.
func Encode(d DType, src interface{}) ([]byte, error) {
	size := d.Size()
	if size == 0 {
		return nil, fmt.Errorf("unsupported dtype %q", string(d))
	}

	srcVal := reflect.ValueOf(src)
	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}

	switch srcVal.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		// Scalar value
		sliceVal := reflect.MakeSlice(reflect.SliceOf(srcVal.Type()), 1, 1)
		sliceVal.Index(0).Set(srcVal)
		srcVal = sliceVal
	}

	// []byte stored as |u1 needs no per-element work
	if d == Uint8 && srcVal.Kind() == reflect.Slice && srcVal.Type().Elem().Kind() == reflect.Uint8 {
		out := make([]byte, srcVal.Len())
		copy(out, srcVal.Bytes())
		return out, nil
	}

	n := srcVal.Len()
	data := make([]byte, n*size)
	order := d.ByteOrder()

	for i := 0; i < n; i++ {
		elem := srcVal.Index(i)
		offset := i * size

		if d.IsFloat() {
			f, err := floatOf(elem)
			if err != nil {
				return nil, err
			}
			if size == 4 {
				order.PutUint32(data[offset:], math.Float32bits(float32(f)))
			} else {
				order.PutUint64(data[offset:], math.Float64bits(f))
			}
			continue
		}

		bits, err := bitsOf(elem)
		if err != nil {
			return nil, err
		}
		switch size {
		case 1:
			data[offset] = byte(bits)
		case 2:
			order.PutUint16(data[offset:], uint16(bits))
		case 4:
			order.PutUint32(data[offset:], uint32(bits))
		case 8:
			order.PutUint64(data[offset:], bits)
		}
	}

	return data, nil
}

func floatOf(v reflect.Value) (float64, error) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	default:
		return 0, fmt.Errorf("cannot encode %v as float", v.Kind())
	}
}

func bitsOf(v reflect.Value) (uint64, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil
	default:
		return 0, fmt.Errorf("cannot encode %v as integer", v.Kind())
	}
}

// DataSize calculates the total data size for n elements.
func DataSize(d DType, n uint64) uint64 {
	return uint64(d.Size()) * n
}
