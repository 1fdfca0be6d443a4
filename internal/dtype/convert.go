package dtype

import (
	"fmt"
	"math"
	"reflect"
)

// Convert converts raw bytes to Go values.
// dest must be a pointer to a slice of a numeric type.
func Convert(d DType, data []byte, numElements uint64, dest interface{}) error {
	size := d.Size()
	if size == 0 {
		return fmt.Errorf("unsupported dtype %q", string(d))
	}
	if uint64(len(data)) < numElements*uint64(size) {
		return fmt.Errorf("data too short: %d bytes for %d elements of %s", len(data), numElements, d)
	}

	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr {
		return fmt.Errorf("dest must be a pointer, got %T", dest)
	}
	sliceVal := destVal.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return fmt.Errorf("dest must point to a slice, got %T", dest)
	}

	n := int(numElements)
	elemType := sliceVal.Type().Elem()
	out := reflect.MakeSlice(sliceVal.Type(), n, n)

	for i := 0; i < n; i++ {
		raw := data[i*size : (i+1)*size]
		if err := setElem(out.Index(i), elemType, d, raw); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}

	sliceVal.Set(out)
	return nil
}

// ConvertToSlice is a generic helper that converts data to a typed slice.
func ConvertToSlice[T any](d DType, data []byte, numElements uint64) ([]T, error) {
	var result []T
	err := Convert(d, data, numElements, &result)
	return result, err
}

// ToFloat64 widens every element of data to float64.
func ToFloat64(d DType, data []byte) ([]float64, error) {
	size := d.Size()
	if size == 0 {
		return nil, fmt.Errorf("unsupported dtype %q", string(d))
	}
	n := len(data) / size
	out := make([]float64, n)
	for i := range out {
		out[i] = decodeFloat(d, data[i*size:(i+1)*size])
	}
	return out, nil
}

func setElem(v reflect.Value, t reflect.Type, d DType, raw []byte) error {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(decodeFloat(d, raw))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if d.IsFloat() {
			v.SetInt(int64(decodeFloat(d, raw)))
		} else {
			v.SetInt(decodeInt(d, raw))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if d.IsFloat() {
			v.SetUint(uint64(decodeFloat(d, raw)))
		} else {
			v.SetUint(uint64(decodeInt(d, raw)))
		}
	default:
		return fmt.Errorf("cannot convert %s to %v", d, t)
	}
	return nil
}

func decodeInt(d DType, raw []byte) int64 {
	order := d.ByteOrder()
	switch d {
	case Int8:
		return int64(int8(raw[0]))
	case Uint8:
		return int64(raw[0])
	case Int16:
		return int64(int16(order.Uint16(raw)))
	case Uint16:
		return int64(order.Uint16(raw))
	case Int32:
		return int64(int32(order.Uint32(raw)))
	case Uint32:
		return int64(order.Uint32(raw))
	default:
		return int64(order.Uint64(raw))
	}
}

func decodeFloat(d DType, raw []byte) float64 {
	order := d.ByteOrder()
	switch d {
	case Float32:
		return float64(math.Float32frombits(order.Uint32(raw)))
	case Float64:
		return math.Float64frombits(order.Uint64(raw))
	case Uint64:
		return float64(order.Uint64(raw))
	default:
		return float64(decodeInt(d, raw))
	}
}
