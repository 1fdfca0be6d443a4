package dtype

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoType(t *testing.T) {
	tests := []struct {
		dt       DType
		expected reflect.Type
		size     int
	}{
		{Uint8, reflect.TypeOf(uint8(0)), 1},
		{Int8, reflect.TypeOf(int8(0)), 1},
		{Int16, reflect.TypeOf(int16(0)), 2},
		{Uint16, reflect.TypeOf(uint16(0)), 2},
		{Int32, reflect.TypeOf(int32(0)), 4},
		{Uint32, reflect.TypeOf(uint32(0)), 4},
		{Int64, reflect.TypeOf(int64(0)), 8},
		{Uint64, reflect.TypeOf(uint64(0)), 8},
		{Float32, reflect.TypeOf(float32(0)), 4},
		{Float64, reflect.TypeOf(float64(0)), 8},
	}

	for _, tt := range tests {
		t.Run(string(tt.dt), func(t *testing.T) {
			got, err := tt.dt.GoType()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.size, tt.dt.Size())

			back, err := FromGoType(got)
			require.NoError(t, err)
			assert.Equal(t, tt.dt, back)
		})
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("<i2")
	require.NoError(t, err)
	assert.Equal(t, Int16, d)

	_, err = Parse(">i2")
	assert.Error(t, err)
	_, err = Parse("<c16")
	assert.Error(t, err)
}

func TestKinds(t *testing.T) {
	assert.True(t, Int16.IsInteger())
	assert.False(t, Int16.IsFloat())
	assert.True(t, Float64.IsFloat())
	assert.False(t, Float64.IsInteger())
	assert.False(t, DType("bogus").IsInteger())
}

func TestEncodeConvertInt16(t *testing.T) {
	values := []int16{-2048, -1, 0, 1, 2047}
	raw, err := Encode(Int16, values)
	require.NoError(t, err)
	assert.Len(t, raw, 10)
	assert.Equal(t, []byte{0x00, 0xF8}, raw[:2])

	got, err := ConvertToSlice[int16](Int16, raw, 5)
	require.NoError(t, err)
	assert.Equal(t, values, got)

	widened, err := ConvertToSlice[int64](Int16, raw, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{-2048, -1, 0, 1, 2047}, widened)
}

func TestEncodeConvertFloat64(t *testing.T) {
	values := []float64{-500, 0.25, 1e300}
	raw, err := Encode(Float64, values)
	require.NoError(t, err)

	var got []float64
	require.NoError(t, Convert(Float64, raw, 3, &got))
	assert.Equal(t, values, got)
}

func TestEncodeBytes(t *testing.T) {
	src := []byte{0, 1, 2, 255}
	raw, err := Encode(Uint8, src)
	require.NoError(t, err)
	assert.Equal(t, src, raw)

	// The encoded buffer is a copy
	src[0] = 9
	assert.Equal(t, byte(0), raw[0])
}

func TestEncodeScalar(t *testing.T) {
	raw, err := Encode(Int32, int32(-2))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFE, 0xFF, 0xFF, 0xFF}, raw)
}

func TestEncodeUnsupported(t *testing.T) {
	_, err := Encode(Int16, []string{"a"})
	assert.Error(t, err)
	_, err = Encode(DType("x"), []int16{1})
	assert.Error(t, err)
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name string
		dt   DType
		src  interface{}
		want []float64
	}{
		{"int16", Int16, []int16{-3, 7}, []float64{-3, 7}},
		{"int32", Int32, []int32{-8388608, 8388607}, []float64{-8388608, 8388607}},
		{"uint8", Uint8, []uint8{0, 255}, []float64{0, 255}},
		{"float32", Float32, []float32{0.5, -1.5}, []float64{0.5, -1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.dt, tt.src)
			require.NoError(t, err)
			got, err := ToFloat64(tt.dt, raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertErrors(t *testing.T) {
	raw := []byte{1, 0}
	var notPtr []int16
	assert.Error(t, Convert(Int16, raw, 1, notPtr))

	var short []int16
	assert.Error(t, Convert(Int16, raw, 2, &short))

	var strs []string
	assert.Error(t, Convert(Int16, raw, 1, &strs))
}
