package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateArrayMetadata(t *testing.T) {
	f := newTestFile(t)
	arr, err := f.Root().CreateArray("rkns/signals/fg_4.0/signal",
		[]int16{1, 2, 3, 4, 5, 6},
		WithShape(3, 2), WithChunks(2, 2), WithShuffle(), WithCompression(2))
	require.NoError(t, err)

	assert.Equal(t, []uint64{3, 2}, arr.Shape())
	assert.Equal(t, 2, arr.Rank())
	assert.Equal(t, uint64(6), arr.NumElements())
	assert.Equal(t, Int16, arr.DType())
	assert.Equal(t, 2, arr.ElementSize())
	assert.Equal(t, []uint64{2, 2}, arr.Chunks())
	id, level := arr.Compressor()
	assert.Equal(t, "zstd", id)
	assert.Equal(t, 2, level)
	assert.Equal(t, []string{"shuffle"}, arr.Filters())

	raw, err := f.Backend().Get("rkns/signals/fg_4.0/signal/.zarray")
	require.NoError(t, err)
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, float64(2), meta["zarr_format"])
	assert.Equal(t, "<i2", meta["dtype"])
	assert.Equal(t, "C", meta["order"])
	assert.Equal(t, []interface{}{float64(3), float64(2)}, meta["shape"])

	keys, err := f.Backend().List("rkns/signals/fg_4.0/signal/")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"rkns/signals/fg_4.0/signal/.zarray",
		"rkns/signals/fg_4.0/signal/0.0",
		"rkns/signals/fg_4.0/signal/1.0",
	}, keys)
}

func TestArrayRoundTrip(t *testing.T) {
	data := make([]int32, 7*5)
	for i := range data {
		data[i] = int32(i*37 - 500)
	}

	tests := []struct {
		name string
		opts []ArrayOption
	}{
		{"default", nil},
		{"uncompressed", []ArrayOption{WithNoCompression()}},
		{"shuffle", []ArrayOption{WithShuffle()}},
		{"checksum", []ArrayOption{WithChecksum(), WithShuffle(), WithCompression(4)}},
		{"small chunks", []ArrayOption{WithChunks(3, 2)}},
		{"one chunk", []ArrayOption{WithChunks(8, 8), WithNoCompression()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFile(t)
			opts := append([]ArrayOption{WithShape(7, 5)}, tt.opts...)
			arr, err := f.Root().CreateArray("a", data, opts...)
			require.NoError(t, err)

			// Reopen from metadata
			arr, err = f.OpenArray("/a")
			require.NoError(t, err)

			got, err := arr.ReadInt32()
			require.NoError(t, err)
			assert.Equal(t, data, got)

			// Rows 2-4, columns 1-3
			var part []int32
			require.NoError(t, arr.ReadSliceInto([]uint64{2, 1}, []uint64{3, 3}, &part))
			want := []int32{}
			for r := 2; r < 5; r++ {
				want = append(want, data[r*5+1:r*5+4]...)
			}
			assert.Equal(t, want, part)

			fl, err := arr.ReadFloat64Slice([]uint64{6, 4}, []uint64{1, 1})
			require.NoError(t, err)
			assert.Equal(t, []float64{float64(data[34])}, fl)
		})
	}
}

func TestArrayTypes(t *testing.T) {
	f := newTestFile(t)
	root := f.Root()

	a, err := root.CreateArray("u8", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, Uint8, a.DType())
	b, err := a.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)

	a, err = root.CreateArray("f8", []float64{-1, 0.5, 1e9}, WithShape(1, 3))
	require.NoError(t, err)
	assert.Equal(t, Float64, a.DType())
	fl, err := a.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0.5, 1e9}, fl)

	// Narrowed on write
	a, err = root.CreateArray("i2", []int32{-32768, 0, 32767}, WithDType(Int16))
	require.NoError(t, err)
	assert.Equal(t, Int16, a.DType())
	i16, err := a.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, []int16{-32768, 0, 32767}, i16)

	// Widened on read
	i32, err := a.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, []int32{-32768, 0, 32767}, i32)

	a, err = root.CreateArray("scalar", 42.0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, a.Shape())

	_, err = root.CreateArray("bad", []string{"x"})
	assert.Error(t, err)
	_, err = root.CreateArray("bad", []int16{1}, WithDType("<c8"))
	assert.Error(t, err)
}

func TestCreateArrayErrors(t *testing.T) {
	f := newTestFile(t)
	root := f.Root()

	_, err := root.CreateArray("a", []int16{1, 2, 3}, WithShape(2, 2))
	assert.ErrorIs(t, err, ErrShape)

	_, err = root.CreateArray("a", []int16{1, 2, 3})
	require.NoError(t, err)
	_, err = root.CreateArray("a", []int16{1, 2, 3})
	assert.ErrorIs(t, err, ErrExists)

	_, err = root.CreateArray("", []int16{1})
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = root.CreateArray("b", []int16{1, 2, 3}, WithChunks(1, 1))
	assert.Error(t, err)
}

func TestArrayWithAttributes(t *testing.T) {
	f := newTestFile(t)
	arr, err := f.Root().CreateArray("_raw/signal", []byte{1, 2, 3},
		WithAttribute("filename", "rec.edf"),
		WithAttribute("format", 1))
	require.NoError(t, err)

	names, err := arr.AttrNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"filename", "format"}, names)
	assert.Equal(t, "signal", arr.Name())
	assert.Equal(t, "/_raw/signal", arr.Path())
}

func TestMissingChunkReadsFill(t *testing.T) {
	f := newTestFile(t)
	arr, err := f.Root().CreateArray("a", []int16{1, 2, 3, 4}, WithChunks(2))
	require.NoError(t, err)
	require.NoError(t, f.Backend().Delete("a/1"))

	got, err := arr.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 2, 0, 0}, got)
}

func TestCorruptChunk(t *testing.T) {
	f := newTestFile(t)
	arr, err := f.Root().CreateArray("a", []int16{1, 2, 3, 4}, WithChecksum(), WithNoCompression())
	require.NoError(t, err)

	raw, err := f.Backend().Get("a/0")
	require.NoError(t, err)
	raw[0] ^= 0xFF
	require.NoError(t, f.Backend().Set("a/0", raw))

	_, err = arr.ReadRaw()
	assert.Error(t, err)
}

func TestReadSliceBounds(t *testing.T) {
	f := newTestFile(t)
	arr, err := f.Root().CreateArray("a", []int16{1, 2, 3, 4}, WithShape(2, 2))
	require.NoError(t, err)

	_, err = arr.ReadSlice([]uint64{1, 0}, []uint64{2, 1})
	assert.Error(t, err)
	_, err = arr.ReadSlice([]uint64{0}, []uint64{1})
	assert.Error(t, err)

	empty, err := arr.ReadSlice([]uint64{0, 0}, []uint64{0, 2})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEmptyArray(t *testing.T) {
	f := newTestFile(t)
	arr, err := f.Root().CreateArray("a", []int16{}, WithShape(0, 3))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), arr.NumElements())

	got, err := arr.ReadInt16()
	require.NoError(t, err)
	assert.Empty(t, got)
}
