package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-rkns/internal/codec"
	"github.com/robert-malhotra/go-rkns/internal/dtype"
	"github.com/robert-malhotra/go-rkns/internal/layout"
)

// arrayMeta is the JSON document stored under .zarray.
type arrayMeta struct {
	ZarrFormat int            `json:"zarr_format"`
	Shape      []uint64       `json:"shape"`
	Chunks     []uint64       `json:"chunks"`
	DType      DType          `json:"dtype"`
	Compressor *codec.Config  `json:"compressor"`
	Filters    []codec.Config `json:"filters"`
	Order      string         `json:"order"`
	FillValue  int            `json:"fill_value"`
}

// Array is a typed n-dimensional array stored as chunks.
type Array struct {
	node
	meta     arrayMeta
	grid     layout.Grid
	pipeline *codec.Pipeline
}

// openArray loads array metadata at p.
func openArray(f *File, p string, readOnly bool) (*Array, error) {
	data, err := f.store.Get(keyPrefix(p) + arrayKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, fmt.Errorf("array %s: %w", p, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading array %s: %w", p, err)
	}

	var meta arrayMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decoding array %s: %w", p, err)
	}
	return newArray(f, p, readOnly, meta)
}

func newArray(f *File, p string, readOnly bool, meta arrayMeta) (*Array, error) {
	if _, err := dtype.Parse(string(meta.DType)); err != nil {
		return nil, fmt.Errorf("array %s: %w", p, err)
	}
	if meta.Order != "" && meta.Order != "C" {
		return nil, fmt.Errorf("array %s: unsupported order %q", p, meta.Order)
	}

	grid, err := layout.NewGrid(meta.Shape, meta.Chunks)
	if err != nil {
		return nil, fmt.Errorf("array %s: %w", p, err)
	}
	pipeline, err := codec.NewPipeline(meta.Filters, meta.Compressor)
	if err != nil {
		return nil, fmt.Errorf("array %s: %w", p, err)
	}

	return &Array{
		node:     node{file: f, path: p, readOnly: readOnly},
		meta:     meta,
		grid:     grid,
		pipeline: pipeline,
	}, nil
}

// Shape returns the dimensions of the array.
func (a *Array) Shape() []uint64 {
	out := make([]uint64, len(a.meta.Shape))
	copy(out, a.meta.Shape)
	return out
}

// Rank returns the number of dimensions.
func (a *Array) Rank() int {
	return len(a.meta.Shape)
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() uint64 {
	n := uint64(1)
	for _, d := range a.meta.Shape {
		n *= d
	}
	return n
}

// DType returns the element type.
func (a *Array) DType() DType {
	return a.meta.DType
}

// ElementSize returns the size of each element in bytes.
func (a *Array) ElementSize() int {
	return a.meta.DType.Size()
}

// Chunks returns the chunk dimensions.
func (a *Array) Chunks() []uint64 {
	out := make([]uint64, len(a.meta.Chunks))
	copy(out, a.meta.Chunks)
	return out
}

// Compressor returns the compressor id and level, or "" when chunks are
// stored uncompressed.
func (a *Array) Compressor() (string, int) {
	if a.meta.Compressor == nil {
		return "", 0
	}
	return a.meta.Compressor.ID, a.meta.Compressor.Level
}

// Filters returns the ids of the filters applied before compression.
func (a *Array) Filters() []string {
	ids := make([]string, len(a.meta.Filters))
	for i, f := range a.meta.Filters {
		ids[i] = f.ID
	}
	return ids
}

// readChunk returns the decoded chunk at coords. Missing chunks read as
// the fill value.
func (a *Array) readChunk(coords []uint64) ([]byte, error) {
	size := a.grid.ChunkElements() * uint64(a.ElementSize())
	key := keyPrefix(a.path) + a.grid.Key(coords)

	data, err := a.file.store.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return make([]byte, size), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading chunk %s: %w", key, err)
	}

	decoded, err := a.pipeline.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding chunk %s: %w", key, err)
	}
	if uint64(len(decoded)) != size {
		return nil, fmt.Errorf("chunk %s: decoded %d bytes, want %d", key, len(decoded), size)
	}
	return decoded, nil
}

// ReadSlice reads the region [start, start+count) as raw little-endian
// bytes. Only the chunks overlapping the region are loaded.
func (a *Array) ReadSlice(start, count []uint64) ([]byte, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	if err := a.grid.CheckSelection(start, count); err != nil {
		return nil, fmt.Errorf("%s: %w", a.path, err)
	}

	elementSize := uint64(a.ElementSize())
	total := uint64(1)
	for _, c := range count {
		total *= c
	}
	out := make([]byte, total*elementSize)
	if total == 0 {
		return out, nil
	}

	for _, coords := range a.grid.Overlapping(start, count) {
		chunk, err := a.readChunk(coords)
		if err != nil {
			return nil, err
		}
		err = layout.CopyChunkToSlice(out, chunk, a.grid.Origin(coords),
			a.meta.Shape, a.meta.Chunks, start, count, elementSize)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.path, err)
		}
	}
	return out, nil
}

// ReadRaw reads all data from the array as raw bytes.
func (a *Array) ReadRaw() ([]byte, error) {
	start := make([]uint64, a.Rank())
	return a.ReadSlice(start, a.meta.Shape)
}

// Read reads all data from the array into dest.
// dest should be a pointer to a slice of a numeric type.
func (a *Array) Read(dest interface{}) error {
	raw, err := a.ReadRaw()
	if err != nil {
		return fmt.Errorf("reading data: %w", err)
	}
	return dtype.Convert(a.meta.DType, raw, a.NumElements(), dest)
}

// ReadSliceInto reads a region and converts it into dest.
func (a *Array) ReadSliceInto(start, count []uint64, dest interface{}) error {
	raw, err := a.ReadSlice(start, count)
	if err != nil {
		return err
	}
	return dtype.Convert(a.meta.DType, raw, uint64(len(raw)/a.ElementSize()), dest)
}

// ReadFloat64Slice reads a region widened to float64.
func (a *Array) ReadFloat64Slice(start, count []uint64) ([]float64, error) {
	raw, err := a.ReadSlice(start, count)
	if err != nil {
		return nil, err
	}
	return dtype.ToFloat64(a.meta.DType, raw)
}

// ReadFloat64 reads the array as float64 values.
func (a *Array) ReadFloat64() ([]float64, error) {
	var result []float64
	err := a.Read(&result)
	return result, err
}

// ReadInt32 reads the array as int32 values.
func (a *Array) ReadInt32() ([]int32, error) {
	var result []int32
	err := a.Read(&result)
	return result, err
}

// ReadInt16 reads the array as int16 values.
func (a *Array) ReadInt16() ([]int16, error) {
	var result []int16
	err := a.Read(&result)
	return result, err
}

// ReadUint8 reads the array as uint8 values.
func (a *Array) ReadUint8() ([]uint8, error) {
	var result []uint8
	err := a.Read(&result)
	return result, err
}
