package store

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/robert-malhotra/go-rkns/internal/codec"
	"github.com/robert-malhotra/go-rkns/internal/dtype"
	"github.com/robert-malhotra/go-rkns/internal/layout"
)

// CreateArray creates a new array with the given name and data.
// data is a flat slice (or a single value) in row-major order. The element
// type is inferred from the Go type unless WithDType is given, and the shape
// defaults to one dimension unless WithShape is given.
func (g *Group) CreateArray(name string, data interface{}, opts ...ArrayOption) (*Array, error) {
	if err := g.checkWritable(); err != nil {
		return nil, err
	}
	parts := SplitPath(name)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: array name cannot be empty", ErrInvalidPath)
	}
	for _, part := range parts {
		if err := validName(part); err != nil {
			return nil, err
		}
	}

	options := defaultArrayOptions()
	for _, opt := range opts {
		opt(options)
	}

	// Parent groups are created on demand
	parent := g
	if len(parts) > 1 {
		var err error
		parent, err = g.RequireGroup(parts[0])
		if err != nil {
			return nil, err
		}
		for _, part := range parts[1 : len(parts)-1] {
			parent, err = parent.RequireGroup(part)
			if err != nil {
				return nil, err
			}
		}
	}
	p := JoinPath(parent.path, parts[len(parts)-1])

	kind, err := g.file.kindAt(p)
	if err != nil {
		return nil, err
	}
	if kind != KindNone {
		return nil, fmt.Errorf("%s: %w", p, ErrExists)
	}

	// Determine the element type
	dataVal := reflect.ValueOf(data)
	if dataVal.Kind() == reflect.Ptr {
		dataVal = dataVal.Elem()
	}
	if !dataVal.IsValid() {
		return nil, fmt.Errorf("array %s: nil data", p)
	}
	elemType := dataVal.Type()
	n := uint64(1)
	if dataVal.Kind() == reflect.Slice || dataVal.Kind() == reflect.Array {
		elemType = elemType.Elem()
		n = uint64(dataVal.Len())
	}

	dt := options.dtype
	if dt == "" {
		dt, err = dtype.FromGoType(elemType)
		if err != nil {
			return nil, fmt.Errorf("array %s: %w", p, err)
		}
	} else if _, err := dtype.Parse(string(dt)); err != nil {
		return nil, fmt.Errorf("array %s: %w", p, err)
	}

	raw, err := dtype.Encode(dt, dataVal.Interface())
	if err != nil {
		return nil, fmt.Errorf("encoding data: %w", err)
	}

	shape := options.shape
	if shape == nil {
		shape = []uint64{n}
	}
	total := uint64(1)
	for _, d := range shape {
		total *= d
	}
	if total != n {
		return nil, fmt.Errorf("%w: %s has %d elements, shape %v needs %d", ErrShape, p, n, shape, total)
	}

	chunks := options.chunks
	if chunks == nil {
		chunks = layout.DefaultChunks(shape, dt.Size(), DefaultChunkBytes)
	}

	meta := arrayMeta{
		ZarrFormat: zarrFormat,
		Shape:      shape,
		Chunks:     chunks,
		DType:      dt,
		Order:      "C",
	}
	if options.shuffle && dt.Size() > 1 {
		meta.Filters = append(meta.Filters, codec.Config{ID: codec.IDShuffle, ElementSize: dt.Size()})
	}
	if options.checksum {
		meta.Filters = append(meta.Filters, codec.Config{ID: codec.IDFletcher32})
	}
	if options.compress {
		meta.Compressor = &codec.Config{ID: codec.IDZstd, Level: options.compressionLvl}
	}

	arr, err := newArray(g.file, p, false, meta)
	if err != nil {
		return nil, err
	}

	if err := arr.writeMeta(); err != nil {
		return nil, err
	}
	if err := arr.writeChunks(raw); err != nil {
		return nil, err
	}

	if len(options.attributes) > 0 {
		attrs := make(map[string]interface{}, len(options.attributes))
		for _, a := range options.attributes {
			attrs[a.name] = a.value
		}
		if err := arr.SetAttrs(attrs); err != nil {
			return nil, fmt.Errorf("writing attributes: %w", err)
		}
	}

	g.file.log.Debug().
		Str("path", p).
		Str("dtype", string(dt)).
		Interface("shape", shape).
		Interface("chunks", chunks).
		Msg("array created")
	return arr, nil
}

func (a *Array) writeMeta() error {
	data, err := json.Marshal(a.meta)
	if err != nil {
		return fmt.Errorf("encoding array %s: %w", a.path, err)
	}
	if err := a.file.store.Set(keyPrefix(a.path)+arrayKey, data); err != nil {
		return fmt.Errorf("writing array %s: %w", a.path, err)
	}
	return nil
}

// writeChunks splits raw into chunks, encodes and stores each one.
func (a *Array) writeChunks(raw []byte) error {
	prefix := keyPrefix(a.path)
	for _, c := range layout.SplitIntoChunks(raw, a.grid, uint64(a.ElementSize())) {
		encoded, err := a.pipeline.Encode(c.Data)
		if err != nil {
			return fmt.Errorf("encoding chunk %v of %s: %w", c.Coords, a.path, err)
		}
		if err := a.file.store.Set(prefix+a.grid.Key(c.Coords), encoded); err != nil {
			return fmt.Errorf("writing chunk %v of %s: %w", c.Coords, a.path, err)
		}
	}
	return nil
}
