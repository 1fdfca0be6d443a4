package store

import (
	"github.com/rs/zerolog"

	"github.com/robert-malhotra/go-rkns/internal/codec"
	"github.com/robert-malhotra/go-rkns/internal/dtype"
)

// DType is an array element type tag such as "<i2".
type DType = dtype.DType

// Supported element types.
const (
	Uint8   = dtype.Uint8
	Int8    = dtype.Int8
	Int16   = dtype.Int16
	Uint16  = dtype.Uint16
	Int32   = dtype.Int32
	Uint32  = dtype.Uint32
	Int64   = dtype.Int64
	Uint64  = dtype.Uint64
	Float32 = dtype.Float32
	Float64 = dtype.Float64
)

// DefaultChunkBytes is the target size of an automatically chunked array.
const DefaultChunkBytes = 1 << 20

// FileOption configures Open.
type FileOption func(*fileOptions)

type fileOptions struct {
	logger zerolog.Logger
}

func defaultFileOptions() *fileOptions {
	return &fileOptions{
		logger: zerolog.Nop(),
	}
}

// WithLogger sets the logger used for store events.
func WithLogger(l zerolog.Logger) FileOption {
	return func(o *fileOptions) {
		o.logger = l
	}
}

// ArrayOption configures array creation.
type ArrayOption func(*arrayOptions)

// attrDef holds an attribute definition for creation.
type attrDef struct {
	name  string
	value interface{}
}

type arrayOptions struct {
	shape          []uint64
	chunks         []uint64
	dtype          DType
	compress       bool
	compressionLvl int
	shuffle        bool
	checksum       bool
	attributes     []attrDef
}

func defaultArrayOptions() *arrayOptions {
	return &arrayOptions{
		compress:       true,
		compressionLvl: codec.DefaultZstdLevel,
	}
}

// WithShape sets the array dimensions. The data is read as a flat row-major
// buffer whose length must match the product of dims.
func WithShape(dims ...uint64) ArrayOption {
	return func(o *arrayOptions) {
		o.shape = dims
	}
}

// WithChunks sets the chunk dimensions.
func WithChunks(dims ...uint64) ArrayOption {
	return func(o *arrayOptions) {
		o.chunks = dims
	}
}

// WithDType stores the data with element type d instead of the type
// inferred from the Go slice.
func WithDType(d DType) ArrayOption {
	return func(o *arrayOptions) {
		o.dtype = d
	}
}

// WithCompression sets the zstd compression level (1-4, 0 = default).
func WithCompression(level int) ArrayOption {
	return func(o *arrayOptions) {
		if level >= 0 && level <= 4 {
			o.compress = true
			o.compressionLvl = level
		}
	}
}

// WithNoCompression stores chunks uncompressed.
func WithNoCompression() ArrayOption {
	return func(o *arrayOptions) {
		o.compress = false
	}
}

// WithShuffle enables the byte shuffle filter (improves compression).
func WithShuffle() ArrayOption {
	return func(o *arrayOptions) {
		o.shuffle = true
	}
}

// WithChecksum enables a Fletcher32 checksum on every chunk.
func WithChecksum() ArrayOption {
	return func(o *arrayOptions) {
		o.checksum = true
	}
}

// WithAttribute adds an attribute to the array.
// The value must be JSON-encodable.
// Multiple WithAttribute options can be used to add multiple attributes.
func WithAttribute(name string, value interface{}) ArrayOption {
	return func(o *arrayOptions) {
		o.attributes = append(o.attributes, attrDef{name: name, value: value})
	}
}
