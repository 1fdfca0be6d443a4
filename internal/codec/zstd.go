package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// DefaultZstdLevel is used when a zstd codec has no level configured.
const DefaultZstdLevel = int(zstd.SpeedDefault)

// Zstd implements Zstandard chunk compression.
type Zstd struct {
	level   int
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstd creates a zstd codec. level ranges from 1 (fastest) to 4 (best compression);
// 0 selects the default level.
func NewZstd(level int) (*Zstd, error) {
	if level == 0 {
		level = DefaultZstdLevel
	}
	if level < int(zstd.SpeedFastest) || level > int(zstd.SpeedBestCompression) {
		return nil, fmt.Errorf("zstd level %d out of range [%d, %d]",
			level, zstd.SpeedFastest, zstd.SpeedBestCompression)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevel(level)))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	return &Zstd{level: level, encoder: encoder, decoder: decoder}, nil
}

func (f *Zstd) ID() string {
	return IDZstd
}

// Level returns the encoder level.
func (f *Zstd) Level() int {
	return f.level
}

func (f *Zstd) Encode(input []byte) ([]byte, error) {
	return f.encoder.EncodeAll(input, make([]byte, 0, len(input)/2)), nil
}

func (f *Zstd) Decode(input []byte) ([]byte, error) {
	output, err := f.decoder.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return output, nil
}
