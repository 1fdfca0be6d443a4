package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdRoundtrip(t *testing.T) {
	original := bytes.Repeat([]byte("Hello, World! This is test data for compression testing."), 50)

	for level := 1; level <= 4; level++ {
		f, err := NewZstd(level)
		require.NoError(t, err)

		compressed, err := f.Encode(original)
		require.NoError(t, err)
		assert.Less(t, len(compressed), len(original))

		decompressed, err := f.Decode(compressed)
		require.NoError(t, err)
		assert.Equal(t, original, decompressed)
	}
}

func TestZstdLevel(t *testing.T) {
	f, err := NewZstd(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultZstdLevel, f.Level())
	assert.Equal(t, IDZstd, f.ID())

	_, err = NewZstd(9)
	assert.Error(t, err)
}

func TestZstdCorrupt(t *testing.T) {
	f, err := NewZstd(1)
	require.NoError(t, err)
	_, err = f.Decode([]byte("definitely not zstd"))
	assert.Error(t, err)
}

func TestShuffleUnshuffle(t *testing.T) {
	// Test data: 4 elements of 4 bytes each
	// Original: [A0 A1 A2 A3] [B0 B1 B2 B3] [C0 C1 C2 C3] [D0 D1 D2 D3]
	// Shuffled: [A0 B0 C0 D0] [A1 B1 C1 D1] [A2 B2 C2 D2] [A3 B3 C3 D3]
	original := []byte{
		0x01, 0x02, 0x03, 0x04, // Element 0
		0x11, 0x12, 0x13, 0x14, // Element 1
		0x21, 0x22, 0x23, 0x24, // Element 2
		0x31, 0x32, 0x33, 0x34, // Element 3
	}
	shuffled := []byte{
		0x01, 0x11, 0x21, 0x31, // All byte 0s
		0x02, 0x12, 0x22, 0x32, // All byte 1s
		0x03, 0x13, 0x23, 0x33, // All byte 2s
		0x04, 0x14, 0x24, 0x34, // All byte 3s
	}

	f := NewShuffle(4)
	got, err := f.Encode(original)
	require.NoError(t, err)
	assert.Equal(t, shuffled, got)

	back, err := f.Decode(shuffled)
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestShuffleSingleByte(t *testing.T) {
	f := NewShuffle(1)
	input := []byte{1, 2, 3}
	got, err := f.Encode(input)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestShuffleTrailingBytes(t *testing.T) {
	f := NewShuffle(2)
	input := []byte{1, 2, 3, 4, 5}
	enc, err := f.Encode(input)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 3, 2, 4, 5}, enc)

	dec, err := f.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, input, dec)
}

func TestFletcher32Filter(t *testing.T) {
	f := NewFletcher32()
	data := []byte("checksummed chunk")

	enc, err := f.Encode(data)
	require.NoError(t, err)
	assert.Len(t, enc, len(data)+4)

	dec, err := f.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, data, dec)

	enc[0] ^= 0xFF
	_, err = f.Decode(enc)
	assert.ErrorContains(t, err, "checksum mismatch")

	_, err = f.Decode([]byte{1, 2})
	assert.Error(t, err)
}

func TestNewUnknownCodec(t *testing.T) {
	_, err := New(Config{ID: "blosc"})
	assert.ErrorContains(t, err, "unsupported codec")
}

func TestPipeline(t *testing.T) {
	tests := []struct {
		name       string
		filters    []Config
		compressor *Config
		length     int
	}{
		{"empty", nil, nil, 0},
		{"zstd only", nil, &Config{ID: IDZstd, Level: 2}, 1},
		{"shuffle zstd", []Config{{ID: IDShuffle, ElementSize: 2}}, &Config{ID: IDZstd}, 2},
		{"shuffle fletcher zstd", []Config{{ID: IDShuffle, ElementSize: 4}, {ID: IDFletcher32}}, &Config{ID: IDZstd, Level: 4}, 3},
	}

	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 7)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPipeline(tt.filters, tt.compressor)
			require.NoError(t, err)
			assert.Equal(t, tt.length, p.Len())
			assert.Equal(t, tt.length == 0, p.Empty())

			enc, err := p.Encode(data)
			require.NoError(t, err)
			dec, err := p.Decode(enc)
			require.NoError(t, err)
			assert.Equal(t, data, dec)
		})
	}
}

func TestPipelineBadConfig(t *testing.T) {
	_, err := NewPipeline([]Config{{ID: "nope"}}, nil)
	assert.Error(t, err)
	_, err = NewPipeline(nil, &Config{ID: IDZstd, Level: 99})
	assert.Error(t, err)
}
