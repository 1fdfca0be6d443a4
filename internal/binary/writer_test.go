package binary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteField(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteField("0", 8))
	require.NoError(t, w.WriteField("abcdefgh", 8))
	assert.Equal(t, "0       abcdefgh", buf.String())
	assert.Equal(t, int64(16), w.Pos())

	assert.Error(t, w.WriteField("too long", 4))
}

func TestSamplesRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		samples []int32
	}{
		{"int16", 2, []int32{-32768, -1, 0, 1, 32767}},
		{"int24", 3, []int32{-8388608, -2048, 0, 2047, 8388607}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			require.NoError(t, w.WriteSamples(tt.samples, tt.width))
			assert.Len(t, buf.Bytes(), len(tt.samples)*tt.width)

			r := NewReader(bytes.NewReader(buf.Bytes()))
			got, err := r.ReadSamples(len(tt.samples), tt.width)
			require.NoError(t, err)
			assert.Equal(t, tt.samples, got)
		})
	}
}
