package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// iota16 returns n little-endian uint16 values 0..n-1.
func iota16(n int) []byte {
	out := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		out[2*i] = byte(i)
		out[2*i+1] = byte(i >> 8)
	}
	return out
}

func TestNewGrid(t *testing.T) {
	_, err := NewGrid([]uint64{10, 2}, []uint64{4})
	assert.Error(t, err)
	_, err = NewGrid([]uint64{10}, []uint64{0})
	assert.Error(t, err)

	g, err := NewGrid([]uint64{10, 3}, []uint64{4, 2})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2}, g.NumChunks())
	assert.Equal(t, uint64(8), g.ChunkElements())
}

func TestKeys(t *testing.T) {
	g := Grid{Shape: []uint64{10, 3}, Chunks: []uint64{4, 2}}
	assert.Equal(t, "2.1", g.Key([]uint64{2, 1}))
	assert.Equal(t, "0", g.Key(nil))

	coords, err := ParseKey("2.1")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1}, coords)

	_, err = ParseKey("a.1")
	assert.Error(t, err)
}

func TestOverlapping(t *testing.T) {
	g := Grid{Shape: []uint64{10, 6}, Chunks: []uint64{4, 4}}

	tests := []struct {
		name         string
		start, count []uint64
		want         [][]uint64
	}{
		{"single chunk", []uint64{0, 0}, []uint64{2, 2}, [][]uint64{{0, 0}}},
		{"row span", []uint64{3, 0}, []uint64{2, 1}, [][]uint64{{0, 0}, {1, 0}}},
		{"all", []uint64{0, 0}, []uint64{10, 6}, [][]uint64{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}},
		{"empty", []uint64{0, 0}, []uint64{0, 6}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Overlapping(tt.start, tt.count))
		})
	}
}

func TestCheckSelection(t *testing.T) {
	g := Grid{Shape: []uint64{10, 6}, Chunks: []uint64{4, 4}}
	assert.NoError(t, g.CheckSelection([]uint64{0, 0}, []uint64{10, 6}))
	assert.Error(t, g.CheckSelection([]uint64{5, 0}, []uint64{6, 1}))
	assert.Error(t, g.CheckSelection([]uint64{0}, []uint64{1}))
	assert.Error(t, g.CheckSelection([]uint64{11, 0}, []uint64{0, 1}))
	// start+count wraps around to a value inside the shape
	assert.Error(t, g.CheckSelection([]uint64{1 << 63, 0}, []uint64{1 << 63, 1}))
}

func TestExtractHyperslab(t *testing.T) {
	// 4x3 array of uint16 values 0..11
	data := iota16(12)
	out, err := ExtractHyperslab(data, []uint64{4, 3}, []uint64{1, 1}, []uint64{2, 2}, 2)
	require.NoError(t, err)
	// Rows 1-2, cols 1-2 -> 4, 5, 7, 8
	assert.Equal(t, []byte{4, 0, 5, 0, 7, 0, 8, 0}, out)

	_, err = ExtractHyperslab(data, nil, nil, nil, 2)
	assert.Error(t, err)
}

func TestSplitAndReassemble(t *testing.T) {
	shapes := []struct {
		name   string
		shape  []uint64
		chunks []uint64
	}{
		{"1d even", []uint64{12}, []uint64{4}},
		{"1d ragged", []uint64{10}, []uint64{4}},
		{"2d ragged", []uint64{7, 5}, []uint64{3, 2}},
		{"2d single", []uint64{4, 3}, []uint64{8, 8}},
		{"3d", []uint64{3, 4, 5}, []uint64{2, 3, 2}},
	}

	for _, tt := range shapes {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.shape, tt.chunks)
			require.NoError(t, err)

			n := 1
			for _, d := range tt.shape {
				n *= int(d)
			}
			data := iota16(n)

			chunks := SplitIntoChunks(data, g, 2)
			assert.Len(t, chunks, len(g.All()))
			for _, c := range chunks {
				assert.Len(t, c.Data, int(g.ChunkElements())*2)
			}

			// Reassemble the whole array and a partial selection
			start := make([]uint64, len(tt.shape))
			out := make([]byte, len(data))
			for _, c := range chunks {
				require.NoError(t, CopyChunkToSlice(out, c.Data, g.Origin(c.Coords), tt.shape, tt.chunks, start, tt.shape, 2))
			}
			assert.Equal(t, data, out)

			selStart := make([]uint64, len(tt.shape))
			selCount := make([]uint64, len(tt.shape))
			for d := range tt.shape {
				selStart[d] = tt.shape[d] / 3
				selCount[d] = tt.shape[d] - selStart[d] - tt.shape[d]/4
			}
			want, err := ExtractHyperslab(data, tt.shape, selStart, selCount, 2)
			require.NoError(t, err)

			got := make([]byte, len(want))
			for _, coords := range g.Overlapping(selStart, selCount) {
				var chunk []byte
				for _, c := range chunks {
					if g.Key(c.Coords) == g.Key(coords) {
						chunk = c.Data
					}
				}
				require.NotNil(t, chunk)
				require.NoError(t, CopyChunkToSlice(got, chunk, g.Origin(coords), tt.shape, tt.chunks, selStart, selCount, 2))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestDefaultChunks(t *testing.T) {
	assert.Equal(t, []uint64{1000, 4}, DefaultChunks([]uint64{100000, 4}, 2, 8000))
	assert.Equal(t, []uint64{10, 4}, DefaultChunks([]uint64{10, 4}, 2, 8000))
	assert.Equal(t, []uint64{1}, DefaultChunks([]uint64{0}, 1, 8000))
	assert.Equal(t, []uint64{4000}, DefaultChunks([]uint64{1 << 20}, 2, 8000))
}
