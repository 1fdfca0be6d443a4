package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Grid describes how an array of Shape is divided into chunks of Chunks.
type Grid struct {
	Shape  []uint64
	Chunks []uint64
}

// NewGrid validates shape and chunk dimensions and returns a grid.
func NewGrid(shape, chunks []uint64) (Grid, error) {
	if len(shape) != len(chunks) {
		return Grid{}, fmt.Errorf("chunk rank %d does not match array rank %d", len(chunks), len(shape))
	}
	for d, c := range chunks {
		if c == 0 {
			return Grid{}, fmt.Errorf("chunk dimension %d is zero", d)
		}
	}
	return Grid{Shape: shape, Chunks: chunks}, nil
}

// NumChunks returns the number of chunks along each dimension.
func (g Grid) NumChunks() []uint64 {
	n := make([]uint64, len(g.Shape))
	for d := range g.Shape {
		n[d] = (g.Shape[d] + g.Chunks[d] - 1) / g.Chunks[d]
	}
	return n
}

// ChunkElements returns the number of elements in one full chunk.
func (g Grid) ChunkElements() uint64 {
	n := uint64(1)
	for _, c := range g.Chunks {
		n *= c
	}
	return n
}

// Key returns the storage key suffix of the chunk at coords.
func (g Grid) Key(coords []uint64) string {
	if len(coords) == 0 {
		return "0"
	}
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = strconv.FormatUint(c, 10)
	}
	return strings.Join(parts, ".")
}

// ParseKey parses a chunk key produced by Key.
func ParseKey(key string) ([]uint64, error) {
	parts := strings.Split(key, ".")
	coords := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chunk key %q: %w", key, err)
		}
		coords[i] = v
	}
	return coords, nil
}

// Origin returns the array coordinates of the first element of the chunk at coords.
func (g Grid) Origin(coords []uint64) []uint64 {
	origin := make([]uint64, len(coords))
	for d, c := range coords {
		origin[d] = c * g.Chunks[d]
	}
	return origin
}

// Overlapping returns the grid coordinates of every chunk that intersects
// the selection [start, start+count), in row-major order.
func (g Grid) Overlapping(start, count []uint64) [][]uint64 {
	ndims := len(g.Shape)
	if ndims == 0 {
		return nil
	}

	first := make([]uint64, ndims)
	last := make([]uint64, ndims)
	for d := 0; d < ndims; d++ {
		if count[d] == 0 {
			return nil
		}
		first[d] = start[d] / g.Chunks[d]
		last[d] = (start[d] + count[d] - 1) / g.Chunks[d]
	}

	var out [][]uint64
	cur := make([]uint64, ndims)
	copy(cur, first)
	for {
		coords := make([]uint64, ndims)
		copy(coords, cur)
		out = append(out, coords)

		// Advance like an odometer, innermost dimension fastest
		d := ndims - 1
		for d >= 0 {
			cur[d]++
			if cur[d] <= last[d] {
				break
			}
			cur[d] = first[d]
			d--
		}
		if d < 0 {
			return out
		}
	}
}

// All returns the coordinates of every chunk in the grid.
func (g Grid) All() [][]uint64 {
	count := make([]uint64, len(g.Shape))
	start := make([]uint64, len(g.Shape))
	for d := range g.Shape {
		if g.Shape[d] == 0 {
			return nil
		}
		count[d] = g.Shape[d]
	}
	return g.Overlapping(start, count)
}

// CheckSelection validates that [start, start+count) lies inside the array.
func (g Grid) CheckSelection(start, count []uint64) error {
	ndims := len(g.Shape)
	if len(start) != ndims || len(count) != ndims {
		return fmt.Errorf("start and count must have %d dimensions, got %d and %d",
			ndims, len(start), len(count))
	}
	for d := 0; d < ndims; d++ {
		if start[d] > g.Shape[d] || count[d] > g.Shape[d]-start[d] {
			return fmt.Errorf("slice out of bounds: dimension %d, start=%d, count=%d, size=%d",
				d, start[d], count[d], g.Shape[d])
		}
	}
	return nil
}

// DefaultChunks picks chunk dimensions that keep a chunk near targetBytes.
// Only the first dimension is split; trailing dimensions are kept whole.
func DefaultChunks(shape []uint64, elementSize int, targetBytes int) []uint64 {
	chunks := make([]uint64, len(shape))
	if len(shape) == 0 {
		return chunks
	}
	rowBytes := uint64(elementSize)
	for d := 1; d < len(shape); d++ {
		chunks[d] = max(shape[d], 1)
		rowBytes *= chunks[d]
	}
	rows := uint64(targetBytes) / max(rowBytes, 1)
	rows = max(rows, 1)
	chunks[0] = max(min(rows, shape[0]), 1)
	return chunks
}
