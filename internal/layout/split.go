package layout

// Chunk is one encoded-ready piece of an array.
type Chunk struct {
	Coords []uint64
	Data   []byte
}

// SplitIntoChunks splits row-major data into full-size chunks.
// Edge chunks are padded with zero bytes up to the full chunk shape.
func SplitIntoChunks(data []byte, g Grid, elementSize uint64) []Chunk {
	all := g.All()
	chunks := make([]Chunk, 0, len(all))
	chunkBytes := g.ChunkElements() * elementSize

	for _, coords := range all {
		buf := make([]byte, chunkBytes)
		origin := g.Origin(coords)

		// The chunk is a selection of the source array whose output buffer
		// is shaped like a full chunk.
		count := make([]uint64, len(g.Shape))
		for d := range g.Shape {
			count[d] = min(g.Chunks[d], g.Shape[d]-origin[d])
		}
		srcStrides := strides(g.Shape, elementSize)
		dstStrides := strides(g.Chunks, elementSize)
		extractHyperslabRecursive(data, buf, origin, count,
			srcStrides, dstStrides, 0, 0, 0, len(g.Shape))

		chunks = append(chunks, Chunk{Coords: coords, Data: buf})
	}
	return chunks
}
