// Package layout provides chunk grid arithmetic for chunked array storage.
//
// An N-dimensional array of shape S is split into a regular grid of chunks
// of shape C. Chunk (c0, c1, ...) covers the elements [ci*Ci, (ci+1)*Ci) in
// every dimension i; chunks on the upper edge of the array are clipped to
// the array bounds when read but are always stored at full chunk size,
// padded with the fill value.
//
// # Chunk Keys
//
// A chunk is identified by its grid coordinates joined with dots, e.g.
// "0.3" for the chunk in grid row 0, grid column 3 of a 2-D array. This is
// the Zarr v2 key convention.
//
// # Reading a Selection
//
// [Grid.Overlapping] lists the chunks that intersect a hyperslab
// selection (start, count). [CopyChunkToSlice] copies the intersecting
// part of one decoded chunk into the output buffer of the selection, so a
// read touches only the chunks it needs:
//
//	for _, coords := range grid.Overlapping(start, count) {
//	    chunk := load(grid.Key(coords))
//	    layout.CopyChunkToSlice(out, chunk, grid.Origin(coords), shape, chunks, start, count, elemSize)
//	}
//
// # Writing
//
// [SplitIntoChunks] cuts a row-major buffer into full-size chunks keyed by
// their grid coordinates.
//
// # Key Types
//
//   - [Grid]: Chunk grid for an array shape and chunk shape
//   - [ExtractHyperslab]: Copies a rectangular region out of a row-major buffer
//   - [CopyChunkToSlice]: Copies the overlap of a chunk into a selection buffer
//   - [SplitIntoChunks]: Splits a row-major buffer into chunks
package layout
