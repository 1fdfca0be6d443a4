package layout

import "fmt"

// ExtractHyperslab extracts a rectangular region from data stored in row-major order.
// dims is the full array dimensions, start and count specify the selection.
func ExtractHyperslab(data []byte, dims []uint64, start, count []uint64, elementSize uint64) ([]byte, error) {
	ndims := len(dims)
	if ndims == 0 {
		return nil, fmt.Errorf("cannot extract hyperslab from scalar array")
	}

	totalElements := uint64(1)
	for _, c := range count {
		totalElements *= c
	}

	result := make([]byte, totalElements*elementSize)
	if totalElements == 0 {
		return result, nil
	}

	srcStrides := strides(dims, elementSize)
	dstStrides := strides(count, elementSize)

	extractHyperslabRecursive(data, result, start, count,
		srcStrides, dstStrides, 0, 0, 0, ndims)
	return result, nil
}

// strides returns the row-major byte stride of each dimension.
func strides(dims []uint64, elementSize uint64) []uint64 {
	ndims := len(dims)
	s := make([]uint64, ndims)
	s[ndims-1] = elementSize
	for d := ndims - 2; d >= 0; d-- {
		s[d] = s[d+1] * dims[d+1]
	}
	return s
}

// extractHyperslabRecursive recursively copies hyperslab data.
func extractHyperslabRecursive(
	src, dst []byte,
	start, count []uint64,
	srcStrides, dstStrides []uint64,
	srcOffset, dstOffset uint64,
	dim, ndims int,
) {
	if dim == ndims-1 {
		// Innermost dimension - copy contiguously
		rowBytes := count[dim] * srcStrides[dim]
		srcStart := srcOffset + start[dim]*srcStrides[dim]
		if srcStart+rowBytes <= uint64(len(src)) && dstOffset+rowBytes <= uint64(len(dst)) {
			copy(dst[dstOffset:dstOffset+rowBytes], src[srcStart:srcStart+rowBytes])
		}
		return
	}

	for i := uint64(0); i < count[dim]; i++ {
		extractHyperslabRecursive(
			src, dst, start, count,
			srcStrides, dstStrides,
			srcOffset+(start[dim]+i)*srcStrides[dim],
			dstOffset+i*dstStrides[dim],
			dim+1, ndims,
		)
	}
}

// CopyChunkToSlice copies the overlapping portion of a chunk to the output slice.
//
// chunkData holds one full-size chunk in row-major order, chunkOffset is the
// array coordinate of its first element and dims the array shape. The
// selection is [selStart, selStart+selCount) and output is its row-major
// buffer. Chunks on the array edge are clipped to dims.
func CopyChunkToSlice(
	output []byte,
	chunkData []byte,
	chunkOffset []uint64,
	dims []uint64,
	chunkDims []uint64,
	selStart, selCount []uint64,
	elementSize uint64,
) error {
	ndims := len(dims)
	if len(chunkOffset) != ndims || len(chunkDims) != ndims {
		return fmt.Errorf("chunk rank does not match array rank %d", ndims)
	}

	// Calculate the overlap region in array coordinates
	overlapStart := make([]uint64, ndims)
	overlapEnd := make([]uint64, ndims)
	for d := 0; d < ndims; d++ {
		chunkEnd := min(chunkOffset[d]+chunkDims[d], dims[d])
		overlapStart[d] = max(selStart[d], chunkOffset[d])
		overlapEnd[d] = min(selStart[d]+selCount[d], chunkEnd)
		if overlapStart[d] >= overlapEnd[d] {
			return nil
		}
	}

	chunkStrides := strides(chunkDims, elementSize)
	outputStrides := strides(selCount, elementSize)

	copyOverlapRecursive(
		output, chunkData,
		overlapStart, overlapEnd,
		chunkOffset, selStart,
		chunkStrides, outputStrides,
		0, 0, 0, ndims,
	)
	return nil
}

// copyOverlapRecursive recursively copies the overlap region from chunk to output.
func copyOverlapRecursive(
	output, chunkData []byte,
	overlapStart, overlapEnd []uint64,
	chunkOffset, selStart []uint64,
	chunkStrides, outputStrides []uint64,
	chunkIdx, outputIdx uint64,
	dim, ndims int,
) {
	if dim == ndims-1 {
		// Innermost dimension - copy contiguously
		rowLen := overlapEnd[dim] - overlapStart[dim]
		rowBytes := rowLen * chunkStrides[dim]

		chunkPos := overlapStart[dim] - chunkOffset[dim]
		outputPos := overlapStart[dim] - selStart[dim]

		srcStart := chunkIdx + chunkPos*chunkStrides[dim]
		dstStart := outputIdx + outputPos*outputStrides[dim]

		if srcStart+rowBytes <= uint64(len(chunkData)) && dstStart+rowBytes <= uint64(len(output)) {
			copy(output[dstStart:dstStart+rowBytes], chunkData[srcStart:srcStart+rowBytes])
		}
		return
	}

	for i := overlapStart[dim]; i < overlapEnd[dim]; i++ {
		chunkPos := i - chunkOffset[dim]
		outputPos := i - selStart[dim]

		copyOverlapRecursive(
			output, chunkData,
			overlapStart, overlapEnd,
			chunkOffset, selStart,
			chunkStrides, outputStrides,
			chunkIdx+chunkPos*chunkStrides[dim],
			outputIdx+outputPos*outputStrides[dim],
			dim+1, ndims,
		)
	}
}
