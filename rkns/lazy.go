package rkns

import (
	"fmt"

	"github.com/robert-malhotra/go-rkns/store"
)

// Index selects positions along one dimension of a LazySignal.
// It is one of At, Span or Ellipsis.
type Index interface {
	resolve(n int) (start, stop int, drop bool, err error)
}

// At selects a single position and drops the dimension from the result.
// Negative values count from the end.
type At int

func (a At) resolve(n int) (int, int, bool, error) {
	i := int(a)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, 0, false, fmt.Errorf("%w: index %d out of range for size %d", ErrIndex, int(a), n)
	}
	return i, i + 1, true, nil
}

// Span selects the half-open range [Start, Stop). Negative bounds count
// from the end and bounds past the end are clamped.
type Span struct {
	Start, Stop int
}

func (s Span) resolve(n int) (int, int, bool, error) {
	clamp := func(v int) int {
		if v < 0 {
			v += n
		}
		if v < 0 {
			return 0
		}
		if v > n {
			return n
		}
		return v
	}
	start, stop := clamp(s.Start), clamp(s.Stop)
	if stop < start {
		stop = start
	}
	return start, stop, false, nil
}

// Ellipsis selects the whole dimension.
type Ellipsis struct{}

func (Ellipsis) resolve(n int) (int, int, bool, error) {
	return 0, n, false, nil
}

// All is the full-dimension selection.
var All = Ellipsis{}

// Values holds physical values read from a LazySignal. Shape has one
// entry per dimension that was not selected with At, so a scalar result
// has an empty Shape and one value.
type Values struct {
	Shape []int
	Data  []float64
}

// Scalar returns the single value of a fully indexed result.
func (v *Values) Scalar() (float64, bool) {
	if len(v.Shape) != 0 || len(v.Data) != 1 {
		return 0, false
	}
	return v.Data[0], true
}

// LazySignal presents a stored (samples, channels) array of digital codes
// as physical values. Scale and bias are computed once; reads convert
// only the selected range.
type LazySignal struct {
	src      *store.Array
	rows     int
	cols     int
	m        []float64
	bias     []float64
	channels []string
}

// NewLazySignal wraps src, which must be two-dimensional with one column
// per entry of the calibration vectors.
func NewLazySignal(src *store.Array, pmin, pmax, dmin, dmax []float64) (*LazySignal, error) {
	shape := src.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: %s: signal has %d dimensions, want 2", ErrValue, src.Path(), len(shape))
	}
	cols := int(shape[1])
	for _, v := range [][]float64{pmin, pmax, dmin, dmax} {
		if len(v) != cols {
			return nil, fmt.Errorf("%w: %s: calibration has %d entries for %d channels", ErrValue, src.Path(), len(v), cols)
		}
	}
	l := &LazySignal{
		src:  src,
		rows: int(shape[0]),
		cols: cols,
		m:    make([]float64, cols),
		bias: make([]float64, cols),
	}
	for c := 0; c < cols; c++ {
		l.m[c] = (pmax[c] - pmin[c]) / (dmax[c] - dmin[c])
		l.bias[c] = pmax[c]/l.m[c] - dmax[c]
	}
	return l, nil
}

// Shape returns the number of samples and channels.
func (l *LazySignal) Shape() (rows, cols int) {
	return l.rows, l.cols
}

// Channels returns the channel names when known.
func (l *LazySignal) Channels() []string {
	return l.channels
}

// Scale returns the per-channel factor m.
func (l *LazySignal) Scale() []float64 {
	return append([]float64(nil), l.m...)
}

// Bias returns the per-channel offset added before scaling.
func (l *LazySignal) Bias() []float64 {
	return append([]float64(nil), l.bias...)
}

// Index reads the selection idx. No index or a single index selects rows
// over all channels; two select rows and channels.
func (l *LazySignal) Index(idx ...Index) (*Values, error) {
	var rowIdx, colIdx Index = All, All
	switch len(idx) {
	case 0:
	case 1:
		rowIdx = idx[0]
	case 2:
		rowIdx, colIdx = idx[0], idx[1]
	default:
		return nil, fmt.Errorf("%w: %d indices for a 2-dimensional signal", ErrIndex, len(idx))
	}
	if rowIdx == nil || colIdx == nil {
		return nil, fmt.Errorf("%w: nil index", ErrIndex)
	}

	r0, r1, dropRow, err := rowIdx.resolve(l.rows)
	if err != nil {
		return nil, err
	}
	c0, c1, dropCol, err := colIdx.resolve(l.cols)
	if err != nil {
		return nil, err
	}

	data, err := l.read(r0, r1, c0, c1)
	if err != nil {
		return nil, err
	}
	out := &Values{Data: data}
	if !dropRow {
		out.Shape = append(out.Shape, r1-r0)
	}
	if !dropCol {
		out.Shape = append(out.Shape, c1-c0)
	}
	return out, nil
}

// At returns the physical value at one sample of one channel.
func (l *LazySignal) At(row, col int) (float64, error) {
	v, err := l.Index(At(row), At(col))
	if err != nil {
		return 0, err
	}
	x, _ := v.Scalar()
	return x, nil
}

// ReadAll materializes the whole signal, row-major.
func (l *LazySignal) ReadAll() ([]float64, error) {
	return l.read(0, l.rows, 0, l.cols)
}

// read converts rows [r0,r1) of columns [c0,c1), row-major.
func (l *LazySignal) read(r0, r1, c0, c1 int) ([]float64, error) {
	nr, nc := r1-r0, c1-c0
	if nr == 0 || nc == 0 {
		return []float64{}, nil
	}
	data, err := l.src.ReadFloat64Slice(
		[]uint64{uint64(r0), uint64(c0)},
		[]uint64{uint64(nr), uint64(nc)},
	)
	if err != nil {
		return nil, storeErr(err)
	}
	for r := 0; r < nr; r++ {
		row := data[r*nc : (r+1)*nc]
		for j := range row {
			c := c0 + j
			row[j] = l.m[c] * (row[j] + l.bias[c])
		}
	}
	return data, nil
}
