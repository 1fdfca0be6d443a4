package rkns

import (
	"fmt"
	"math"
	"sort"

	"github.com/robert-malhotra/go-rkns/store"
)

// Matrix is a block of physical values, one column per channel, row-major.
type Matrix struct {
	Rows         int
	Cols         int
	Data         []float64
	Channels     []string
	SampleRateHz float64
}

// At returns the value at row r of column c.
func (m *Matrix) At(r, c int) float64 {
	return m.Data[r*m.Cols+c]
}

// Column copies out the samples of column c.
func (m *Matrix) Column(c int) []float64 {
	out := make([]float64, m.Rows)
	for r := range out {
		out[r] = m.Data[r*m.Cols+c]
	}
	return out
}

// MinMaxByFrequencyGroup returns the calibration rows pmin, pmax, dmin and
// dmax of a group, one entry per channel.
func (c *Container) MinMaxByFrequencyGroup(tag string) ([4][]float64, error) {
	var out [4][]float64
	if err := c.check(); err != nil {
		return out, err
	}
	fg, err := c.h.FrequencyGroup(tag)
	if err != nil {
		return out, err
	}
	arr, err := fg.OpenArray(minMaxArrayName)
	if err != nil {
		return out, storeErr(err)
	}
	shape := arr.Shape()
	if len(shape) != 2 || shape[0] != 4 {
		return out, &InconsistentGroupError{Path: arr.Path(), Reason: fmt.Sprintf("minmax shape %v", shape)}
	}
	data, err := arr.ReadFloat64()
	if err != nil {
		return out, storeErr(err)
	}
	cols := int(shape[1])
	for i := range out {
		out[i] = data[i*cols : (i+1)*cols]
	}
	return out, nil
}

// DigitalSignalByFrequencyGroup returns the stored array of digital codes.
func (c *Container) DigitalSignalByFrequencyGroup(tag string) (*store.Array, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	fg, err := c.h.FrequencyGroup(tag)
	if err != nil {
		return nil, err
	}
	arr, err := fg.OpenArray(signalArrayName)
	if err != nil {
		return nil, storeErr(err)
	}
	return arr, nil
}

// SignalByFrequencyGroup returns a lazy physical view of a group.
func (c *Container) SignalByFrequencyGroup(tag string) (*LazySignal, error) {
	arr, err := c.DigitalSignalByFrequencyGroup(tag)
	if err != nil {
		return nil, err
	}
	mm, err := c.MinMaxByFrequencyGroup(tag)
	if err != nil {
		return nil, err
	}
	l, err := NewLazySignal(arr, mm[0], mm[1], mm[2], mm[3])
	if err != nil {
		return nil, err
	}
	l.channels, err = c.h.ChannelsByFrequencyGroup(tag)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetSignal reads physical values for either a set of channels sharing
// one frequency group or every channel of a sampling rate. The rows
// covered are [floor(start*fs), ceil(end*fs)), clipped to the recording.
func (c *Container) GetSignal(opts ...SignalOption) (*Matrix, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	q := newSignalQuery(opts)
	switch {
	case len(q.channels) > 0 && q.hasRate:
		return nil, fmt.Errorf("%w: select by channels or by sample rate, not both", ErrValue)
	case len(q.channels) == 0 && !q.hasRate:
		return nil, fmt.Errorf("%w: no channels or sample rate selected", ErrValue)
	}
	if math.IsNaN(q.start) || math.IsNaN(q.end) || q.start < 0 || q.end < q.start {
		return nil, fmt.Errorf("%w: invalid time range [%g, %g)", ErrValue, q.start, q.end)
	}

	tag, err := c.resolveGroup(q)
	if err != nil {
		return nil, err
	}
	view, err := c.SignalByFrequencyGroup(tag)
	if err != nil {
		return nil, err
	}
	var fs float64
	fg, err := c.h.FrequencyGroup(tag)
	if err != nil {
		return nil, err
	}
	if err := fg.AttrInto(attrSampleRate, &fs); err != nil {
		return nil, storeErr(err)
	}

	names := q.channels
	if len(names) == 0 {
		names = view.Channels()
	}
	cols := make([]int, len(names))
	for i, name := range names {
		cols[i] = indexOf(view.Channels(), name)
		if cols[i] < 0 {
			return nil, fmt.Errorf("%w: channel %q not in %s", ErrKey, name, tag)
		}
	}

	r0, r1 := timeRows(q.start, q.end, fs, view.rows)
	out := &Matrix{
		Rows:         r1 - r0,
		Cols:         len(cols),
		Data:         make([]float64, (r1-r0)*len(cols)),
		Channels:     append([]string(nil), names...),
		SampleRateHz: fs,
	}
	for _, run := range columnRuns(cols) {
		block, err := view.read(r0, r1, run.lo, run.hi)
		if err != nil {
			return nil, err
		}
		width := run.hi - run.lo
		for r := 0; r < out.Rows; r++ {
			for j, col := range cols {
				if col >= run.lo && col < run.hi {
					out.Data[r*out.Cols+j] = block[r*width+col-run.lo]
				}
			}
		}
	}
	return out, nil
}

// resolveGroup finds the single frequency group a query refers to.
func (c *Container) resolveGroup(q *signalQuery) (string, error) {
	if q.hasRate {
		tag := FrequencyGroupTag(q.rate)
		names, err := c.FrequencyGroupNames()
		if err != nil {
			return "", err
		}
		if indexOf(names, tag) < 0 {
			return "", fmt.Errorf("%w: no frequency group for %g Hz", ErrKey, q.rate)
		}
		return tag, nil
	}

	info, err := c.ChannelInfo()
	if err != nil {
		return "", err
	}
	var tag string
	for _, name := range q.channels {
		attrs, ok := info[name]
		if !ok {
			return "", fmt.Errorf("%w: unknown channel %q", ErrKey, name)
		}
		if tag != "" && attrs.FrequencyGroup != tag {
			return "", fmt.Errorf("%w: channels span %s and %s", ErrValue, tag, attrs.FrequencyGroup)
		}
		tag = attrs.FrequencyGroup
	}
	return tag, nil
}

// columnRun is a half-open range of adjacent columns.
type columnRun struct {
	lo, hi int
}

// columnRuns merges the distinct columns of cols into runs of adjacent
// columns, so only the requested columns are read.
func columnRuns(cols []int) []columnRun {
	sorted := append([]int(nil), cols...)
	sort.Ints(sorted)
	var runs []columnRun
	for _, c := range sorted {
		n := len(runs)
		switch {
		case n > 0 && c < runs[n-1].hi:
			// duplicate
		case n > 0 && c == runs[n-1].hi:
			runs[n-1].hi++
		default:
			runs = append(runs, columnRun{lo: c, hi: c + 1})
		}
	}
	return runs
}

func timeRows(start, end, fs float64, n int) (int, int) {
	r0 := n
	if v := math.Floor(start * fs); v < float64(n) {
		r0 = int(v)
	}
	r1 := n
	if !math.IsInf(end, 1) {
		if v := math.Ceil(end * fs); v < float64(n) {
			r1 = int(v)
		}
	}
	if r1 < r0 {
		r1 = r0
	}
	return r0, r1
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
