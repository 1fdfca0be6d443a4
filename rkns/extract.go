package rkns

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-rkns/store"
)

const frequencyGroupPrefix = "fg_"

// RoundRate rounds a sampling rate to one decimal, half away from zero.
func RoundRate(hz float64) float64 {
	return math.Round(hz*10) / 10
}

// FrequencyGroupTag returns the group name for a sampling rate, for
// example "fg_256.0" or "fg_0.5".
func FrequencyGroupTag(hz float64) string {
	s := strconv.FormatFloat(RoundRate(hz), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return frequencyGroupPrefix + s
}

// parseGroupRate returns the rate encoded in a group name.
func parseGroupRate(tag string) (float64, bool) {
	if !strings.HasPrefix(tag, frequencyGroupPrefix) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(tag, frequencyGroupPrefix), 64)
	return v, err == nil
}

// FrequencyGroup is one extracted group, ready to be written.
type FrequencyGroup struct {
	Tag        string
	SampleRate float64
	Channels   []string
	DType      store.DType

	// Rows is the number of samples per channel.
	Rows int
	// Signal holds the digital codes row-major, shape (Rows, len(Channels)).
	Signal []int32
	// MinMax holds pmin, pmax, dmin, dmax row-major, shape (4, len(Channels)).
	MinMax []float64
}

// Extraction is the normalized zone content derived from a Source.
type Extraction struct {
	Groups      []FrequencyGroup
	ChannelInfo ChannelInfo
	Patient     PatientInfo
	Admin       AdminInfo
}

// Extract groups the channels of src by rounded sampling rate. Channel
// order is kept within a group, and groups are ordered by rate. With
// validate set every channel must span the same duration as the first,
// within one sample period of the faster channel.
func Extract(src *Source, validate bool) (*Extraction, error) {
	ext := &Extraction{
		ChannelInfo: make(ChannelInfo, len(src.Channels)),
		Patient:     src.Patient,
		Admin:       src.Admin,
	}
	if len(src.Channels) == 0 {
		return ext, nil
	}

	ref := src.Channels[0]
	ext.Admin.RecordingDuration = float64(len(ref.Samples)) / ref.SampleRate

	buckets := map[string][]int{}
	var order []string
	for i, ch := range src.Channels {
		if _, dup := ext.ChannelInfo[ch.Label]; dup {
			return nil, fmt.Errorf("%w: duplicate channel label %q", ErrValue, ch.Label)
		}
		if validate {
			if err := checkDuration(ref, ch); err != nil {
				return nil, err
			}
		}
		tag := FrequencyGroupTag(ch.SampleRate)
		if _, ok := buckets[tag]; !ok {
			order = append(order, tag)
		}
		buckets[tag] = append(buckets[tag], i)
		ext.ChannelInfo[ch.Label] = ChannelAttrs{
			Dimension:      ch.Dimension,
			Transducer:     ch.Transducer,
			Prefilter:      ch.Prefiltering,
			FrequencyGroup: tag,
		}
	}

	for _, tag := range order {
		g, err := stackGroup(src.Channels, buckets[tag], tag)
		if err != nil {
			return nil, err
		}
		ext.Groups = append(ext.Groups, g)
	}
	sort.SliceStable(ext.Groups, func(i, j int) bool {
		return ext.Groups[i].SampleRate < ext.Groups[j].SampleRate
	})
	return ext, nil
}

func checkDuration(ref, ch SourceChannel) error {
	d0 := float64(len(ref.Samples)) / ref.SampleRate
	d := float64(len(ch.Samples)) / ch.SampleRate
	if math.Abs(d-d0) < 1/math.Max(ch.SampleRate, ref.SampleRate) {
		return nil
	}
	return &DurationInconsistencyError{
		Channel:           ch.Label,
		Duration:          d,
		ReferenceChannel:  ref.Label,
		ReferenceDuration: d0,
	}
}

// stackGroup builds the sample and calibration matrices for the channels
// at idx.
func stackGroup(channels []SourceChannel, idx []int, tag string) (FrequencyGroup, error) {
	first := channels[idx[0]]
	g := FrequencyGroup{
		Tag:        tag,
		SampleRate: RoundRate(first.SampleRate),
		DType:      first.DType,
		Rows:       len(first.Samples),
		Channels:   make([]string, len(idx)),
	}
	cols := len(idx)
	g.Signal = make([]int32, g.Rows*cols)
	g.MinMax = make([]float64, 4*cols)

	for c, i := range idx {
		ch := channels[i]
		if len(ch.Samples) != g.Rows {
			return FrequencyGroup{}, &DurationInconsistencyError{
				Channel:           ch.Label,
				Duration:          float64(len(ch.Samples)) / ch.SampleRate,
				ReferenceChannel:  first.Label,
				ReferenceDuration: float64(g.Rows) / first.SampleRate,
			}
		}
		if dtypeWider(ch.DType, g.DType) {
			g.DType = ch.DType
		}
		g.Channels[c] = ch.Label
		for r, v := range ch.Samples {
			g.Signal[r*cols+c] = v
		}
		g.MinMax[0*cols+c] = ch.PhysicalMin
		g.MinMax[1*cols+c] = ch.PhysicalMax
		g.MinMax[2*cols+c] = ch.DigitalMin
		g.MinMax[3*cols+c] = ch.DigitalMax
	}
	if g.DType == "" {
		g.DType = store.Int32
	}
	return g, nil
}

func dtypeWider(a, b store.DType) bool {
	return a.Size() > b.Size()
}
