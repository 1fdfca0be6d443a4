package rkns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-rkns/store"
)

func TestFrequencyGroupTag(t *testing.T) {
	tests := []struct {
		hz   float64
		want string
	}{
		{256, "fg_256.0"},
		{255.96, "fg_256.0"},
		{0.05, "fg_0.1"},
		{0.5, "fg_0.5"},
		{1, "fg_1.0"},
		{12.5, "fg_12.5"},
		{99.949, "fg_99.9"},
		{99.951, "fg_100.0"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FrequencyGroupTag(tt.hz))
			rate, ok := parseGroupRate(tt.want)
			require.True(t, ok)
			assert.Equal(t, RoundRate(tt.hz), rate)
		})
	}

	// nearby rates on either side of a rounding boundary split into two groups
	assert.NotEqual(t, FrequencyGroupTag(99.949), FrequencyGroupTag(99.951))

	_, ok := parseGroupRate("signals")
	assert.False(t, ok)
}

func channel(label string, rate float64, n int) SourceChannel {
	s := make([]int32, n)
	for i := range s {
		s[i] = int32(i)
	}
	return SourceChannel{
		Label:       label,
		SampleRate:  rate,
		PhysicalMin: -1,
		PhysicalMax: 1,
		DigitalMin:  -100,
		DigitalMax:  100,
		Samples:     s,
		DType:       store.Int16,
	}
}

func TestExtractGroups(t *testing.T) {
	wide := channel("C", 4, 8)
	wide.DType = store.Int32
	src := &Source{
		Channels: []SourceChannel{
			channel("B", 4, 8),
			channel("A", 2, 4),
			wide,
		},
		Admin: AdminInfo{Technician: "NN"},
	}

	ext, err := Extract(src, true)
	require.NoError(t, err)
	require.Len(t, ext.Groups, 2)

	slow, fast := ext.Groups[0], ext.Groups[1]
	assert.Equal(t, "fg_2.0", slow.Tag)
	assert.Equal(t, []string{"A"}, slow.Channels)
	assert.Equal(t, "fg_4.0", fast.Tag)
	assert.Equal(t, []string{"B", "C"}, fast.Channels)
	assert.Equal(t, store.Int32, fast.DType)
	assert.Equal(t, 8, fast.Rows)

	// row-major, one column per channel
	assert.Equal(t, int32(3), fast.Signal[3*2+0])
	assert.Equal(t, int32(3), fast.Signal[3*2+1])
	assert.Equal(t, []float64{-1, -1, 1, 1, -100, -100, 100, 100}, fast.MinMax)

	assert.Equal(t, 2.0, ext.Admin.RecordingDuration)
	assert.Equal(t, "NN", ext.Admin.Technician)
	assert.Equal(t, "fg_4.0", ext.ChannelInfo["C"].FrequencyGroup)
}

func TestExtractDuration(t *testing.T) {
	src := &Source{Channels: []SourceChannel{
		channel("A", 1, 10),
		channel("B", 4, 30),
	}}

	_, err := Extract(src, true)
	var derr *DurationInconsistencyError
	require.ErrorAs(t, err, &derr)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "B", derr.Channel)
	assert.Equal(t, "A", derr.ReferenceChannel)

	_, err = Extract(src, false)
	assert.NoError(t, err)

	// 31 samples at 3 Hz against 41 at 4 Hz differ by less than 0.25s
	src.Channels = []SourceChannel{
		channel("A", 3, 31),
		channel("B", 4, 41),
	}
	_, err = Extract(src, true)
	assert.NoError(t, err)
}

func TestExtractRowMismatchInGroup(t *testing.T) {
	src := &Source{Channels: []SourceChannel{
		channel("A", 4, 8),
		channel("B", 4, 9),
	}}
	_, err := Extract(src, false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExtractDuplicateLabel(t *testing.T) {
	src := &Source{Channels: []SourceChannel{
		channel("A", 4, 8),
		channel("A", 2, 4),
	}}
	_, err := Extract(src, true)
	assert.ErrorIs(t, err, ErrValue)
}

func TestExtractEmpty(t *testing.T) {
	ext, err := Extract(&Source{}, true)
	require.NoError(t, err)
	assert.Empty(t, ext.Groups)
	assert.Empty(t, ext.ChannelInfo)
}
