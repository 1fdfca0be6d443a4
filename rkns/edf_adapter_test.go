package rkns

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-rkns/internal/edf"
	"github.com/robert-malhotra/go-rkns/store"
)

func encodeRecording(t *testing.T, rec *edf.Recording) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, edf.Write(&buf, rec))
	return buf.Bytes()
}

func TestEDFAdapterDecode(t *testing.T) {
	a, err := newEDFAdapter()
	require.NoError(t, err)

	t.Run("plain", func(t *testing.T) {
		rec := fixtureRecording(edf.VariantEDF)
		rec.Header.Reserved = ""
		src, err := a.Decode(encodeRecording(t, rec))
		require.NoError(t, err)

		assert.Equal(t, rec.Header.PatientID, src.Patient.Name)
		assert.Empty(t, src.Patient.PatientCode)
		assert.Equal(t, rec.Header.RecordingID, src.Admin.RecordingAdditional)
		assert.Equal(t, "2002-03-02 16:15:00", src.Admin.StartDate)
		require.Len(t, src.Channels, 2)
		assert.Equal(t, store.Int16, src.Channels[0].DType)
	})

	t.Run("bdf", func(t *testing.T) {
		src, err := a.Decode(encodeRecording(t, fixtureRecording(edf.VariantBDF)))
		require.NoError(t, err)
		require.Len(t, src.Channels, 2)
		b := src.Channels[1]
		assert.Equal(t, "B", b.Label)
		assert.Equal(t, 4.0, b.SampleRate)
		assert.Equal(t, 255.0, b.DigitalMax)
		assert.Len(t, b.Samples, 40)
		assert.Equal(t, store.Int32, b.DType)
	})

	t.Run("annotations skipped", func(t *testing.T) {
		rec := fixtureRecording(edf.VariantEDF)
		rec.Signals = append(rec.Signals, edf.SignalHeader{
			Label:            "EDF Annotations",
			PhysicalMin:      -1,
			PhysicalMax:      1,
			DigitalMin:       -32768,
			DigitalMax:       32767,
			SamplesPerRecord: 2,
		})
		rec.Samples = append(rec.Samples, make([]int32, 2*fixtureRecords))
		src, err := a.Decode(encodeRecording(t, rec))
		require.NoError(t, err)
		assert.Len(t, src.Channels, 2)
	})

	t.Run("unusable sample rate", func(t *testing.T) {
		blob := encodeRecording(t, fixtureRecording(edf.VariantEDF))
		// record duration field: 1e-320 s overflows samples/duration to +Inf
		copy(blob[244:252], "1e-320  ")
		_, err := a.Decode(blob)
		assert.ErrorContains(t, err, "sample rate")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := a.Decode([]byte("not an edf file"))
		assert.Error(t, err)
	})
}
