package rkns

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-rkns/internal/edf"
)

const fixtureRecords = 10

// fixtureRecording has channel "A" at 1 Hz and channel "B" at 4 Hz over
// ten one-second records.
func fixtureRecording(v edf.Variant) *edf.Recording {
	a := make([]int32, fixtureRecords)
	for i := range a {
		a[i] = int32(i*100 - 500)
	}
	b := make([]int32, 4*fixtureRecords)
	for i := range b {
		b[i] = int32(i * 6)
	}
	reserved := "EDF+C"
	if v == edf.VariantBDF {
		reserved = "BDF+C"
	}
	return &edf.Recording{
		Variant: v,
		Header: edf.Header{
			PatientID:      "MCH-0234567 F 02-MAY-1951 Haagse_Harry",
			RecordingID:    "Startdate 02-MAR-2002 PSG-1234/2002 NN Telemetry03",
			StartDate:      "02.03.02",
			StartTime:      "16.15.00",
			Reserved:       reserved,
			NumRecords:     fixtureRecords,
			RecordDuration: 1,
		},
		Signals: []edf.SignalHeader{
			{
				Label:             "A",
				Transducer:        "AgAgCl electrode",
				PhysicalDimension: "uV",
				PhysicalMin:       -500,
				PhysicalMax:       500,
				DigitalMin:        -2048,
				DigitalMax:        2047,
				Prefiltering:      "HP:0.1Hz",
				SamplesPerRecord:  1,
			},
			{
				Label:             "B",
				PhysicalDimension: "mV",
				PhysicalMin:       -1,
				PhysicalMax:       1,
				DigitalMin:        0,
				DigitalMax:        255,
				SamplesPerRecord:  4,
			},
		},
		Samples: [][]int32{a, b},
	}
}

// writeFixture writes rec under a fresh temporary directory.
func writeFixture(t *testing.T, name string, rec *edf.Recording) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, edf.WriteFile(path, rec))
	return path
}

func fixtureFile(t *testing.T) string {
	t.Helper()
	return writeFixture(t, "recording.edf", fixtureRecording(edf.VariantEDF))
}

func newFixtureContainer(t *testing.T, opts ...Option) *Container {
	t.Helper()
	c, err := FromFile(fixtureFile(t), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// physical applies the EDF calibration directly.
func physical(d, pmin, pmax, dmin, dmax float64) float64 {
	return pmin + (d-dmin)*(pmax-pmin)/(dmax-dmin)
}
