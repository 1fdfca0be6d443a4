package edf

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/robert-malhotra/go-rkns/internal/binary"
)

// Write encodes rec to w. Fields whose value is unchanged since Read are
// written with their original text.
func Write(w io.Writer, rec *Recording) error {
	if len(rec.Samples) != len(rec.Signals) {
		return fmt.Errorf("edf: %d sample slices for %d signals", len(rec.Samples), len(rec.Signals))
	}
	n := rec.Header.NumRecords
	for i, s := range rec.Signals {
		if want := n * s.SamplesPerRecord; len(rec.Samples[i]) != want {
			return fmt.Errorf("edf: signal %d (%s): %d samples, want %d", i, s.Label, len(rec.Samples[i]), want)
		}
	}

	bw := bufio.NewWriter(w)
	out := binary.NewWriter(bw)
	if err := writeHeader(out, rec); err != nil {
		return err
	}

	width := rec.Variant.SampleWidth()
	for k := 0; k < n; k++ {
		for i, s := range rec.Signals {
			spr := s.SamplesPerRecord
			if err := out.WriteSamples(rec.Samples[i][k*spr:(k+1)*spr], width); err != nil {
				return fmt.Errorf("edf: writing record %d: %w", k, err)
			}
		}
	}
	return bw.Flush()
}

func writeHeader(out *binary.Writer, rec *Recording) error {
	h := &rec.Header
	t := h.text
	ns := len(rec.Signals)

	version := h.Version
	if version == "" {
		version = rec.Variant.defaultVersion()
	}
	duration, err := keepFloat("record_duration", t.duration, h.RecordDuration, durationWidth)
	if err != nil {
		return err
	}

	fixed := []struct {
		text  string
		width int
	}{
		{keepText(t.version, version), versionWidth},
		{keepText(t.patient, h.PatientID), patientWidth},
		{keepText(t.recording, h.RecordingID), recordingWidth},
		{keepText(t.startDate, h.StartDate), dateWidth},
		{keepText(t.startTime, h.StartTime), timeWidth},
		{keepInt("header_bytes", t.headerBytes, fixedHeaderSize+ns*signalBlockSize), headerBytesWidth},
		{keepText(t.reserved, h.Reserved), reservedWidth},
		{keepInt("num_records", t.numRecords, h.NumRecords), numRecordsWidth},
		{duration, durationWidth},
		{keepInt("num_signals", t.numSignals, ns), numSignalsWidth},
	}
	for _, f := range fixed {
		if err := out.WriteField(f.text, f.width); err != nil {
			return fmt.Errorf("edf: %w", err)
		}
	}

	cols := make([][]string, len(signalWidths))
	for _, s := range rec.Signals {
		st := s.text
		pmin, err := keepFloat("physical_min", st.physMin, s.PhysicalMin, physMinWidth)
		if err != nil {
			return err
		}
		pmax, err := keepFloat("physical_max", st.physMax, s.PhysicalMax, physMaxWidth)
		if err != nil {
			return err
		}
		row := []string{
			keepText(st.label, s.Label),
			keepText(st.transducer, s.Transducer),
			keepText(st.dimension, s.PhysicalDimension),
			pmin,
			pmax,
			keepInt("digital_min", st.digMin, s.DigitalMin),
			keepInt("digital_max", st.digMax, s.DigitalMax),
			keepText(st.prefilter, s.Prefiltering),
			keepInt("samples_per_record", st.samples, s.SamplesPerRecord),
			keepText(st.reserved, s.Reserved),
		}
		for i, v := range row {
			cols[i] = append(cols[i], v)
		}
	}
	for i, col := range cols {
		for _, v := range col {
			if err := out.WriteField(v, signalWidths[i]); err != nil {
				return fmt.Errorf("edf: %w", err)
			}
		}
	}
	if want := int64(fixedHeaderSize + ns*signalBlockSize); out.Pos() != want {
		return fmt.Errorf("%w: wrote %d header bytes, want %d", ErrSize, out.Pos(), want)
	}
	return nil
}

// WriteFile encodes rec into a new file at path. An existing file is
// not overwritten.
func WriteFile(path string, rec *Recording) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, rec)
}
