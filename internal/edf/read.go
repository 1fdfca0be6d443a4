package edf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/robert-malhotra/go-rkns/internal/binary"
)

// Read decodes a complete recording from r, which holds size bytes.
func Read(r io.ReaderAt, size int64) (*Recording, error) {
	br := binary.NewReader(r)

	rec, headerBytes, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if err := readRecords(br, rec, size-int64(headerBytes)); err != nil {
		return nil, err
	}
	return rec, nil
}

// ReadFile decodes the recording stored at path.
func ReadFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return Read(f, info.Size())
}

// ReadHeader decodes only the header, leaving Samples nil.
func ReadHeader(r io.ReaderAt) (*Recording, error) {
	rec, _, err := readHeader(binary.NewReader(r))
	return rec, err
}

func readHeader(br *binary.Reader) (*Recording, int, error) {
	// The leading byte alone tells BDF (0xFF) from EDF ('0').
	lead, err := br.Peek(1)
	if err != nil {
		return nil, 0, truncated(err)
	}
	fields, err := readFixedFields(br)
	if err != nil {
		return nil, 0, err
	}
	t := headerText{
		version:     fields[0],
		patient:     fields[1],
		recording:   fields[2],
		startDate:   fields[3],
		startTime:   fields[4],
		headerBytes: fields[5],
		reserved:    fields[6],
		numRecords:  fields[7],
		duration:    fields[8],
		numSignals:  fields[9],
	}

	rec := &Recording{}
	if lead[0] == bdfVersion[0] {
		rec.Variant = VariantBDF
	}
	rec.Header = Header{
		Version:     binary.TrimField(t.version),
		PatientID:   binary.TrimField(t.patient),
		RecordingID: binary.TrimField(t.recording),
		StartDate:   binary.TrimField(t.startDate),
		StartTime:   binary.TrimField(t.startTime),
		Reserved:    binary.TrimField(t.reserved),
		text:        t,
	}

	headerBytes, err := parseInt("header_bytes", t.headerBytes)
	if err != nil {
		return nil, 0, err
	}
	if rec.Header.NumRecords, err = parseInt("num_records", t.numRecords); err != nil {
		return nil, 0, err
	}
	if rec.Header.RecordDuration, err = parseFloat("record_duration", t.duration); err != nil {
		return nil, 0, err
	}
	ns, err := parseInt("num_signals", t.numSignals)
	if err != nil {
		return nil, 0, err
	}
	if ns < 0 {
		return nil, 0, &FieldError{Field: "num_signals", Value: t.numSignals}
	}
	if headerBytes != fixedHeaderSize+ns*signalBlockSize {
		return nil, 0, fmt.Errorf("%w: header_bytes %d for %d signals", ErrSize, headerBytes, ns)
	}

	rec.Signals, err = readSignalHeaders(br, ns)
	if err != nil {
		return nil, 0, err
	}
	return rec, headerBytes, nil
}

func readFixedFields(br *binary.Reader) ([]string, error) {
	out := make([]string, len(fixedWidths))
	for i, w := range fixedWidths {
		s, err := br.ReadField(w)
		if err != nil {
			return nil, truncated(err)
		}
		out[i] = s
	}
	return out, nil
}

func readSignalHeaders(br *binary.Reader, ns int) ([]SignalHeader, error) {
	// Signal headers are stored field-major: all labels, then all transducers, ...
	cols := make([][]string, len(signalWidths))
	for i, w := range signalWidths {
		col, err := br.ReadFields(ns, w)
		if err != nil {
			return nil, truncated(err)
		}
		cols[i] = col
	}

	signals := make([]SignalHeader, ns)
	for i := range signals {
		t := signalText{
			label:      cols[0][i],
			transducer: cols[1][i],
			dimension:  cols[2][i],
			physMin:    cols[3][i],
			physMax:    cols[4][i],
			digMin:     cols[5][i],
			digMax:     cols[6][i],
			prefilter:  cols[7][i],
			samples:    cols[8][i],
			reserved:   cols[9][i],
		}
		s := SignalHeader{
			Label:             binary.TrimField(t.label),
			Transducer:        binary.TrimField(t.transducer),
			PhysicalDimension: binary.TrimField(t.dimension),
			Prefiltering:      binary.TrimField(t.prefilter),
			Reserved:          binary.TrimField(t.reserved),
			text:              t,
		}
		var err error
		if s.PhysicalMin, err = parseFloat("physical_min", t.physMin); err != nil {
			return nil, err
		}
		if s.PhysicalMax, err = parseFloat("physical_max", t.physMax); err != nil {
			return nil, err
		}
		if s.DigitalMin, err = parseInt("digital_min", t.digMin); err != nil {
			return nil, err
		}
		if s.DigitalMax, err = parseInt("digital_max", t.digMax); err != nil {
			return nil, err
		}
		if s.SamplesPerRecord, err = parseInt("samples_per_record", t.samples); err != nil {
			return nil, err
		}
		if s.SamplesPerRecord < 0 {
			return nil, &FieldError{Field: "samples_per_record", Value: t.samples}
		}
		signals[i] = s
	}
	return signals, nil
}

// readRecords decodes the data records that follow the header. A record
// count of -1 means the count is derived from the file size.
func readRecords(br *binary.Reader, rec *Recording, dataBytes int64) error {
	width := rec.Variant.SampleWidth()
	recordSize := 0
	for _, s := range rec.Signals {
		recordSize += s.SamplesPerRecord * width
	}

	n := rec.Header.NumRecords
	switch {
	case n == -1:
		if recordSize == 0 || dataBytes%int64(recordSize) != 0 {
			return fmt.Errorf("%w: %d data bytes for %d-byte records", ErrSize, dataBytes, recordSize)
		}
		n = int(dataBytes / int64(recordSize))
		rec.Header.NumRecords = n
	case n < 0:
		return &FieldError{Field: "num_records", Value: rec.Header.text.numRecords}
	case int64(n)*int64(recordSize) > dataBytes:
		return fmt.Errorf("%w: header declares %d records, data holds %d bytes", ErrRecordCount, n, dataBytes)
	case int64(n)*int64(recordSize) != dataBytes:
		return fmt.Errorf("%w: expected %d data bytes, found %d", ErrSize, int64(n)*int64(recordSize), dataBytes)
	}

	rec.Samples = make([][]int32, len(rec.Signals))
	for i, s := range rec.Signals {
		rec.Samples[i] = make([]int32, 0, n*s.SamplesPerRecord)
	}
	for k := 0; k < n; k++ {
		for i, s := range rec.Signals {
			vals, err := br.ReadSamples(s.SamplesPerRecord, width)
			if err != nil {
				return fmt.Errorf("%w: record %d signal %d at offset %d: %v", ErrRecordCount, k, i, br.Pos(), err)
			}
			rec.Samples[i] = append(rec.Samples[i], vals...)
		}
	}
	return nil
}

func truncated(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}
