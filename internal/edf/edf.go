// Package edf reads and writes EDF, EDF+, BDF and BDF+ recordings.
//
// A Recording keeps every header field as the text it was read from, so
// writing an unmodified recording reproduces the source file byte for byte.
package edf

import (
	"errors"
	"fmt"
)

// Fixed header field widths, in bytes.
const (
	fixedHeaderSize = 256
	signalBlockSize = 256

	versionWidth     = 8
	patientWidth     = 80
	recordingWidth   = 80
	dateWidth        = 8
	timeWidth        = 8
	headerBytesWidth = 8
	reservedWidth    = 44
	numRecordsWidth  = 8
	durationWidth    = 8
	numSignalsWidth  = 4

	labelWidth          = 16
	transducerWidth     = 80
	dimensionWidth      = 8
	physMinWidth        = 8
	physMaxWidth        = 8
	digMinWidth         = 8
	digMaxWidth         = 8
	prefilterWidth      = 80
	samplesWidth        = 8
	signalReservedWidth = 32
)

var (
	fixedWidths = []int{
		versionWidth, patientWidth, recordingWidth, dateWidth, timeWidth,
		headerBytesWidth, reservedWidth, numRecordsWidth, durationWidth, numSignalsWidth,
	}
	signalWidths = []int{
		labelWidth, transducerWidth, dimensionWidth, physMinWidth, physMaxWidth,
		digMinWidth, digMaxWidth, prefilterWidth, samplesWidth, signalReservedWidth,
	}
)

// bdfVersion is the version field of a BDF file: 0xFF followed by "BIOSEMI".
const bdfVersion = "\xffBIOSEMI"

// Errors returned while decoding.
var (
	ErrTruncated   = errors.New("edf: truncated header")
	ErrField       = errors.New("edf: invalid header field")
	ErrRecordCount = errors.New("edf: record count mismatch")
	ErrSize        = errors.New("edf: file size inconsistent with header")
)

// FieldError reports a header field whose text could not be parsed.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("edf: field %s: invalid value %q", e.Field, e.Value)
}

func (e *FieldError) Unwrap() error {
	return ErrField
}

// Variant selects the sample encoding.
type Variant int

const (
	// VariantEDF stores 2-byte samples.
	VariantEDF Variant = iota
	// VariantBDF stores 3-byte samples.
	VariantBDF
)

// SampleWidth returns the number of bytes per sample.
func (v Variant) SampleWidth() int {
	if v == VariantBDF {
		return 3
	}
	return 2
}

func (v Variant) String() string {
	if v == VariantBDF {
		return "BDF"
	}
	return "EDF"
}

// defaultVersion is the version text written when none was read.
func (v Variant) defaultVersion() string {
	if v == VariantBDF {
		return bdfVersion
	}
	return "0"
}
