package edf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/robert-malhotra/go-rkns/internal/binary"
)

// Header is the fixed 256-byte part of the file header.
// Text fields are trimmed of their padding.
type Header struct {
	Version        string
	PatientID      string
	RecordingID    string
	StartDate      string // dd.mm.yy
	StartTime      string // hh.mm.ss
	Reserved       string
	NumRecords     int
	RecordDuration float64

	text headerText
}

// headerText holds the fields exactly as read, padding included.
type headerText struct {
	version, patient, recording, startDate, startTime string
	headerBytes, reserved, numRecords, duration        string
	numSignals                                         string
}

// SignalHeader describes one signal of the recording.
type SignalHeader struct {
	Label             string
	Transducer        string
	PhysicalDimension string
	PhysicalMin       float64
	PhysicalMax       float64
	DigitalMin        int
	DigitalMax        int
	Prefiltering      string
	SamplesPerRecord  int
	Reserved          string

	text signalText
}

type signalText struct {
	label, transducer, dimension, physMin, physMax string
	digMin, digMax, prefilter, samples, reserved   string
}

// RawText returns the unparsed text of the named numeric field as read
// from the file, or "" for a header built in memory. Known names are
// "physical_min", "physical_max", "digital_min", "digital_max" and
// "samples_per_record".
func (s *SignalHeader) RawText(field string) string {
	switch field {
	case "physical_min":
		return s.text.physMin
	case "physical_max":
		return s.text.physMax
	case "digital_min":
		return s.text.digMin
	case "digital_max":
		return s.text.digMax
	case "samples_per_record":
		return s.text.samples
	}
	return ""
}

// IsAnnotation reports whether the signal carries EDF+/BDF+ annotations
// rather than sampled data.
func (s *SignalHeader) IsAnnotation() bool {
	return s.Label == "EDF Annotations" || s.Label == "BDF Annotations"
}

// Recording is a decoded source file.
type Recording struct {
	Variant Variant
	Header  Header
	Signals []SignalHeader
	// Samples holds the digital values of each signal, all records concatenated.
	Samples [][]int32
}

// IsPlus reports whether the reserved field marks an EDF+ or BDF+ file.
func (r *Recording) IsPlus() bool {
	return strings.HasPrefix(r.Header.Reserved, "EDF+") || strings.HasPrefix(r.Header.Reserved, "BDF+")
}

// SampleRate returns the sampling frequency of signal i in Hz.
func (r *Recording) SampleRate(i int) float64 {
	if r.Header.RecordDuration <= 0 {
		return 0
	}
	return float64(r.Signals[i].SamplesPerRecord) / r.Header.RecordDuration
}

// Duration returns the recording length in seconds.
func (r *Recording) Duration() float64 {
	return float64(r.Header.NumRecords) * r.Header.RecordDuration
}

// Patient holds the EDF+ patient identification subfields.
// Unknown subfields ("X") are empty.
type Patient struct {
	Code       string
	Sex        string
	Birthdate  string
	Name       string
	Additional string
}

// Patient parses the patient identification field. For plain EDF files
// the whole field is returned as Name.
func (r *Recording) Patient() Patient {
	parts := strings.Fields(r.Header.PatientID)
	if !r.IsPlus() || len(parts) < 4 {
		return Patient{Name: r.Header.PatientID}
	}
	return Patient{
		Code:       subfield(parts[0]),
		Sex:        subfield(parts[1]),
		Birthdate:  subfield(parts[2]),
		Name:       subfield(parts[3]),
		Additional: subfield(strings.Join(parts[4:], " ")),
	}
}

// RecordingInfo holds the EDF+ recording identification subfields.
type RecordingInfo struct {
	StartDate  string // dd-MMM-yyyy
	AdminCode  string
	Technician string
	Equipment  string
	Additional string
}

// RecordingInfo parses the recording identification field. For plain EDF
// files the whole field is returned as Additional.
func (r *Recording) RecordingInfo() RecordingInfo {
	parts := strings.Fields(r.Header.RecordingID)
	if !r.IsPlus() || len(parts) < 5 || parts[0] != "Startdate" {
		return RecordingInfo{Additional: r.Header.RecordingID}
	}
	return RecordingInfo{
		StartDate:  subfield(parts[1]),
		AdminCode:  subfield(parts[2]),
		Technician: subfield(parts[3]),
		Equipment:  subfield(parts[4]),
		Additional: subfield(strings.Join(parts[5:], " ")),
	}
}

// StartDateTime combines the start date and time fields. Two-digit years
// 85-99 map to 19xx and 00-84 to 20xx; an EDF+ recording field with a
// four-digit start date takes precedence for the year.
func (r *Recording) StartDateTime() (time.Time, error) {
	var day, month, yy int
	if _, err := fmt.Sscanf(r.Header.StartDate, "%d.%d.%d", &day, &month, &yy); err != nil {
		return time.Time{}, &FieldError{Field: "startdate", Value: r.Header.StartDate}
	}
	var hh, mm, ss int
	if _, err := fmt.Sscanf(r.Header.StartTime, "%d.%d.%d", &hh, &mm, &ss); err != nil {
		return time.Time{}, &FieldError{Field: "starttime", Value: r.Header.StartTime}
	}
	year := 2000 + yy
	if yy >= 85 {
		year = 1900 + yy
	}
	if info := r.RecordingInfo(); info.StartDate != "" {
		if t, err := time.Parse("02-Jan-2006", titleMonth(info.StartDate)); err == nil {
			year = t.Year()
		}
	}
	return time.Date(year, time.Month(month), day, hh, mm, ss, 0, time.UTC), nil
}

// titleMonth rewrites "02-AUG-1951" as "02-Aug-1951" for time.Parse.
func titleMonth(s string) string {
	if len(s) != 11 {
		return s
	}
	return s[:4] + strings.ToLower(s[4:6]) + s[6:]
}

func subfield(s string) string {
	if s == "X" {
		return ""
	}
	return strings.ReplaceAll(s, "_", " ")
}

func parseInt(field, text string) (int, error) {
	s := binary.TrimField(text)
	v, err := strconv.Atoi(s)
	if err == nil {
		return v, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != math.Trunc(f) {
		return 0, &FieldError{Field: field, Value: text}
	}
	return int(f), nil
}

func parseFloat(field, text string) (float64, error) {
	v, err := strconv.ParseFloat(binary.TrimField(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FieldError{Field: field, Value: text}
	}
	return v, nil
}

// formatNumber renders v in at most width characters, dropping decimals
// as needed.
func formatNumber(field string, v float64, width int) (string, error) {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for prec := width; len(s) > width && prec >= 0; prec-- {
		s = strconv.FormatFloat(v, 'f', prec, 64)
		if strings.Contains(s, ".") {
			s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		}
	}
	if len(s) > width {
		return "", fmt.Errorf("edf: field %s: %v does not fit in %d bytes", field, v, width)
	}
	return s, nil
}

// keepText returns raw when it still describes value, otherwise value.
func keepText(raw, value string) string {
	if raw != "" && binary.TrimField(raw) == value {
		return raw
	}
	return value
}

func keepInt(field, raw string, v int) string {
	if raw != "" {
		if p, err := parseInt(field, raw); err == nil && p == v {
			return raw
		}
	}
	return strconv.Itoa(v)
}

func keepFloat(field, raw string, v float64, width int) (string, error) {
	if raw != "" {
		if p, err := parseFloat(field, raw); err == nil && p == v {
			return raw, nil
		}
	}
	return formatNumber(field, v, width)
}
