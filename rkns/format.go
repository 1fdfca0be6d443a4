package rkns

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/robert-malhotra/go-rkns/internal/binary"
)

// Format identifies the format of a file or container.
type Format int

// Format tags. The numeric values are stored in the raw zone attributes.
const (
	FormatUnknown Format = -1
	FormatRKNS    Format = 0
	FormatEDF     Format = 1
	FormatEDFPlus Format = 2
	FormatBDF     Format = 3
	FormatBDFPlus Format = 4
)

func (f Format) String() string {
	switch f {
	case FormatRKNS:
		return "RKNS"
	case FormatEDF:
		return "EDF"
	case FormatEDFPlus:
		return "EDF_PLUS"
	case FormatBDF:
		return "BDF"
	case FormatBDFPlus:
		return "BDF_PLUS"
	}
	return "UNKNOWN"
}

// Detector inspects path and returns its format, or FormatUnknown when it
// does not recognize it. Errors are reserved for I/O failures on a
// recognized candidate.
type Detector func(path string) (Format, error)

type detectorEntry struct {
	name string
	fn   Detector
}

var (
	detectorsMu sync.RWMutex
	detectors   = []detectorEntry{
		{"rkns", detectRKNS},
		{"edf", detectEDF},
		{"bdf", detectBDF},
	}
)

// RegisterDetector appends a detector. Detectors run in registration order
// and the first result other than FormatUnknown wins. Registering an
// existing name replaces that detector in place.
func RegisterDetector(name string, fn Detector) {
	detectorsMu.Lock()
	defer detectorsMu.Unlock()
	for i := range detectors {
		if detectors[i].name == name {
			detectors[i].fn = fn
			return
		}
	}
	detectors = append(detectors, detectorEntry{name: name, fn: fn})
}

// DetectFormat runs the registered detectors against path.
func DetectFormat(path string) (Format, error) {
	detectorsMu.RLock()
	list := make([]detectorEntry, len(detectors))
	copy(list, detectors)
	detectorsMu.RUnlock()

	for _, d := range list {
		f, err := d.fn(path)
		if err != nil {
			return FormatUnknown, err
		}
		if f != FormatUnknown {
			return f, nil
		}
	}
	return FormatUnknown, nil
}

// detectRKNS recognizes a directory store whose root carries rkns_header.
func detectRKNS(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return FormatUnknown, nil
	}
	if _, err := os.Stat(filepath.Join(path, ".zgroup")); err != nil {
		return FormatUnknown, nil
	}
	data, err := os.ReadFile(filepath.Join(path, ".zattrs"))
	if err != nil {
		return FormatUnknown, nil
	}
	var attrs map[string]json.RawMessage
	if err := json.Unmarshal(data, &attrs); err != nil {
		return FormatUnknown, nil
	}
	if _, ok := attrs[attrHeader]; !ok {
		return FormatUnknown, nil
	}
	return FormatRKNS, nil
}

// readPrefix returns up to n leading bytes of path.
func readPrefix(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}

// Offset and width of the reserved field in the fixed header.
const (
	reservedOffset = 192
	reservedWidth  = 44
)

func reservedField(head []byte) string {
	if len(head) < reservedOffset+reservedWidth {
		return ""
	}
	return binary.TrimField(string(head[reservedOffset : reservedOffset+reservedWidth]))
}

// detectEDF recognizes .edf files by their version field. Version "1", or
// version "0" with an "EDF+" reserved field, is EDF+.
func detectEDF(path string) (Format, error) {
	if strings.ToLower(filepath.Ext(path)) != ".edf" {
		return FormatUnknown, nil
	}
	head, err := readPrefix(path, reservedOffset+reservedWidth)
	if err != nil {
		return FormatUnknown, err
	}
	if len(head) < 8 {
		return FormatUnknown, nil
	}
	switch binary.TrimField(string(head[:8])) {
	case "0":
		if strings.HasPrefix(reservedField(head), "EDF+") {
			return FormatEDFPlus, nil
		}
		return FormatEDF, nil
	case "1":
		return FormatEDFPlus, nil
	}
	return FormatUnknown, nil
}

// detectBDF recognizes .bdf files starting with 0xFF "BIOSEMI".
func detectBDF(path string) (Format, error) {
	if strings.ToLower(filepath.Ext(path)) != ".bdf" {
		return FormatUnknown, nil
	}
	head, err := readPrefix(path, reservedOffset+reservedWidth)
	if err != nil {
		return FormatUnknown, err
	}
	if len(head) < 8 || head[0] != 0xFF || string(head[1:8]) != "BIOSEMI" {
		return FormatUnknown, nil
	}
	if strings.HasPrefix(reservedField(head), "BDF+") {
		return FormatBDFPlus, nil
	}
	return FormatBDF, nil
}
