package rkns

import (
	"fmt"
	"sync"

	"github.com/robert-malhotra/go-rkns/store"
)

// Source is a decoded source file in format-neutral form.
type Source struct {
	Channels []SourceChannel
	Patient  PatientInfo
	// Admin carries the recording fields; the extractor fills in the duration.
	Admin AdminInfo
}

// SourceChannel is one decoded channel with its calibration.
type SourceChannel struct {
	Label        string
	Dimension    string
	Transducer   string
	Prefiltering string
	SampleRate   float64

	PhysicalMin float64
	PhysicalMax float64
	DigitalMin  float64
	DigitalMax  float64

	// Samples holds the digital codes, stored with element type DType.
	Samples []int32
	DType   store.DType
}

// Adapter converts one family of source formats.
type Adapter interface {
	// Decode parses a complete source file.
	Decode(blob []byte) (*Source, error)
	// Reencode decodes blob and encodes it again with the source format
	// writer. The result is byte-identical for well-formed files.
	Reencode(blob []byte) ([]byte, error)
}

// AdapterFactory builds an adapter. It runs on first use of its format.
type AdapterFactory func() (Adapter, error)

type adapterRegistry struct {
	mu        sync.Mutex
	factories map[Format]AdapterFactory
	resolved  map[Format]Adapter
}

var adapters = &adapterRegistry{
	factories: map[Format]AdapterFactory{},
	resolved:  map[Format]Adapter{},
}

func init() {
	for _, f := range []Format{FormatEDF, FormatEDFPlus, FormatBDF, FormatBDFPlus} {
		RegisterAdapter(f, newEDFAdapter)
	}
}

// RegisterAdapter binds a factory to a format, dropping any adapter
// already resolved for it.
func RegisterAdapter(f Format, factory AdapterFactory) {
	adapters.mu.Lock()
	defer adapters.mu.Unlock()
	adapters.factories[f] = factory
	delete(adapters.resolved, f)
}

// ResolveAdapter returns the adapter for f, building and caching it on
// first use.
func ResolveAdapter(f Format) (Adapter, error) {
	adapters.mu.Lock()
	defer adapters.mu.Unlock()
	if a, ok := adapters.resolved[f]; ok {
		return a, nil
	}
	factory, ok := adapters.factories[f]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter registered for %s", ErrUnsupportedFormat, f)
	}
	a, err := factory()
	if err != nil {
		return nil, fmt.Errorf("loading adapter for %s: %w", f, err)
	}
	adapters.resolved[f] = a
	return a, nil
}
