package codec

import (
	"fmt"
)

// Pipeline represents the filters and compressor of one array.
type Pipeline struct {
	filters    []Codec
	compressor Codec
}

// NewPipeline creates a pipeline from filter configurations and an optional compressor.
func NewPipeline(filters []Config, compressor *Config) (*Pipeline, error) {
	p := &Pipeline{
		filters: make([]Codec, 0, len(filters)),
	}

	for _, cfg := range filters {
		c, err := New(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating filter %q: %w", cfg.ID, err)
		}
		p.filters = append(p.filters, c)
	}

	if compressor != nil {
		c, err := New(*compressor)
		if err != nil {
			return nil, fmt.Errorf("creating compressor %q: %w", compressor.ID, err)
		}
		p.compressor = c
	}

	return p, nil
}

// Encode applies the filters in order, then the compressor.
func (p *Pipeline) Encode(input []byte) ([]byte, error) {
	data := input
	for _, f := range p.filters {
		var err error
		data, err = f.Encode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %s encode: %w", f.ID(), err)
		}
	}
	if p.compressor != nil {
		var err error
		data, err = p.compressor.Encode(data)
		if err != nil {
			return nil, fmt.Errorf("compressor %s encode: %w", p.compressor.ID(), err)
		}
	}
	return data, nil
}

// Decode undoes the compressor, then applies the filters in reverse order.
func (p *Pipeline) Decode(input []byte) ([]byte, error) {
	data := input
	if p.compressor != nil {
		var err error
		data, err = p.compressor.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("compressor %s decode: %w", p.compressor.ID(), err)
		}
	}

	// Apply filters in reverse order
	for i := len(p.filters) - 1; i >= 0; i-- {
		var err error
		data, err = p.filters[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %s decode: %w", p.filters[i].ID(), err)
		}
	}

	return data, nil
}

// Empty returns true if the pipeline has no codecs.
func (p *Pipeline) Empty() bool {
	return len(p.filters) == 0 && p.compressor == nil
}

// Len returns the number of codecs in the pipeline.
func (p *Pipeline) Len() int {
	n := len(p.filters)
	if p.compressor != nil {
		n++
	}
	return n
}
