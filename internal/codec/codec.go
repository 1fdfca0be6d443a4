package codec

import (
	"fmt"
)

// Codec identifiers as stored in array metadata.
const (
	IDZstd       = "zstd"
	IDShuffle    = "shuffle"
	IDFletcher32 = "fletcher32"
)

// Codec is the interface implemented by all chunk codecs.
type Codec interface {
	// ID returns the codec identifier.
	ID() string

	// Encode transforms decoded data to its stored form.
	Encode(input []byte) ([]byte, error)

	// Decode transforms stored data back to decoded form.
	Decode(input []byte) ([]byte, error)
}

// Config is the serialized configuration of a codec.
type Config struct {
	ID          string `json:"id"`
	Level       int    `json:"level,omitempty"`
	ElementSize int    `json:"elementsize,omitempty"`
}

// Registry maps codec IDs to codec constructors.
var Registry = map[string]func(Config) (Codec, error){
	IDZstd:       func(c Config) (Codec, error) { return NewZstd(c.Level) },
	IDShuffle:    func(c Config) (Codec, error) { return NewShuffle(c.ElementSize), nil },
	IDFletcher32: func(c Config) (Codec, error) { return NewFletcher32(), nil },
}

// New creates a codec from its configuration.
func New(cfg Config) (Codec, error) {
	constructor, ok := Registry[cfg.ID]
	if !ok {
		return nil, fmt.Errorf("unsupported codec: %q", cfg.ID)
	}
	return constructor(cfg)
}
