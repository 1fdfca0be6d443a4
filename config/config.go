package config

import (
	"fmt"
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/robert-malhotra/go-rkns/internal/logx"
	"github.com/robert-malhotra/go-rkns/store"
)

// Store backends.
const (
	BackendMemory    = "memory"
	BackendDirectory = "directory"
	BackendBadger    = "badger"
)

// Compression codecs.
const (
	CodecZstd = "zstd"
	CodecNone = "none"
)

// Config represents the configuration of the rkns tools.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Badger BadgerConfig `yaml:"badger"`
	Ingest IngestConfig `yaml:"ingest"`
	Log    LogConfig    `yaml:"log"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Badger.Validate(); err != nil {
		return fmt.Errorf("badger: %w", err)
	}
	return c.Log.Validate()
}

// StoreConfig selects the chunked store backend and the array codecs.
type StoreConfig struct {
	Backend     string            `yaml:"backend"`
	Path        string            `yaml:"path"`
	Compression CompressionConfig `yaml:"compression"`
	Shuffle     bool              `yaml:"shuffle"`
	Checksum    bool              `yaml:"checksum"`
	ChunkRows   int               `yaml:"chunk_rows"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	persistent := c.Backend == BackendDirectory || c.Backend == BackendBadger
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendMemory, BackendDirectory, BackendBadger)),
		validation.Field(&c.Path, validation.When(persistent, validation.Required)),
		validation.Field(&c.ChunkRows, validation.Min(0)),
	); err != nil {
		return err
	}
	return c.Compression.Validate()
}

// CompressionConfig holds the chunk compressor settings.
type CompressionConfig struct {
	Codec string `yaml:"codec"`
	Level int    `yaml:"level"`
}

// Validate validates the compression configuration.
func (c *CompressionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Codec, validation.Required, validation.In(CodecZstd, CodecNone)),
		validation.Field(&c.Level, validation.Min(0), validation.Max(4)),
	)
}

// BadgerConfig holds badger-specific settings.
type BadgerConfig struct {
	SyncWrites        bool `yaml:"sync_writes"`
	NumVersionsToKeep int  `yaml:"num_versions_to_keep"`
}

// Validate validates the badger configuration.
func (c *BadgerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.NumVersionsToKeep, validation.Min(0)),
	)
}

// IngestConfig controls conversion of source files.
type IngestConfig struct {
	Validate  bool `yaml:"validate"`
	Overwrite bool `yaml:"overwrite"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("trace", "debug", "info", "warn", "error", "disabled")),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendMemory,
			Compression: CompressionConfig{
				Codec: CodecZstd,
				Level: 2,
			},
			Shuffle:   true,
			ChunkRows: 65536,
		},
		Ingest: IngestConfig{
			Validate: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFile reads filename over the defaults. An empty filename returns
// the defaults.
func LoadFile(filename string) (*Config, error) {
	cfg := NewDefaultConfig()
	if filename == "" {
		return cfg, cfg.Validate()
	}
	if err := Load(filename, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenStore opens the configured backend.
func (c *Config) OpenStore() (store.ChunkedStore, error) {
	switch c.Store.Backend {
	case BackendMemory, "":
		return store.NewMemory(), nil
	case BackendDirectory:
		d, err := store.NewDirectory(c.Store.Path)
		if err != nil {
			return nil, err
		}
		return d, nil
	case BackendBadger:
		b, err := store.OpenBadger(store.BadgerConfig{
			Path:              c.Store.Path,
			SyncWrites:        c.Badger.SyncWrites,
			NumVersionsToKeep: c.Badger.NumVersionsToKeep,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
}

// ArrayOptions returns the codec settings for new arrays.
func (c *Config) ArrayOptions() []store.ArrayOption {
	var opts []store.ArrayOption
	if c.Store.Compression.Codec == CodecNone {
		opts = append(opts, store.WithNoCompression())
	} else {
		opts = append(opts, store.WithCompression(c.Store.Compression.Level))
	}
	if c.Store.Shuffle {
		opts = append(opts, store.WithShuffle())
	}
	if c.Store.Checksum {
		opts = append(opts, store.WithChecksum())
	}
	return opts
}

// Logger builds the configured logger writing to w.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	if c.Log.Level == "disabled" {
		return logx.Nop()
	}
	return logx.NewLogger(w, c.Log.Level, c.Log.Pretty)
}
