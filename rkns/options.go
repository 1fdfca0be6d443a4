package rkns

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/robert-malhotra/go-rkns/store"
)

// DefaultChunkRows is the number of samples per chunk of a frequency group signal.
const DefaultChunkRows = 65536

// Option configures FromFile and Open.
type Option func(*options)

type options struct {
	targetStore store.ChunkedStore
	targetPath  string
	populate    bool
	overwrite   bool
	validate    bool
	logger      zerolog.Logger
	arrayOpts   []store.ArrayOption
	chunkRows   int
}

func defaultOptions() *options {
	return &options{
		populate:  true,
		validate:  true,
		logger:    zerolog.Nop(),
		chunkRows: DefaultChunkRows,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTargetStore ingests into cs instead of a new in-memory store.
func WithTargetStore(cs store.ChunkedStore) Option {
	return func(o *options) {
		o.targetStore = cs
	}
}

// WithTargetPath ingests into a new directory store at path, which must
// not exist yet.
func WithTargetPath(path string) Option {
	return func(o *options) {
		o.targetPath = path
	}
}

// WithOverwrite lets FromFile replace whatever the target already holds.
func WithOverwrite() Option {
	return func(o *options) {
		o.overwrite = true
	}
}

// WithoutPopulate stops after the raw zone is written.
func WithoutPopulate() Option {
	return func(o *options) {
		o.populate = false
	}
}

// WithValidation enables or disables duration and layout checks when the
// normalized zone is built. Validation is on by default.
func WithValidation(validate bool) Option {
	return func(o *options) {
		o.validate = validate
	}
}

// WithLogger sets the logger for container and store events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithArrayOptions sets the codec options for every array the container writes.
func WithArrayOptions(opts ...store.ArrayOption) Option {
	return func(o *options) {
		o.arrayOpts = append(o.arrayOpts, opts...)
	}
}

// WithChunkRows sets the number of samples per signal chunk.
func WithChunkRows(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkRows = n
		}
	}
}

// SignalOption selects what GetSignal returns.
type SignalOption func(*signalQuery)

type signalQuery struct {
	channels []string
	rate     float64
	hasRate  bool
	start    float64
	end      float64
}

// Channels selects channels by name. They must share a frequency group.
func Channels(names ...string) SignalOption {
	return func(q *signalQuery) {
		q.channels = append(q.channels, names...)
	}
}

// SampleRate selects every channel of the group with this rate.
func SampleRate(hz float64) SignalOption {
	return func(q *signalQuery) {
		q.rate = hz
		q.hasRate = true
	}
}

// TimeRange limits the result to [start, end) seconds. An infinite end
// reads to the end of the recording.
func TimeRange(start, end float64) SignalOption {
	return func(q *signalQuery) {
		q.start = start
		q.end = end
	}
}

func newSignalQuery(opts []SignalOption) *signalQuery {
	q := &signalQuery{end: math.Inf(1)}
	for _, opt := range opts {
		opt(q)
	}
	return q
}
