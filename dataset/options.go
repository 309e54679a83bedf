package dataset

import (
	"log/slog"

	"github.com/hupe1980/caret/codec"
	"github.com/hupe1980/caret/internal/resource"
)

const (
	// DefaultRangeSize is the size of each ranged read when fetching a remote blob.
	DefaultRangeSize = 8 << 20
	// DefaultFetchConcurrency bounds concurrent ranged reads per blob.
	DefaultFetchConcurrency = 8
)

// Option configures how a dataset is opened.
type Option func(*options)

type options struct {
	format      Format
	logger      *slog.Logger
	rc          *resource.Controller
	codec       codec.Codec
	rangeSize   int64
	concurrency int
}

func defaultOptions() options {
	return options{
		format:      Auto,
		logger:      slog.New(slog.DiscardHandler),
		codec:       codec.Default,
		rangeSize:   DefaultRangeSize,
		concurrency: DefaultFetchConcurrency,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFormat overrides format detection.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithResourceController charges in-memory copies against rc's memory budget
// and throttles remote reads with its IO limiter.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

// WithCodec sets the codec used to encode rows of CSV/TSV inputs.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithRangeSize sets the ranged-read size for remote blobs.
func WithRangeSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.rangeSize = n
		}
	}
}

// WithFetchConcurrency sets the number of concurrent ranged reads.
func WithFetchConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
