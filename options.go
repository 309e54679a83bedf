package caret

import (
	"log/slog"

	"github.com/hupe1980/caret/blobstore"
	"github.com/hupe1980/caret/dataset"
	"github.com/hupe1980/caret/internal/cache"
	"github.com/hupe1980/caret/internal/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	workers          int
	chunkSize        int
	memoryLimit      int64
	ioRateLimit      int64
	format           dataset.Format
	blockCache       cache.BlockCache
	blockSize        int64
	rc               *resource.Controller
}

// Option configures Open, RunDedup and Export.
//
// Limits set with WithMemoryLimit and WithIORateLimit are enforced per call:
// each call builds its own resource accounting. WithLimits shares one budget
// across every call that receives the same Option value.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := caret.NewJSONLogger(slog.LevelInfo)
//	ds, _ := caret.Open(ctx, caret.Local("data.jsonl"), caret.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &caret.BasicMetricsCollector{}
//	res, _ := caret.RunDedup(ctx, ds, dedup.DefaultConfig(), caret.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Scans: %d, Avg latency: %dns\n", stats.ScanCount, stats.ScanAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithWorkers sets the fingerprinting worker count and the parallelism of
// ranged fetches. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithChunkSize sets how many lines one fingerprinting task covers.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithMemoryLimit caps the bytes a call may reserve for materialized datasets
// and scan working sets. Zero is unlimited.
//
// Exceeding it fails fast with ErrMemoryLimit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithIORateLimit throttles remote fetches, stream input and export output
// to bytesPerSec. Zero is unlimited.
func WithIORateLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioRateLimit = bytesPerSec
	}
}

// WithLimits caps memory and IO with a single budget created once per call to
// WithLimits. Reusing the returned Option across Open and RunDedup charges a
// materialized dataset and the scan working set against the same limit.
// Zero disables a limit; it overrides WithMemoryLimit and WithIORateLimit.
//
//	limits := caret.WithLimits(4<<30, 0)
//	ds, _ := caret.Open(ctx, caret.Stream("stdin", os.Stdin), limits)
//	res, _ := caret.RunDedup(ctx, ds, dedup.DefaultConfig(), limits)
func WithLimits(memoryBytes, ioBytesPerSec int64) Option {
	var rc *resource.Controller
	if memoryBytes > 0 || ioBytesPerSec > 0 {
		rc = resource.NewController(resource.Config{
			MemoryLimitBytes:   memoryBytes,
			IOLimitBytesPerSec: ioBytesPerSec,
		})
	}
	return func(o *options) {
		o.rc = rc
		o.memoryLimit = memoryBytes
		o.ioRateLimit = ioBytesPerSec
	}
}

// WithFormat overrides input format detection.
func WithFormat(f dataset.Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithBlockCache caches remote blocks in a sharded LRU of capacity bytes.
//
// The cache is created once per call to WithBlockCache, so reusing the
// returned Option across Open calls shares it:
//
//	cached := caret.WithBlockCache(256 << 20)
//	a, _ := caret.Open(ctx, caret.Remote(store, "a.jsonl"), cached)
//	b, _ := caret.Open(ctx, caret.Remote(store, "a.jsonl"), cached) // served from cache
func WithBlockCache(capacity int64) Option {
	c := cache.NewShardedLRUBlockCache(capacity, nil)
	return func(o *options) {
		o.blockCache = c
		if o.blockSize == 0 {
			o.blockSize = blobstore.DefaultBlockSize
		}
	}
}

// WithBlockSize sets the block size of the remote block cache.
func WithBlockSize(n int64) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) controller() *resource.Controller {
	if o.rc != nil {
		return o.rc
	}
	if o.memoryLimit <= 0 && o.ioRateLimit <= 0 {
		return nil
	}
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   o.memoryLimit,
		IOLimitBytesPerSec: o.ioRateLimit,
	})
}

func (o *options) datasetOptions(rc *resource.Controller) []dataset.Option {
	opts := []dataset.Option{
		dataset.WithFormat(o.format),
		dataset.WithLogger(o.logger.Logger),
		dataset.WithResourceController(rc),
	}
	if o.workers > 0 {
		opts = append(opts, dataset.WithFetchConcurrency(o.workers))
	}
	return opts
}
