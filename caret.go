package caret

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/caret/blobstore"
	"github.com/hupe1980/caret/dataset"
	"github.com/hupe1980/caret/dedup"
	"github.com/hupe1980/caret/export"
	"github.com/hupe1980/caret/internal/resource"
)

// Source identifies where a dataset comes from.
type Source interface {
	open(ctx context.Context, o *options, rc *resource.Controller) (*dataset.Dataset, error)
	name() string
}

type localSource struct{ path string }

// Local opens a file on the local filesystem. Uncompressed JSONL is memory
// mapped and never copied.
func Local(path string) Source { return localSource{path: path} }

func (s localSource) name() string { return s.path }

func (s localSource) open(_ context.Context, o *options, rc *resource.Controller) (*dataset.Dataset, error) {
	return dataset.Open(s.path, o.datasetOptions(rc)...)
}

type remoteSource struct {
	store blobstore.BlobStore
	key   string
}

// Remote opens the blob name from store. Stores whose blobs are mappable are
// read zero-copy; others are fetched with parallel ranged reads.
func Remote(store blobstore.BlobStore, name string) Source {
	return remoteSource{store: store, key: name}
}

func (s remoteSource) name() string { return s.key }

func (s remoteSource) open(ctx context.Context, o *options, rc *resource.Controller) (*dataset.Dataset, error) {
	store := s.store
	if o.blockCache != nil {
		store = blobstore.NewCachingStore(store, o.blockCache, o.blockSize)
	}
	blob, err := store.Open(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, s.key, err)
	}
	return dataset.OpenBlob(ctx, blob, s.key, o.datasetOptions(rc)...)
}

type streamSource struct {
	key string
	r   io.Reader
}

// Stream reads a dataset fully from r, for example standard input. name is
// used for format and compression detection.
func Stream(name string, r io.Reader) Source {
	return streamSource{key: name, r: r}
}

func (s streamSource) name() string { return s.key }

func (s streamSource) open(ctx context.Context, o *options, rc *resource.Controller) (*dataset.Dataset, error) {
	r := io.Reader(resource.NewRateLimitedReader(ctx, s.r, rc))
	return dataset.OpenReader(s.key, r, o.datasetOptions(rc)...)
}

// Open opens a dataset and indexes its lines.
func Open(ctx context.Context, src Source, opts ...Option) (*dataset.Dataset, error) {
	o := applyOptions(opts)
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := src.open(ctx, &o, o.controller())
	if err != nil {
		o.metricsCollector.RecordOpen(0, 0, time.Since(start), err)
		o.logger.LogOpen(ctx, src.name(), 0, "", err)
		return nil, err
	}

	o.metricsCollector.RecordOpen(ds.LineCount(), ds.Size(), time.Since(start), nil)
	o.logger.LogOpen(ctx, ds.Name(), ds.LineCount(), ds.SizeHuman(), nil)
	return ds, nil
}

// RunDedup scans ds for duplicates with cfg.
//
// On cancellation the scan is discarded and the context error returned.
func RunDedup(ctx context.Context, ds dedup.Source, cfg dedup.Config, opts ...Option) (*dedup.Result, error) {
	o := applyOptions(opts)
	logger := o.logger.WithStrategy(cfg)

	scanOpts := []dedup.Option{
		dedup.WithLogger(logger.Logger),
		dedup.WithResourceController(o.controller()),
	}
	if o.workers > 0 {
		scanOpts = append(scanOpts, dedup.WithWorkers(o.workers))
	}
	if o.chunkSize > 0 {
		scanOpts = append(scanOpts, dedup.WithChunkSize(o.chunkSize))
	}

	start := time.Now()
	res, err := dedup.NewScanner(scanOpts...).Scan(ctx, ds, cfg)
	if err != nil {
		o.metricsCollector.RecordScan(ds.LineCount(), 0, time.Since(start), err)
		logger.LogScan(ctx, dedup.Summary{}, err)
		return nil, err
	}

	sum := res.Summary()
	o.metricsCollector.RecordScan(sum.TotalLines, sum.DuplicateCount, time.Since(start), nil)
	logger.LogScan(ctx, sum, nil)
	return res, nil
}

// Export writes the lines of ds not flagged by res to the blob name in store.
// eo selects compression and whether duplicates are kept instead.
func Export(ctx context.Context, ds export.Source, res *dedup.Result, store blobstore.BlobStore, name string, eo export.Options, opts ...Option) (export.Stats, error) {
	o := applyOptions(opts)
	if eo.Logger == nil {
		eo.Logger = o.logger.Logger
	}
	if eo.BytesPerSec == 0 {
		eo.BytesPerSec = o.ioRateLimit
	}

	var mask export.Membership
	if res != nil {
		mask = res.Mask()
	}

	start := time.Now()
	st, err := export.ToBlob(ctx, store, name, ds, mask, eo)
	o.metricsCollector.RecordExport(st.Written, st.Bytes, time.Since(start), err)
	o.logger.LogExport(ctx, name, st, err)
	return st, err
}
