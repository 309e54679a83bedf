package blobstore

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/caret/internal/cache"
)

// DefaultBlockSize is the cache block size used when none is given.
const DefaultBlockSize = 64 * 1024

const maxConcurrentFills = 16

// CachingStore wraps a BlobStore and adds block-level read caching.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
}

// NewCachingStore creates a new CachingStore.
// blockSize defaults to DefaultBlockSize if <= 0.
func NewCachingStore(inner BlobStore, c cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &CachingStore{
		inner:     inner,
		cache:     c,
		blockSize: blockSize,
	}
}

// Open opens a blob whose reads go through the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

// Create invalidates cached blocks of name and delegates the write.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.cache.Invalidate(cache.ForPath(name))
	return s.inner.Create(ctx, name)
}

// Put invalidates cached blocks of name and delegates the write.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Invalidate(cache.ForPath(name))
	return s.inner.Put(ctx, name, data)
}

// Delete invalidates cached blocks of name and delegates the delete.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Invalidate(cache.ForPath(name))
	return s.inner.Delete(ctx, name)
}

// List delegates to the wrapped store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// CachingBlob wraps a Blob and uses the block cache for reads.
type CachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

// Close closes the wrapped blob. Cached blocks stay valid.
func (b *CachingBlob) Close() error {
	return b.inner.Close()
}

// Size returns the size of the wrapped blob.
func (b *CachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *CachingBlob) key(blk int64) cache.Key {
	return cache.Key{Path: b.name, Offset: blk * b.blockSize}
}

// ReadAt serves p from cached blocks, fetching missing runs from the inner blob.
func (b *CachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off < 0 || off >= size {
		return 0, io.EOF
	}

	want := min(int64(len(p)), size-off)
	startBlock := off / b.blockSize
	endBlock := (off + want - 1) / b.blockSize

	if err := b.fillCache(ctx, startBlock, endBlock); err != nil {
		return 0, err
	}

	total := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		data, err := b.block(ctx, blk)
		if err != nil {
			return total, err
		}
		blkStart := blk * b.blockSize
		lo := max(blkStart, off) - blkStart
		if lo >= int64(len(data)) {
			break
		}
		total += copy(p[total:want], data[lo:])
	}

	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

type blockRun struct {
	start, count int64
}

// fillCache loads missing blocks, coalescing contiguous misses into one backend read.
func (b *CachingBlob) fillCache(ctx context.Context, startBlock, endBlock int64) error {
	var runs []blockRun
	for blk := startBlock; blk <= endBlock; blk++ {
		if _, ok := b.cache.Get(ctx, b.key(blk)); ok {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].start+runs[n-1].count == blk {
			runs[n-1].count++
			continue
		}
		runs = append(runs, blockRun{start: blk, count: 1})
	}
	if len(runs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFills)
	for _, run := range runs {
		g.Go(func() error {
			return b.fetchRun(gctx, run)
		})
	}
	return g.Wait()
}

func (b *CachingBlob) fetchRun(ctx context.Context, run blockRun) error {
	byteStart := run.start * b.blockSize
	size := b.Size()
	if byteStart >= size {
		return nil
	}
	byteLen := min(run.count*b.blockSize, size-byteStart)

	buf := make([]byte, byteLen)
	n, err := b.inner.ReadAt(ctx, buf, byteStart)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	buf = buf[:n]

	for i := int64(0); i < run.count; i++ {
		lo := i * b.blockSize
		if lo >= int64(len(buf)) {
			break
		}
		hi := min(lo+b.blockSize, int64(len(buf)))
		// Copy so a single cached block does not pin the whole run buffer.
		blk := make([]byte, hi-lo)
		copy(blk, buf[lo:hi])
		b.cache.Set(ctx, b.key(run.start+i), blk)
	}
	return nil
}

// block returns a block from the cache, reading it directly on a miss
// (for example when the cache refused to admit it).
func (b *CachingBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	if data, ok := b.cache.Get(ctx, b.key(blk)); ok {
		return data, nil
	}
	off := blk * b.blockSize
	buf := make([]byte, min(b.blockSize, b.Size()-off))
	n, err := b.inner.ReadAt(ctx, buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

// ReadRange returns a reader over the range served through ReadAt.
func (b *CachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	start, end := clampRange(b.Size(), off, length)
	return &sectionReader{blob: b, ctx: ctx, off: start, limit: end}, nil
}
