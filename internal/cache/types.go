package cache

import (
	"context"
)

// Key identifies one immutable block of a blob.
// Blobs are read-only once published, so Path and Offset are sufficient.
type Key struct {
	// Path names the blob (store-relative name).
	Path string
	// Offset is the block-aligned byte offset within the blob.
	Offset int64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. Implementations may retain b; caller must treat b as immutable.
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	// Close releases any resources.
	Close() error
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}

// ForPath returns a predicate matching every block of the named blob.
func ForPath(path string) func(Key) bool {
	return func(k Key) bool { return k.Path == path }
}
