// Package cache provides LRU caching for immutable blob blocks.
//
// Remote datasets are fetched in fixed-size ranges. When the same blob is
// opened repeatedly (for example an interactive CLI session probing lines of
// an S3 object), the CachingStore in package blobstore keeps recently fetched
// blocks here instead of going back to the network.
//
//   - [LRUBlockCache]: single mutex, byte-capacity bound
//   - [ShardedLRUBlockCache]: 64 shards selected by maphash of (path, offset)
//
// Both charge cached bytes against an optional resource.Controller so the
// cache shares the process memory budget with the duplicate scanner.
package cache
