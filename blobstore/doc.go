// Package blobstore provides byte-range access to datasets that do not live
// on the local disk, and a place to write exported results.
//
// BlobStore is the interface for reading and writing immutable blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, mmap reads, atomic temp+rename writes
//   - MemoryStore: in-process map, useful for tests and pipelines
//   - CachingStore: block cache in front of any other store
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Zero-copy
//
// A Blob that also implements Mappable exposes its bytes directly; the
// dataset loader uses that path instead of copying ranges.
package blobstore
