// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with read/write/sync capabilities
//   - [FileSystem]: filesystem operations (open, remove, rename, etc.)
//
// # Implementations
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test utility that injects write, sync, close and rename failures
//
// Only the write side of the module goes through this package (local blob
// writes used by exports). Dataset reads are memory-mapped directly.
//
// Filesystem operations take no context.Context: local syscalls are not
// interruptible. Slow backends (S3, MinIO) live behind blobstore, which is
// context-aware.
package fs
