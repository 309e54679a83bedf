// Package bytestore exposes a dataset's bytes as one contiguous, immutable region.
//
// Files are memory-mapped read-only ([OpenFile]); everything else
// (stdin, decompressed input, remote blobs fetched into memory) is wrapped
// with [FromBytes]. No API mutates the region, so concurrent readers need
// no locking.
package bytestore
