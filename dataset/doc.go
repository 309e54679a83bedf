// Package dataset provides random access to the lines of a dataset file.
//
// A [Dataset] pairs an immutable byte region with a line offset index, so
// LineCount is O(1) and Line(i) is two offset loads plus a slice: no copy,
// no parse. Lines are returned as views into the region and stay valid
// until Close.
//
// Inputs:
//
//   - local files, memory-mapped ([Open])
//   - streams such as stdin ([OpenReader])
//   - blobs from a blobstore.BlobStore ([OpenBlob]), zero-copy when the blob
//     is Mappable, otherwise fetched with parallel ranged reads
//
// zstd, lz4 and gzip inputs are detected by magic bytes and decoded into
// memory. CSV and TSV inputs are converted to one JSON object per row.
package dataset
