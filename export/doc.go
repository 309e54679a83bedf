// Package export writes a filtered copy of a dataset and duplicate reports.
//
// The dataset itself is never modified; exports stream into any io.Writer or
// into a blob through a blobstore.BlobStore, optionally compressed.
package export
