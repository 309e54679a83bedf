// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("corpora/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	ds, err := caret.Open(ctx, caret.Remote(store, "train.jsonl"))
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart streaming uploads for exports
//   - Automatic pagination for listing
//   - Optional custom endpoint for S3-compatible services
package s3
