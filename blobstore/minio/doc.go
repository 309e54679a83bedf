// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible servers (Ceph, Garage,
// SeaweedFS) without pulling in the AWS SDK.
//
// # Basic Usage
//
//	client, err := minioblob.Dial("localhost:9000", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "corpora", "")
//	ds, err := caret.Open(ctx, caret.Remote(store, "train.jsonl"))
//
// Dial reads credentials from MINIO_ACCESS_KEY/MINIO_SECRET_KEY, falling back
// to AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY.
package minio
