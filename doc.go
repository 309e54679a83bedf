// Package caret curates large line-delimited text corpora.
//
// A dataset is opened once, indexed by line, and then read at random without
// copying the underlying bytes. Duplicate detection fingerprints every line
// with SimHash and classifies lines in ascending order so the first
// occurrence of a cluster is always its canonical member.
//
// # Quick Start
//
// Local mode:
//
//	ctx := context.Background()
//	ds, _ := caret.Open(ctx, caret.Local("train.jsonl"))
//	defer ds.Close()
//
//	line, _ := ds.Line(42)
//
// Cloud mode:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("corpora/"))
//	ds, _ := caret.Open(ctx, caret.Remote(store, "train.jsonl.zst"), caret.WithBlockCache(256<<20))
//
// # Deduplication
//
//	res, _ := caret.RunDedup(ctx, ds, dedup.DefaultConfig())
//	fmt.Println(res.Summary())
//	// 1,000,000 total | 912,400 unique | 87,600 duplicates (8.8%) | 840ms | strategy: simhash(t=3)
//
//	rep, _ := res.CanonicalOf(17)
//
// Exact matching compares fingerprints for equality; fuzzy matching accepts
// any earlier representative within a Hamming threshold (default 3 bits).
//
// # Export
//
// The dataset is never modified. A cleaned copy is written through a
// BlobStore, optionally compressed:
//
//	out := blobstore.NewLocalStore("./out")
//	st, _ := caret.Export(ctx, ds, res, out, "train.dedup.jsonl.zst", export.Options{})
//	fmt.Println(st.Written, st.DigestHex())
//
// # Key Features
//
//   - Memory-mapped JSONL with a compact line offset index
//   - CSV/TSV and zstd/lz4/gzip inputs, stdin streams
//   - Remote datasets over S3 and MinIO with parallel ranged reads
//   - Deterministic results for any worker count
//   - Packed duplicate bitmask with roaring export
package caret
