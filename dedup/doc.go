// Package dedup finds duplicate and near-duplicate lines in a dataset.
//
// A scan runs in two phases. Phase 1 extracts and fingerprints every line on
// a bounded worker pool; each task writes only its own slots, so completion
// order does not matter. Phase 2 walks the fingerprints in ascending line
// order on a single goroutine and registers first occurrences, which makes
// the canonical member of every cluster its lowest line index regardless of
// worker count or scheduling.
//
// Basic usage:
//
//	res, err := dedup.NewScanner().Scan(ctx, ds, dedup.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Summary())
//
// The Exact strategy matches equal fingerprints. Fuzzy matches any registered
// fingerprint within the Hamming threshold, preferring the lowest distance
// and then the lowest line index. A threshold of 0 behaves like Exact.
package dedup
