// Package testutil provides testing utilities for caret.
//
// This package is intended for use in tests and benchmarks only.
//
// # Seeded randomness
//
//	rng := testutil.NewRNG(4711)
//	s := rng.Sentence(12)
//
// # Corpora with ground truth
//
//	c := rng.Corpus(testutil.CorpusConfig{Lines: 10_000, DuplicateRate: 0.2, Skew: 1.2})
//	path := testutil.WriteFile(t, "train.jsonl", c.Data)
//	// c.DupOf holds the expected duplicate -> canonical mapping.
package testutil
