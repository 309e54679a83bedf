package testutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)
	assert.Equal(t, a.Sentence(16), b.Sentence(16))
	assert.Equal(t, a.Uint64(), b.Uint64())

	first := a.Intn(1000)
	a.Reset()
	_ = a.Sentence(16)
	_ = a.Uint64()
	assert.Equal(t, first, a.Intn(1000))
}

func TestZipf(t *testing.T) {
	rng := NewRNG(1)
	counts := make([]int, 10)
	for range 5000 {
		v := rng.Zipf(10, 1.5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 10)
		counts[v]++
	}
	assert.Greater(t, counts[0], counts[9])
}

func TestCorpus(t *testing.T) {
	rng := NewRNG(42)
	c := rng.Corpus(CorpusConfig{Lines: 500, DuplicateRate: 0.3, Skew: 1.1})

	require.Len(t, c.Texts, 500)
	assert.Equal(t, 500, bytes.Count(c.Data, []byte{'\n'}))
	assert.NotEmpty(t, c.DupOf)

	for dup, first := range c.DupOf {
		assert.Less(t, first, dup)
		assert.Equal(t, c.Texts[first], c.Texts[dup])
		_, firstIsDup := c.DupOf[first]
		assert.False(t, firstIsDup)
	}
	assert.Equal(t, 500-len(c.DupOf), c.Unique())
}

func TestJSONL(t *testing.T) {
	assert.Nil(t, JSONL())
	assert.Equal(t, "a\nb\n", string(JSONL("a", "b")))
}
