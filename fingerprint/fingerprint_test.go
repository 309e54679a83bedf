package fingerprint

import (
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/caret/testutil"
)

func TestFNV1a_MatchesStdlib(t *testing.T) {
	for _, s := range []string{"", "a", "abcd", "the quick brown fox"} {
		h := fnv.New64a()
		_, _ = h.Write([]byte(s))
		assert.Equal(t, h.Sum64(), FNV1a([]byte(s)), s)
	}
}

func TestNew(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, ErrInvalidShingleWidth)

	h, err := New(DefaultShingleWidth)
	require.NoError(t, err)
	assert.Equal(t, 4, h.Width())
}

func TestSum_ShortInputIsSingleShingle(t *testing.T) {
	h, err := New(4)
	require.NoError(t, err)
	assert.Equal(t, FNV1a([]byte("abc")), h.Sum([]byte("abc")))
	assert.Equal(t, FNV1a([]byte("abcd")), h.Sum([]byte("abcd")))
	assert.Equal(t, FNV1a(nil), h.Sum(nil))
}

func TestSum_Deterministic(t *testing.T) {
	h, _ := New(4)
	s := []byte("deterministic content for hashing")
	assert.Equal(t, h.Sum(s), h.Sum(append([]byte(nil), s...)))
}

func TestSum_Similarity(t *testing.T) {
	h, _ := New(4)
	rng := testutil.NewRNG(99)

	base := rng.Sentence(120)
	near := base + " extra"
	far := rng.Sentence(120)

	dNear := Distance(h.Sum([]byte(base)), h.Sum([]byte(near)))
	dFar := Distance(h.Sum([]byte(base)), h.Sum([]byte(far)))
	assert.Less(t, dNear, dFar)
	assert.LessOrEqual(t, dNear, 10)
}

func TestDistance(t *testing.T) {
	rng := testutil.NewRNG(1)
	for range 100 {
		a, b := rng.Uint64(), rng.Uint64()
		assert.Equal(t, Distance(a, b), Distance(b, a))
		assert.Equal(t, 0, Distance(a, a))
		assert.GreaterOrEqual(t, Distance(a, b), 0)
		assert.LessOrEqual(t, Distance(a, b), 64)
	}
	assert.Equal(t, 64, Distance(0, ^uint64(0)))
	assert.Equal(t, 1, Distance(0b100, 0b000))
}

func TestFingerprint(t *testing.T) {
	h, _ := New(4)
	a := h.Fingerprint(3, []byte("hello world"))
	b := Fingerprint{Hash: a.Hash ^ 0b111, Line: 9}
	assert.Equal(t, 3, a.Line)
	assert.Equal(t, 3, a.Distance(b))
	assert.True(t, a.IsNear(b, 3))
	assert.False(t, a.IsNear(b, 2))
	assert.Contains(t, a.String(), "@3")
}

func BenchmarkSum(b *testing.B) {
	h, _ := New(DefaultShingleWidth)
	content := []byte(testutil.NewRNG(1).Sentence(200))
	b.SetBytes(int64(len(content)))
	for b.Loop() {
		_ = h.Sum(content)
	}
}
