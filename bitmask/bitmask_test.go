package bitmask

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitMask_SetGet(t *testing.T) {
	m := New(130)
	assert.Equal(t, 130, m.Len())
	assert.Equal(t, 0, m.Count())

	for _, i := range []int{0, 63, 64, 129} {
		m.Set(i)
	}
	for _, i := range []int{0, 63, 64, 129} {
		assert.True(t, m.Get(i), i)
	}
	assert.False(t, m.Get(1))
	assert.False(t, m.Get(128))
	assert.Equal(t, 4, m.Count())

	// Setting twice is idempotent.
	m.Set(63)
	assert.Equal(t, 4, m.Count())
}

func TestBitMask_OutOfRange(t *testing.T) {
	m := New(10)
	m.Set(10)
	m.Set(1000)
	m.Set(-1)
	assert.Equal(t, 10, m.Len())
	assert.Equal(t, 0, m.Count())
	assert.False(t, m.Get(10))
	assert.False(t, m.Get(-1))
	assert.Len(t, m.Words(), 1)
}

func TestBitMask_SizeBytes(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 8},
		{64, 8},
		{65, 16},
		{1_000_000, 125_000},
	}
	for _, tt := range tests {
		m := New(tt.n)
		assert.Equal(t, tt.want, m.SizeBytes(), tt.n)
		assert.Equal(t, tt.want/8, len(m.Words()), tt.n)
	}
}

func TestBitMask_WordLayout(t *testing.T) {
	m := New(128)
	m.Set(1)
	m.Set(65)
	w := m.Words()
	require.Len(t, w, 2)
	assert.Equal(t, uint64(0b10), w[0])
	assert.Equal(t, uint64(0b10), w[1])
}

func TestBitMask_All(t *testing.T) {
	m := New(200)
	want := []int{3, 64, 150, 199}
	for _, i := range want {
		m.Set(i)
	}
	assert.Equal(t, want, slices.Collect(m.All()))

	var first []int
	for i := range m.All() {
		first = append(first, i)
		break
	}
	assert.Equal(t, []int{3}, first)
}

func TestBitMask_ToRoaring(t *testing.T) {
	m := New(100)
	m.Set(5)
	m.Set(99)
	rb := m.ToRoaring()
	assert.Equal(t, uint64(2), rb.GetCardinality())
	assert.True(t, rb.Contains(5))
	assert.True(t, rb.Contains(99))
	assert.False(t, rb.Contains(6))
}
