package bitmask

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/bits-and-blooms/bitset"
)

// BitMask is a fixed-length set of flags, one per line, packed 64 per word.
// The length is fixed at construction and never grows.
//
// Set is not safe for concurrent use; readers may share a mask once writing
// has finished.
type BitMask struct {
	bits *bitset.BitSet
	n    int
}

// New returns a mask of n cleared flags.
func New(n int) *BitMask {
	if n < 0 {
		n = 0
	}
	return &BitMask{bits: bitset.New(uint(n)), n: n}
}

// Set raises flag i. Indices outside [0, Len) are ignored.
func (m *BitMask) Set(i int) {
	if i < 0 || i >= m.n {
		return
	}
	m.bits.Set(uint(i))
}

// Get reports flag i. Indices outside [0, Len) report false.
func (m *BitMask) Get(i int) bool {
	if i < 0 || i >= m.n {
		return false
	}
	return m.bits.Test(uint(i))
}

// Len returns the number of flags.
func (m *BitMask) Len() int { return m.n }

// Count returns the number of raised flags.
func (m *BitMask) Count() int { return int(m.bits.Count()) }

// Words returns the backing words. The slice is shared with the mask.
func (m *BitMask) Words() []uint64 { return m.bits.Words() }

// SizeBytes returns the footprint of the backing words.
func (m *BitMask) SizeBytes() int { return WordsFor(m.n) * 8 }

// All yields the indices of raised flags in ascending order.
func (m *BitMask) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, ok := m.bits.NextSet(0); ok; i, ok = m.bits.NextSet(i + 1) {
			if !yield(int(i)) {
				return
			}
		}
	}
}

// ToRoaring copies the raised flags into a compressed roaring bitmap.
func (m *BitMask) ToRoaring() *roaring64.Bitmap {
	rb := roaring64.New()
	for i := range m.All() {
		rb.Add(uint64(i))
	}
	rb.RunOptimize()
	return rb
}

// WordsFor returns ceil(n/64).
func WordsFor(n int) int {
	return (n + 63) / 64
}
