package fingerprint

import (
	"errors"
	"fmt"
	"math/bits"
)

// DefaultShingleWidth is the shingle width in bytes used when none is configured.
const DefaultShingleWidth = 4

// Bits is the fingerprint width.
const Bits = 64

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// ErrInvalidShingleWidth is returned for a shingle width below 1.
var ErrInvalidShingleWidth = errors.New("fingerprint: shingle width must be >= 1")

// Fingerprint is the SimHash of one line's content.
type Fingerprint struct {
	Hash uint64
	Line int
}

// Distance returns the Hamming distance to o.
func (f Fingerprint) Distance(o Fingerprint) int {
	return Distance(f.Hash, o.Hash)
}

// IsNear reports whether o is within threshold bits of f.
func (f Fingerprint) IsNear(o Fingerprint, threshold int) bool {
	return f.Distance(o) <= threshold
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x@%d", f.Hash, f.Line)
}

// Distance returns the number of differing bits between a and b.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// FNV1a returns the 64-bit FNV-1a hash of data.
func FNV1a(data []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range data {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

// Hasher computes SimHash fingerprints over fixed-width byte shingles.
// It holds no mutable state and is safe for concurrent use.
type Hasher struct {
	width int
}

// New returns a Hasher with the given shingle width.
func New(width int) (*Hasher, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShingleWidth, width)
	}
	return &Hasher{width: width}, nil
}

// Width returns the shingle width.
func (h *Hasher) Width() int { return h.width }

// Sum returns the SimHash of content. Each shingle's FNV-1a hash votes +1 or
// -1 on every bit position; a bit is set iff its vote total is positive.
// Content shorter than the width is hashed as a single shingle.
func (h *Hasher) Sum(content []byte) uint64 {
	if len(content) <= h.width {
		return FNV1a(content)
	}

	var acc [Bits]int32
	for i := 0; i+h.width <= len(content); i++ {
		v := FNV1a(content[i : i+h.width])
		for b := range Bits {
			// +1 when the bit is set, -1 otherwise.
			acc[b] += int32((v>>b)&1)*2 - 1
		}
	}

	var out uint64
	for b := range Bits {
		if acc[b] > 0 {
			out |= 1 << b
		}
	}
	return out
}

// Fingerprint hashes content and tags the result with its line index.
func (h *Hasher) Fingerprint(line int, content []byte) Fingerprint {
	return Fingerprint{Hash: h.Sum(content), Line: line}
}
