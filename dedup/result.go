package dedup

import (
	"iter"
	"maps"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/caret/bitmask"
	"github.com/hupe1980/caret/dataset"
	"github.com/hupe1980/caret/fingerprint"
)

// ErrIndexOutOfRange is returned by CanonicalOf for indices outside the scan.
var ErrIndexOutOfRange = dataset.ErrIndexOutOfRange

// Result is the immutable outcome of one scan.
type Result struct {
	mask      *bitmask.BitMask
	canonical map[int]int   // duplicate -> representative
	distance  map[int]uint8 // duplicate -> Hamming distance to representative
	fps       []fingerprint.Fingerprint
	summary   Summary
}

func newResult(n int, cfg Config) *Result {
	return &Result{
		mask:      bitmask.New(n),
		canonical: make(map[int]int),
		distance:  make(map[int]uint8),
		summary: Summary{
			TotalLines:  n,
			UniqueCount: n,
			Strategy:    cfg.String(),
			Threshold:   cfg.Threshold,
		},
	}
}

func (r *Result) markDuplicate(i, rep, dist int) {
	r.mask.Set(i)
	r.canonical[i] = rep
	r.distance[i] = uint8(dist)
	r.summary.DuplicateCount++
	r.summary.Distances[dist]++
}

// Len returns the number of lines scanned.
func (r *Result) Len() int { return r.mask.Len() }

// IsDuplicate reports whether line i was classified as a duplicate.
func (r *Result) IsDuplicate(i int) bool { return r.mask.Get(i) }

// CanonicalOf returns the representative of line i, which is i itself for
// unique lines.
func (r *Result) CanonicalOf(i int) (int, error) {
	if i < 0 || i >= r.mask.Len() {
		return 0, &dataset.IndexError{Index: i, Count: r.mask.Len()}
	}
	if rep, ok := r.canonical[i]; ok {
		return rep, nil
	}
	return i, nil
}

// DistanceOf returns the Hamming distance between duplicate i and its
// representative. ok is false for unique or out-of-range lines.
func (r *Result) DistanceOf(i int) (d int, ok bool) {
	v, ok := r.distance[i]
	return int(v), ok
}

// Canonical yields (duplicate, representative) pairs in ascending duplicate order.
func (r *Result) Canonical() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i := range r.mask.All() {
			if !yield(i, r.canonical[i]) {
				return
			}
		}
	}
}

// CanonicalMap returns a copy of the duplicate to representative map.
func (r *Result) CanonicalMap() map[int]int {
	return maps.Clone(r.canonical)
}

// Mask returns the duplicate flags. The mask is shared; callers must not Set it.
func (r *Result) Mask() *bitmask.BitMask { return r.mask }

// Fingerprints returns the per-line fingerprints indexed by line.
// The slice is shared with the result.
func (r *Result) Fingerprints() []fingerprint.Fingerprint { return r.fps }

// Summary returns the scan statistics.
func (r *Result) Summary() Summary { return r.summary }

// Duplicates returns the duplicate line set as a roaring bitmap.
func (r *Result) Duplicates() *roaring64.Bitmap { return r.mask.ToRoaring() }

// Clusters maps each representative that has at least one duplicate to the
// set of its members, representative included.
func (r *Result) Clusters() map[int]*roaring64.Bitmap {
	out := make(map[int]*roaring64.Bitmap)
	for dup, rep := range r.Canonical() {
		c, ok := out[rep]
		if !ok {
			c = roaring64.New()
			c.Add(uint64(rep))
			out[rep] = c
		}
		c.Add(uint64(dup))
	}
	return out
}
