// Package lineindex records where every line of a byte region starts.
package lineindex

import (
	"bytes"
	"errors"
	"math/bits"
)

// ErrOutOfRange is returned for a line index outside [0, Len()).
var ErrOutOfRange = errors.New("lineindex: index out of range")

// Index holds the start offset of every line. Offsets are strictly
// increasing and each is either 0 or one past a '\n'.
type Index struct {
	starts   []int
	size     int
	trailing bool // data ends with '\n'
}

// Build scans data once. The first line starts at 0 (if data is non-empty);
// every '\n' starts a new line unless it is the last byte.
func Build(data []byte) *Index {
	idx := &Index{size: len(data)}
	if len(data) == 0 {
		return idx
	}
	idx.trailing = data[len(data)-1] == '\n'

	// Rough guess of 128 bytes per record keeps regrowth rare on typical corpora.
	idx.starts = make([]int, 1, len(data)/128+1)
	for pos := 0; ; {
		i := bytes.IndexByte(data[pos:], '\n')
		if i < 0 {
			break
		}
		next := pos + i + 1
		if next >= len(data) {
			break
		}
		idx.starts = append(idx.starts, next)
		pos = next
	}
	return idx
}

// Len returns the number of lines.
func (x *Index) Len() int { return len(x.starts) }

// ByteRange returns [start, end) of line i, excluding its '\n'.
// A '\r' before the '\n' stays part of the line.
func (x *Index) ByteRange(i int) (start, end int, err error) {
	if i < 0 || i >= len(x.starts) {
		return 0, 0, ErrOutOfRange
	}
	start = x.starts[i]
	if i+1 < len(x.starts) {
		end = x.starts[i+1] - 1
	} else {
		end = x.size
		if x.trailing {
			end--
		}
	}
	return start, end, nil
}

// SizeBytes reports the memory held by the offset table.
func (x *Index) SizeBytes() int {
	return cap(x.starts) * (bits.UintSize / 8)
}
