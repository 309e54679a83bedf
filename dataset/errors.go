package dataset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/caret/bytestore"
)

var (
	// ErrIO is returned when the dataset cannot be opened or read.
	ErrIO = bytestore.ErrIO
	// ErrClosed is returned by accessors after Close.
	ErrClosed = bytestore.ErrClosed
	// ErrIndexOutOfRange is returned for a line index outside [0, LineCount()).
	ErrIndexOutOfRange = errors.New("dataset: line index out of range")
	// ErrInvalidEncoding is returned by Line when the line is not valid UTF-8.
	ErrInvalidEncoding = errors.New("dataset: line is not valid UTF-8")
	// ErrUnsupportedFormat is returned for a format name that cannot be loaded.
	ErrUnsupportedFormat = errors.New("dataset: unsupported format")
)

// IndexError reports an out-of-range line access.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("dataset: line %d out of range [0, %d)", e.Index, e.Count)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// EncodingError reports a line that is not valid UTF-8.
type EncodingError struct {
	Index  int
	Offset int // byte offset of the first invalid sequence within the line
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("dataset: line %d: invalid UTF-8 at byte %d", e.Index, e.Offset)
}

// Unwrap returns ErrInvalidEncoding.
func (e *EncodingError) Unwrap() error { return ErrInvalidEncoding }
