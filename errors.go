package caret

import (
	"github.com/hupe1980/caret/dataset"
	"github.com/hupe1980/caret/dedup"
	"github.com/hupe1980/caret/extract"
	"github.com/hupe1980/caret/internal/resource"
)

// Sentinel errors re-exported from the packages that produce them, so callers
// can match with errors.Is without importing each package.
var (
	// ErrIO is returned when a dataset cannot be opened, mapped or fetched.
	ErrIO = dataset.ErrIO
	// ErrIndexOutOfRange is returned for line indices outside [0, LineCount).
	ErrIndexOutOfRange = dataset.ErrIndexOutOfRange
	// ErrInvalidEncoding is returned by Line for bytes that are not UTF-8.
	ErrInvalidEncoding = dataset.ErrInvalidEncoding
	// ErrClosed is returned when reading from a closed dataset.
	ErrClosed = dataset.ErrClosed
	// ErrInvalidConfig is returned for an invalid dedup configuration.
	ErrInvalidConfig = dedup.ErrInvalidConfig
	// ErrMalformedRecord tags lines that failed structured extraction.
	ErrMalformedRecord = extract.ErrMalformedRecord
	// ErrMemoryLimit is returned when a memory reservation exceeds the configured limit.
	ErrMemoryLimit = resource.ErrMemoryLimitExceeded
)
