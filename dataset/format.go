package dataset

import (
	"path/filepath"
	"strings"

	"github.com/hupe1980/caret/internal/compress"
)

// Format is the record layout of a dataset file.
type Format uint8

const (
	// Auto selects the format from the file name.
	Auto Format = iota
	// JSONL is one JSON record per line. JSON, NDJSON and unknown extensions map here.
	JSONL
	// CSV is comma-separated values with a header row.
	CSV
	// TSV is tab-separated values with a header row.
	TSV
)

func (f Format) String() string {
	switch f {
	case JSONL:
		return "jsonl"
	case CSV:
		return "csv"
	case TSV:
		return "tsv"
	default:
		return "auto"
	}
}

// DetectFormat infers the format from the file extension, ignoring a
// trailing compression extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(compress.TrimExt(path))) {
	case ".csv":
		return CSV
	case ".tsv", ".tab":
		return TSV
	default:
		return JSONL
	}
}

// ParseFormat parses a user-supplied format name.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(name) {
	case "", "auto":
		return Auto, true
	case "jsonl", "json", "ndjson":
		return JSONL, true
	case "csv":
		return CSV, true
	case "tsv":
		return TSV, true
	default:
		return Auto, false
	}
}

func (f Format) resolve(name string) Format {
	if f == Auto {
		return DetectFormat(name)
	}
	return f
}

func (f Format) comma() rune {
	if f == TSV {
		return '\t'
	}
	return ','
}
