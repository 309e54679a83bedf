package export

import (
	"context"
	"io"
	"iter"

	"github.com/hupe1980/caret/codec"
)

// Report is the part of a scan result a duplicate report needs.
// *dedup.Result satisfies it.
type Report interface {
	Canonical() iter.Seq2[int, int]
	DistanceOf(i int) (int, bool)
}

// ReportEntry is one line of a duplicate report.
type ReportEntry struct {
	Line      int `json:"line"`
	Canonical int `json:"canonical"`
	Distance  int `json:"distance"`
}

// WriteReport writes one JSON object per duplicate, in ascending line order,
// and returns the number of entries.
func WriteReport(ctx context.Context, r Report, w io.Writer) (int, error) {
	enc := codec.NewLineEncoder(w, codec.Default)
	n := 0
	for dup, rep := range r.Canonical() {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		d, _ := r.DistanceOf(dup)
		if err := enc.Encode(ReportEntry{Line: dup, Canonical: rep, Distance: d}); err != nil {
			return n, err
		}
		n++
	}
	return n, enc.Flush()
}
