package dedup

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Summary holds the counts and timings of one scan.
type Summary struct {
	TotalLines     int
	UniqueCount    int
	DuplicateCount int

	// ParsedLines had structured text extracted; RawLines were fingerprinted
	// verbatim. MalformedLines is the subset of RawLines that failed to parse.
	ParsedLines    int
	RawLines       int
	MalformedLines int

	// Distances[d] counts duplicates whose distance to their representative is d.
	Distances [MaxThreshold + 1]int

	Strategy  string
	Threshold int

	FingerprintDuration time.Duration
	ClassifyDuration    time.Duration
	TotalDuration       time.Duration
}

// DedupRatio returns the fraction of lines that are duplicates.
func (s Summary) DedupRatio() float64 {
	if s.TotalLines == 0 {
		return 0
	}
	return float64(s.DuplicateCount) / float64(s.TotalLines)
}

// String renders a one-line summary, e.g.
// "1,000 total | 900 unique | 100 duplicates (10.0%) | 12ms | strategy: simhash(t=3)".
func (s Summary) String() string {
	return fmt.Sprintf("%s total | %s unique | %s duplicates (%.1f%%) | %dms | strategy: %s",
		humanize.Comma(int64(s.TotalLines)),
		humanize.Comma(int64(s.UniqueCount)),
		humanize.Comma(int64(s.DuplicateCount)),
		s.DedupRatio()*100,
		s.TotalDuration.Milliseconds(),
		s.Strategy,
	)
}
