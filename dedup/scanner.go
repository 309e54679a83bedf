package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/caret/bitmask"
	"github.com/hupe1980/caret/extract"
	"github.com/hupe1980/caret/fingerprint"
	"github.com/hupe1980/caret/internal/resource"
)

// Source is the read side of a dataset as seen by the scanner.
// *dataset.Dataset satisfies it.
type Source interface {
	LineCount() int
	RawLine(i int) ([]byte, error)
}

// kind tags how a line's content was obtained in Phase 1.
type kind uint8

const (
	kindParsed kind = iota
	kindRaw
	kindMalformed
)

// Scanner classifies every line of a Source as unique or duplicate.
// A Scanner is stateless between scans and safe for concurrent use.
type Scanner struct {
	workers   int
	chunkSize int
	logger    *slog.Logger
	rc        *resource.Controller
}

// NewScanner returns a Scanner configured by opts.
func NewScanner(opts ...Option) *Scanner {
	s := defaultScanner()
	for _, opt := range opts {
		opt(s)
	}
	if m := s.rc.MaxWorkers(); m > 0 && int64(s.workers) > m {
		s.workers = int(m)
	}
	return s
}

// Workers returns the Phase 1 worker count.
func (s *Scanner) Workers() int { return s.workers }

// Scan fingerprints every line in parallel, then classifies lines in
// ascending order so the canonical member of each cluster is always its
// lowest line index.
//
// On cancellation no partial result is returned.
func (s *Scanner) Scan(ctx context.Context, src Source, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Strategy == Fuzzy && cfg.Threshold > RecommendedMaxThreshold {
		s.logger.Warn("dedup threshold above recommended maximum",
			"threshold", cfg.Threshold, "recommended", RecommendedMaxThreshold)
	}

	hasher, err := fingerprint.New(cfg.ShingleWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	n := src.LineCount()
	if n == 0 {
		return newResult(0, cfg), nil
	}

	reserve := workingSetBytes(n)
	if err := s.rc.AcquireMemory(reserve); err != nil {
		return nil, fmt.Errorf("dedup: reserve %d bytes for %d lines (limit %d): %w", reserve, n, s.rc.MemoryLimit(), err)
	}
	defer s.rc.ReleaseMemory(reserve)

	start := time.Now()
	fps, kinds, err := s.fingerprintAll(ctx, src, hasher)
	if err != nil {
		return nil, err
	}
	fpDur := time.Since(start)

	classifyStart := time.Now()
	res, err := classify(ctx, fps, cfg)
	if err != nil {
		return nil, err
	}

	sum := &res.summary
	for _, k := range kinds {
		switch k {
		case kindParsed:
			sum.ParsedLines++
		case kindRaw:
			sum.RawLines++
		case kindMalformed:
			sum.RawLines++
			sum.MalformedLines++
		}
	}
	sum.FingerprintDuration = fpDur
	sum.ClassifyDuration = time.Since(classifyStart)
	sum.TotalDuration = time.Since(start)

	s.logger.Debug("dedup scan complete",
		"lines", n,
		"duplicates", sum.DuplicateCount,
		"strategy", sum.Strategy,
		"workers", s.workers,
		"fingerprint", fpDur,
		"classify", sum.ClassifyDuration,
	)
	return res, nil
}

// workingSetBytes estimates the fingerprint table, kind tags and mask.
func workingSetBytes(n int) int64 {
	per := int64(unsafe.Sizeof(fingerprint.Fingerprint{})) + 1
	return int64(n)*per + int64(bitmask.WordsFor(n)*8)
}

// fingerprintAll is Phase 1. Each task owns a disjoint range of slots.
func (s *Scanner) fingerprintAll(ctx context.Context, src Source, h *fingerprint.Hasher) ([]fingerprint.Fingerprint, []kind, error) {
	n := src.LineCount()
	fps := make([]fingerprint.Fingerprint, n)
	kinds := make([]kind, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for lo := 0; lo < n; lo += s.chunkSize {
		hi := min(lo+s.chunkSize, n)
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Worker slots are shared with any other scan using the same controller.
			if err := s.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer s.rc.ReleaseWorker()

			ex := extract.Acquire()
			defer extract.Release(ex)

			for i := lo; i < hi; i++ {
				line, err := src.RawLine(i)
				if err != nil {
					return err
				}
				o := ex.Extract(line)
				switch {
				case o.Err != nil:
					kinds[i] = kindMalformed
				case o.Kind == extract.Raw:
					kinds[i] = kindRaw
				}
				fps[i] = h.Fingerprint(i, o.Content)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	// A cancel that raced the last dispatched task still aborts the scan.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return fps, kinds, nil
}

// classify is Phase 2. It walks fps in ascending order on one goroutine.
func classify(ctx context.Context, fps []fingerprint.Fingerprint, cfg Config) (*Result, error) {
	n := len(fps)
	res := newResult(n, cfg)
	res.fps = fps

	// firstSeen maps a registered hash to its lowest line index.
	firstSeen := make(map[uint64]int)
	// registered holds first-seen fingerprints in ascending line order.
	var registered []fingerprint.Fingerprint

	for i, fp := range fps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if rep, ok := firstSeen[fp.Hash]; ok {
			res.markDuplicate(i, rep, 0)
			continue
		}

		if cfg.Strategy == Fuzzy && cfg.Threshold > 0 {
			best, bestDist := -1, cfg.Threshold+1
			for _, r := range registered {
				// Strict less keeps the lowest line index on ties.
				if d := fingerprint.Distance(fp.Hash, r.Hash); d < bestDist {
					best, bestDist = r.Line, d
				}
			}
			if best >= 0 {
				res.markDuplicate(i, best, bestDist)
				continue
			}
		}

		firstSeen[fp.Hash] = i
		if cfg.Strategy == Fuzzy {
			registered = append(registered, fp)
		}
	}

	res.summary.UniqueCount = n - res.summary.DuplicateCount
	return res, nil
}
