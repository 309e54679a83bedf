package dedup

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/caret/internal/resource"
)

// DefaultChunkSize is the number of lines fingerprinted per Phase 1 task.
const DefaultChunkSize = 4096

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers sets the Phase 1 worker count. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithChunkSize sets how many lines one Phase 1 task covers.
func WithChunkSize(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithResourceController sets the controller that accounts scan memory and
// caps workers.
func WithResourceController(rc *resource.Controller) Option {
	return func(s *Scanner) {
		s.rc = rc
	}
}

func defaultScanner() *Scanner {
	return &Scanner{
		workers:   runtime.GOMAXPROCS(0),
		chunkSize: DefaultChunkSize,
		logger:    slog.New(slog.DiscardHandler),
	}
}
