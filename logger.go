package caret

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/caret/dedup"
	"github.com/hupe1980/caret/export"
)

// Logger wraps slog.Logger with caret-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithDataset adds the dataset name to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// WithStrategy adds the dedup strategy label to the logger.
func (l *Logger) WithStrategy(cfg dedup.Config) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", cfg.String()),
	}
}

// LogOpen logs a dataset open.
func (l *Logger) LogOpen(ctx context.Context, name string, lines int, size string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"dataset", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset opened",
			"dataset", name,
			"lines", lines,
			"size", size,
		)
	}
}

// LogScan logs a dedup scan.
func (l *Logger) LogScan(ctx context.Context, sum dedup.Summary, err error) {
	if err != nil {
		l.ErrorContext(ctx, "scan failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "scan completed",
			"total", sum.TotalLines,
			"unique", sum.UniqueCount,
			"duplicates", sum.DuplicateCount,
			"malformed", sum.MalformedLines,
			"strategy", sum.Strategy,
			"duration", sum.TotalDuration,
		)
	}
}

// LogExport logs an export.
func (l *Logger) LogExport(ctx context.Context, name string, st export.Stats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed",
			"target", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "export completed",
			"target", name,
			"written", st.Written,
			"skipped", st.Skipped,
			"bytes", st.Bytes,
			"blake3", st.DigestHex(),
		)
	}
}
