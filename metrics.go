package caret

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    scanHistogram prometheus.Histogram
//	    duplicates    prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordScan(lines, duplicates int, d time.Duration, err error) {
//	    p.scanHistogram.Observe(d.Seconds())
//	    p.duplicates.Add(float64(duplicates))
//	}
type MetricsCollector interface {
	// RecordOpen is called after each dataset open.
	// bytes is the dataset size, err is nil if successful.
	RecordOpen(lines int, bytes int64, duration time.Duration, err error)

	// RecordScan is called after each dedup scan.
	RecordScan(lines, duplicates int, duration time.Duration, err error)

	// RecordExport is called after each export.
	// written is the number of lines kept, bytes their uncompressed size.
	RecordExport(written int, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(int, int64, time.Duration, error)   {}
func (NoopMetricsCollector) RecordScan(int, int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordExport(int, int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount      atomic.Int64
	OpenErrors     atomic.Int64
	OpenBytes      atomic.Int64
	ScanCount      atomic.Int64
	ScanErrors     atomic.Int64
	ScanLines      atomic.Int64
	ScanDuplicates atomic.Int64
	ScanTotalNanos atomic.Int64
	ExportCount    atomic.Int64
	ExportErrors   atomic.Int64
	ExportLines    atomic.Int64
	ExportBytes    atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(lines int, bytes int64, duration time.Duration, err error) {
	b.OpenCount.Add(1)
	if err != nil {
		b.OpenErrors.Add(1)
		return
	}
	b.OpenBytes.Add(bytes)
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(lines, duplicates int, duration time.Duration, err error) {
	b.ScanCount.Add(1)
	b.ScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ScanErrors.Add(1)
		return
	}
	b.ScanLines.Add(int64(lines))
	b.ScanDuplicates.Add(int64(duplicates))
}

// RecordExport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExport(written int, bytes int64, duration time.Duration, err error) {
	b.ExportCount.Add(1)
	if err != nil {
		b.ExportErrors.Add(1)
		return
	}
	b.ExportLines.Add(int64(written))
	b.ExportBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:      b.OpenCount.Load(),
		OpenErrors:     b.OpenErrors.Load(),
		OpenBytes:      b.OpenBytes.Load(),
		ScanCount:      b.ScanCount.Load(),
		ScanErrors:     b.ScanErrors.Load(),
		ScanLines:      b.ScanLines.Load(),
		ScanDuplicates: b.ScanDuplicates.Load(),
		ScanAvgNanos:   b.getAvgScanNanos(),
		ExportCount:    b.ExportCount.Load(),
		ExportErrors:   b.ExportErrors.Load(),
		ExportLines:    b.ExportLines.Load(),
		ExportBytes:    b.ExportBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgScanNanos() int64 {
	count := b.ScanCount.Load()
	if count == 0 {
		return 0
	}
	return b.ScanTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount      int64
	OpenErrors     int64
	OpenBytes      int64
	ScanCount      int64
	ScanErrors     int64
	ScanLines      int64
	ScanDuplicates int64
	ScanAvgNanos   int64
	ExportCount    int64
	ExportErrors   int64
	ExportLines    int64
	ExportBytes    int64
}
