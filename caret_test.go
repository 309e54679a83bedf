package caret

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/caret/blobstore"
	"github.com/hupe1980/caret/dataset"
	"github.com/hupe1980/caret/dedup"
	"github.com/hupe1980/caret/export"
	"github.com/hupe1980/caret/testutil"
)

func TestOpen_Local(t *testing.T) {
	path := testutil.WriteFile(t, "d.jsonl", testutil.JSONL(`{"text":"a"}`, `{"text":"b"}`))
	metrics := &BasicMetricsCollector{}

	ds, err := Open(t.Context(), Local(path), WithMetricsCollector(metrics))
	require.NoError(t, err)
	defer ds.Close()

	assert.Equal(t, 2, ds.LineCount())
	assert.True(t, ds.ZeroCopy())

	line, err := ds.Line(1)
	require.NoError(t, err)
	assert.Equal(t, `{"text":"b"}`, line)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.OpenCount)
	assert.Equal(t, ds.Size(), stats.OpenBytes)
}

func TestOpen_Errors(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	_, err := Open(t.Context(), Local(filepath.Join(t.TempDir(), "missing.jsonl")), WithMetricsCollector(metrics))
	assert.ErrorIs(t, err, ErrIO)

	_, err = Open(t.Context(), Remote(blobstore.NewMemoryStore(), "missing.jsonl"))
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = Open(ctx, Local("whatever"))
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, int64(1), metrics.GetStats().OpenErrors)
}

func TestOpen_Remote(t *testing.T) {
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(t.Context(), "r.jsonl", testutil.JSONL(`{"text":"x"}`, `{"text":"y"}`)))

	cached := WithBlockCache(1 << 20)
	for range 2 {
		ds, err := Open(t.Context(), Remote(store, "r.jsonl"), cached, WithBlockSize(4))
		require.NoError(t, err)
		assert.Equal(t, 2, ds.LineCount())
		require.NoError(t, ds.Close())
	}
}

func TestOpen_Stream(t *testing.T) {
	data := testutil.JSONL(`{"text":"s1"}`, `{"text":"s2"}`, `{"text":"s3"}`)
	ds, err := Open(t.Context(), Stream("stdin", bytes.NewReader(data)), WithIORateLimit(1<<20), WithFormat(dataset.JSONL))
	require.NoError(t, err)
	defer ds.Close()
	assert.Equal(t, 3, ds.LineCount())
	assert.False(t, ds.ZeroCopy())
}

func TestOpen_MemoryLimit(t *testing.T) {
	data := testutil.JSONL(`{"text":"0123456789"}`, `{"text":"abcdefghij"}`)
	_, err := Open(t.Context(), Stream("in.jsonl", bytes.NewReader(data)), WithMemoryLimit(8))
	assert.ErrorIs(t, err, ErrMemoryLimit)
}

func TestWithLimits_SharedBudget(t *testing.T) {
	rows := make([]string, 100)
	for i := range rows {
		rows[i] = fmt.Sprintf(`{"text":"line %03d"}`, i)
	}
	data := testutil.JSONL(rows...)
	// Room for the dataset or the scan working set, not both.
	limit := int64(len(data)) + 1000

	open := func(opt Option) *dataset.Dataset {
		ds, err := Open(t.Context(), Stream("in.jsonl", bytes.NewReader(data)), opt, WithFormat(dataset.JSONL))
		require.NoError(t, err)
		return ds
	}

	t.Run("per call", func(t *testing.T) {
		opt := WithMemoryLimit(limit)
		ds := open(opt)
		defer ds.Close()

		_, err := RunDedup(t.Context(), ds, dedup.DefaultConfig(), opt)
		require.NoError(t, err)
	})

	t.Run("shared", func(t *testing.T) {
		opt := WithLimits(limit, 0)
		ds := open(opt)

		_, err := RunDedup(t.Context(), ds, dedup.DefaultConfig(), opt)
		assert.ErrorIs(t, err, ErrMemoryLimit)

		require.NoError(t, ds.Close())
		small := dataset.FromBytes("small.jsonl", testutil.JSONL(rows[:10]...))
		defer small.Close()
		_, err = RunDedup(t.Context(), small, dedup.DefaultConfig(), opt)
		require.NoError(t, err)
	})
}

func TestRunDedup(t *testing.T) {
	c := testutil.NewRNG(42).Corpus(testutil.CorpusConfig{Lines: 400, DuplicateRate: 0.3})
	path := testutil.WriteFile(t, "c.jsonl", c.Data)

	var logs bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&logs, nil))
	metrics := &BasicMetricsCollector{}

	ds, err := Open(t.Context(), Local(path))
	require.NoError(t, err)
	defer ds.Close()

	res, err := RunDedup(t.Context(), ds, dedup.ExactConfig(),
		WithLogger(logger), WithMetricsCollector(metrics), WithWorkers(4), WithChunkSize(32))
	require.NoError(t, err)

	assert.Equal(t, c.DupOf, res.CanonicalMap())
	assert.Contains(t, logs.String(), `"msg":"scan completed"`)
	assert.Contains(t, logs.String(), `"strategy":"exact"`)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.ScanCount)
	assert.Equal(t, int64(400), stats.ScanLines)
	assert.Equal(t, int64(len(c.DupOf)), stats.ScanDuplicates)
}

func TestRunDedup_Errors(t *testing.T) {
	ds := dataset.FromBytes("x.jsonl", []byte("a\nb\n"))
	defer ds.Close()

	_, err := RunDedup(t.Context(), ds, dedup.Config{Strategy: dedup.Fuzzy, Threshold: 65, ShingleWidth: 4})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = RunDedup(t.Context(), ds, dedup.DefaultConfig(), WithMemoryLimit(1))
	assert.ErrorIs(t, err, ErrMemoryLimit)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	res, err := RunDedup(ctx, ds, dedup.DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestExport(t *testing.T) {
	ds := dataset.FromBytes("e.jsonl", testutil.JSONL(`{"text":"a"}`, `{"text":"b"}`, `{"text":"a"}`))
	defer ds.Close()

	res, err := RunDedup(t.Context(), ds, dedup.ExactConfig())
	require.NoError(t, err)

	dir := t.TempDir()
	metrics := &BasicMetricsCollector{}
	st, err := Export(t.Context(), ds, res, blobstore.NewLocalStore(dir), "clean.jsonl", export.Options{},
		WithMetricsCollector(metrics))
	require.NoError(t, err)
	assert.Equal(t, 2, st.Written)

	got, err := os.ReadFile(filepath.Join(dir, "clean.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, "{\"text\":\"a\"}\n{\"text\":\"b\"}\n", string(got))
	assert.Equal(t, int64(2), metrics.GetStats().ExportLines)

	// A nil result keeps every line.
	st, err = Export(t.Context(), ds, nil, blobstore.NewMemoryStore(), "all.jsonl", export.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, st.Written)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.WithDataset("train.jsonl").Info("hello")
	assert.Contains(t, buf.String(), "dataset=train.jsonl")

	buf.Reset()
	l.LogOpen(t.Context(), "x.jsonl", 0, "", fmt.Errorf("boom"))
	assert.Contains(t, buf.String(), "open failed")

	NoopLogger().Info("discarded")
	assert.NotNil(t, NewJSONLogger(slog.LevelInfo))
	assert.NotNil(t, NewTextLogger(slog.LevelInfo))
	assert.NotNil(t, NewLogger(nil))
}
