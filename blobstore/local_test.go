package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/caret/internal/fs"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	data := []byte("{\"text\":\"hello world\"}\n{\"text\":\"second\"}\n")

	w, err := store.Create(ctx, "shards/part-0.jsonl")
	require.NoError(t, err)
	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	// Not visible until Close.
	_, err = os.Stat(filepath.Join(tmpDir, "shards", "part-0.jsonl"))
	require.True(t, os.IsNotExist(err))
	require.NoError(t, w.Close())

	blob, err := store.Open(ctx, "shards/part-0.jsonl")
	require.NoError(t, err)
	defer blob.Close()
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(ctx, buf, 10)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))

	rc, err := blob.ReadRange(ctx, 16, 5)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "world", string(got))

	m, ok := blob.(Mappable)
	require.True(t, ok)
	raw, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, raw)

	require.NoError(t, store.Put(ctx, "other.jsonl", []byte("x\n")))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"other.jsonl", "shards/part-0.jsonl"}, names)

	names, err = store.List(ctx, "shards/")
	require.NoError(t, err)
	assert.Equal(t, []string{"shards/part-0.jsonl"}, names)

	require.NoError(t, store.Delete(ctx, "other.jsonl"))
	require.NoError(t, store.Delete(ctx, "other.jsonl"))
	_, err = store.Open(ctx, "other.jsonl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_ReadAtEOF(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "a", []byte("abc")))

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	defer blob.Close()

	buf := make([]byte, 8)
	n, err := blob.ReadAt(ctx, buf, 1)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	all, err := io.ReadAll(NewReader(ctx, blob))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(all))
}

func TestLocalStore_FailedWriteLeavesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("broken", fs.Fault{FailAfterBytes: -1, FailOnRename: true})
	store := NewLocalStore(tmpDir, WithFileSystem(ffs))
	ctx := context.Background()

	err := store.Put(ctx, "broken.jsonl", []byte("data"))
	require.ErrorIs(t, err, fs.ErrInjected)

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStore_Abort(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	w, err := store.Create(ctx, "partial.jsonl")
	require.NoError(t, err)
	_, err = w.Write([]byte("half"))
	require.NoError(t, err)
	require.NoError(t, Abort(w))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
