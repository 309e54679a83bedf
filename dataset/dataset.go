package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
	"unicode/utf8"
	"unsafe"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/caret/blobstore"
	"github.com/hupe1980/caret/bytestore"
	"github.com/hupe1980/caret/internal/compress"
	"github.com/hupe1980/caret/internal/conv"
	"github.com/hupe1980/caret/internal/lineindex"
	"github.com/hupe1980/caret/internal/resource"
)

// Dataset is an immutable, line-indexed view of a dataset's bytes.
// All accessors are safe for concurrent use until Close.
type Dataset struct {
	store       bytestore.Store
	idx         *lineindex.Index
	name        string
	format      Format
	compression compress.Kind
	zeroCopy    bool

	blob     blobstore.Blob // owned, when the bytes are borrowed from a mapped blob
	rc       *resource.Controller
	reserved int64
	closed   atomic.Bool
}

// Open maps the file at path. Plain JSONL files are served zero-copy from
// the mapping; compressed and CSV/TSV files are decoded into memory.
func Open(path string, opts ...Option) (*Dataset, error) {
	o := applyOptions(opts)
	start := time.Now()

	m, err := bytestore.OpenFile(path)
	if err != nil {
		return nil, err
	}

	format := o.format.resolve(path)
	kind := compress.Detect(path, m.Bytes())

	if kind == compress.None && format == JSONL {
		_ = m.Advise(bytestore.Sequential)
		ds := &Dataset{
			store:    m,
			idx:      lineindex.Build(m.Bytes()),
			name:     path,
			format:   format,
			zeroCopy: true,
		}
		_ = m.Advise(bytestore.Random)
		ds.logOpen(o.logger, start)
		return ds, nil
	}

	data, err := materialize(path, m.Bytes(), kind, format, o)
	_ = m.Close()
	if err != nil {
		return nil, err
	}
	ds, err := newInMemory(path, data, format, kind, o, 0)
	if err != nil {
		return nil, err
	}
	ds.logOpen(o.logger, start)
	return ds, nil
}

// OpenReader reads r to the end (stdin, pipes) and indexes the result.
func OpenReader(name string, r io.Reader, opts ...Option) (*Dataset, error) {
	o := applyOptions(opts)
	start := time.Now()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, name, err)
	}

	format := o.format.resolve(name)
	kind := compress.Detect(name, raw)
	data, err := materialize(name, raw, kind, format, o)
	if err != nil {
		return nil, err
	}
	ds, err := newInMemory(name, data, format, kind, o, 0)
	if err != nil {
		return nil, err
	}
	ds.logOpen(o.logger, start)
	return ds, nil
}

// OpenBlob loads a dataset through the byte-range read primitive of a blob.
// Mappable blobs are used zero-copy and owned by the Dataset; otherwise the
// blob is fetched in parallel ranged reads and closed before returning.
func OpenBlob(ctx context.Context, blob blobstore.Blob, name string, opts ...Option) (*Dataset, error) {
	o := applyOptions(opts)
	start := time.Now()
	format := o.format.resolve(name)

	if m, ok := blob.(blobstore.Mappable); ok {
		b, err := m.Bytes()
		if err != nil {
			_ = blob.Close()
			return nil, fmt.Errorf("%w: map %s: %w", ErrIO, name, err)
		}
		kind := compress.Detect(name, b)
		if kind == compress.None && format == JSONL {
			ds := &Dataset{
				store:    bytestore.FromBytes(name, b),
				idx:      lineindex.Build(b),
				name:     name,
				format:   format,
				zeroCopy: true,
				blob:     blob,
			}
			ds.logOpen(o.logger, start)
			return ds, nil
		}
		data, err := materialize(name, b, kind, format, o)
		_ = blob.Close()
		if err != nil {
			return nil, err
		}
		ds, err := newInMemory(name, data, format, kind, o, 0)
		if err != nil {
			return nil, err
		}
		ds.logOpen(o.logger, start)
		return ds, nil
	}

	defer blob.Close()

	size := blob.Size()
	if err := o.rc.AcquireMemory(size); err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", name, err)
	}
	raw, err := fetch(ctx, blob, size, o)
	if err != nil {
		o.rc.ReleaseMemory(size)
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrIO, name, err)
	}

	kind := compress.Detect(name, raw)
	data, err := materialize(name, raw, kind, format, o)
	if err != nil {
		o.rc.ReleaseMemory(size)
		return nil, err
	}
	ds, err := newInMemory(name, data, format, kind, o, size)
	if err != nil {
		return nil, err
	}
	ds.logOpen(o.logger, start)
	return ds, nil
}

// FromBytes indexes data directly. data must not be modified afterwards.
func FromBytes(name string, data []byte) *Dataset {
	return &Dataset{
		store:  bytestore.FromBytes(name, data),
		idx:    lineindex.Build(data),
		name:   name,
		format: JSONL,
	}
}

// fetch reads the whole blob in fixed-size ranges, concurrently.
func fetch(ctx context.Context, blob blobstore.Blob, size int64, o options) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	n, err := conv.Int64ToInt(size)
	if err != nil {
		return nil, fmt.Errorf("blob exceeds address space: %w", err)
	}

	buf := make([]byte, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for off := int64(0); off < size; off += o.rangeSize {
		end := min(off+o.rangeSize, size)
		g.Go(func() error {
			want := int(end - off)
			if err := o.rc.AcquireIO(gctx, want); err != nil {
				return err
			}
			n, err := blob.ReadAt(gctx, buf[off:end], off)
			if n == want {
				return nil
			}
			if err == nil || errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return buf, nil
}

// materialize decompresses and converts raw input into JSONL bytes.
// The result never aliases raw unless raw is already plain JSONL.
func materialize(name string, raw []byte, kind compress.Kind, format Format, o options) ([]byte, error) {
	data, err := compress.Decode(raw, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decompress %s: %w", ErrIO, name, kind, err)
	}
	switch format {
	case CSV, TSV:
		data, err = csvToJSONL(data, format.comma(), o.codec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: parse %s: %w", ErrIO, name, format, err)
		}
	case JSONL:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return data, nil
}

// newInMemory wraps data and moves any prior reservation to len(data).
func newInMemory(name string, data []byte, format Format, kind compress.Kind, o options, reserved int64) (*Dataset, error) {
	need := int64(len(data))
	if need != reserved {
		o.rc.ReleaseMemory(reserved)
		if err := o.rc.AcquireMemory(need); err != nil {
			return nil, fmt.Errorf("dataset: %s: %w", name, err)
		}
	}
	return &Dataset{
		store:       bytestore.FromBytes(name, data),
		idx:         lineindex.Build(data),
		name:        name,
		format:      format,
		compression: kind,
		rc:          o.rc,
		reserved:    need,
	}, nil
}

func (d *Dataset) logOpen(l *slog.Logger, start time.Time) {
	l.Debug("dataset opened",
		"dataset", d.name,
		"lines", d.LineCount(),
		"size", d.SizeHuman(),
		"format", d.format.String(),
		"compression", d.compression.String(),
		"zero_copy", d.zeroCopy,
		"duration", time.Since(start),
	)
}

// LineCount returns the number of lines.
func (d *Dataset) LineCount() int { return d.idx.Len() }

// RawLine returns line i without its terminator, sharing the dataset's bytes.
// The slice must not be modified and is valid until Close.
func (d *Dataset) RawLine(i int) ([]byte, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	s, e, err := d.idx.ByteRange(i)
	if err != nil {
		return nil, &IndexError{Index: i, Count: d.idx.Len()}
	}
	data := d.store.Bytes()
	return data[s:e:e], nil
}

// Line returns line i as a string view over the dataset's bytes, valid until Close.
func (d *Dataset) Line(i int) (string, error) {
	b, err := d.RawLine(i)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &EncodingError{Index: i, Offset: invalidOffset(b)}
	}
	if len(b) == 0 {
		return "", nil
	}
	return unsafe.String(unsafe.SliceData(b), len(b)), nil
}

func invalidOffset(b []byte) int {
	for off := 0; off < len(b); {
		r, size := utf8.DecodeRune(b[off:])
		if r == utf8.RuneError && size <= 1 {
			return off
		}
		off += size
	}
	return len(b)
}

// Lines returns up to count lines starting at start. Fewer are returned when
// the range runs past the end.
func (d *Dataset) Lines(start, count int) ([]string, error) {
	n := d.LineCount()
	if start < 0 || start > n {
		return nil, &IndexError{Index: start, Count: n}
	}
	end := start + max(count, 0)
	if end > n || end < start {
		end = n
	}
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		s, err := d.Line(i)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Name returns the dataset's source name.
func (d *Dataset) Name() string { return d.name }

// Size returns the indexed size in bytes (after decompression/conversion).
func (d *Dataset) Size() int64 { return int64(d.store.Len()) }

// SizeHuman returns Size formatted for display (e.g. "1.2 GB").
func (d *Dataset) SizeHuman() string { return humanize.Bytes(uint64(d.Size())) }

// Format returns the input format.
func (d *Dataset) Format() Format { return d.format }

// Compression returns the name of the input compression ("none" if plain).
func (d *Dataset) Compression() string { return d.compression.String() }

// ZeroCopy reports whether lines are served directly from a mapping.
func (d *Dataset) ZeroCopy() bool { return d.zeroCopy }

// IndexSizeBytes returns the memory held by the line offset table.
func (d *Dataset) IndexSizeBytes() int { return d.idx.SizeBytes() }

// Close releases the underlying bytes. Views returned earlier become invalid.
// Close is idempotent.
func (d *Dataset) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	err := d.store.Close()
	if d.blob != nil {
		err = errors.Join(err, d.blob.Close())
	}
	d.rc.ReleaseMemory(d.reserved)
	return err
}
