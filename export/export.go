package export

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/zeebo/blake3"

	"github.com/hupe1980/caret/blobstore"
	"github.com/hupe1980/caret/internal/compress"
	"github.com/hupe1980/caret/internal/resource"
)

const cancelCheckInterval = 4096

// Source is the read side of a dataset. *dataset.Dataset satisfies it.
type Source interface {
	LineCount() int
	RawLine(i int) ([]byte, error)
}

// Membership reports flagged lines. *bitmask.BitMask satisfies it.
type Membership interface {
	Get(i int) bool
}

// Options controls an export.
type Options struct {
	// Compression names the output codec: "", "none", "zstd", "lz4" or "gzip".
	// ToBlob infers it from the blob name when empty.
	Compression string
	// KeepDuplicates writes the flagged lines instead of the unflagged ones.
	KeepDuplicates bool
	// BytesPerSec throttles the output stream. Zero is unlimited.
	BytesPerSec int64
	Logger      *slog.Logger
}

// Stats describes a finished export.
type Stats struct {
	Written int
	Skipped int
	// Bytes is the uncompressed size of the written lines including newlines.
	Bytes int64
	// Digest is the BLAKE3 hash of the uncompressed output.
	Digest [32]byte
}

// DigestHex returns Digest as lowercase hex.
func (s Stats) DigestHex() string { return hex.EncodeToString(s.Digest[:]) }

// Write copies every line of src whose flag in mask is clear (or set, with
// KeepDuplicates) to w, each followed by '\n'. A nil mask keeps every line.
func Write(ctx context.Context, src Source, mask Membership, w io.Writer, opts Options) (Stats, error) {
	var st Stats

	if opts.BytesPerSec > 0 {
		rc := resource.NewController(resource.Config{IOLimitBytesPerSec: opts.BytesPerSec})
		w = resource.NewRateLimitedWriter(ctx, w, rc)
	}

	kind, err := compress.Parse(opts.Compression)
	if err != nil {
		return st, err
	}
	cw, err := compress.NewWriter(w, kind)
	if err != nil {
		return st, err
	}

	h := blake3.New()
	bw := bufio.NewWriterSize(io.MultiWriter(cw, h), 256<<10)

	start := time.Now()
	n := src.LineCount()
	for i := range n {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return st, errors.Join(err, cw.Close())
			}
		}
		flagged := mask != nil && mask.Get(i)
		if flagged != opts.KeepDuplicates {
			st.Skipped++
			continue
		}
		line, err := src.RawLine(i)
		if err != nil {
			return st, errors.Join(err, cw.Close())
		}
		if _, err := bw.Write(line); err != nil {
			return st, errors.Join(err, cw.Close())
		}
		if err := bw.WriteByte('\n'); err != nil {
			return st, errors.Join(err, cw.Close())
		}
		st.Written++
		st.Bytes += int64(len(line)) + 1
	}

	if err := bw.Flush(); err != nil {
		return st, errors.Join(err, cw.Close())
	}
	if err := cw.Close(); err != nil {
		return st, fmt.Errorf("export: finish %s stream: %w", kind, err)
	}
	copy(st.Digest[:], h.Sum(nil))

	if opts.Logger != nil {
		opts.Logger.Debug("export complete",
			"written", st.Written,
			"skipped", st.Skipped,
			"bytes", st.Bytes,
			"compression", kind.String(),
			"duration", time.Since(start),
		)
	}
	return st, nil
}

// ToBlob streams the export into a new blob called name. The blob is aborted
// on failure so no partial output becomes visible.
func ToBlob(ctx context.Context, store blobstore.BlobStore, name string, src Source, mask Membership, opts Options) (Stats, error) {
	if opts.Compression == "" {
		opts.Compression = compress.FromExt(name).String()
	}

	wb, err := store.Create(ctx, name)
	if err != nil {
		return Stats{}, fmt.Errorf("export: create %s: %w", name, err)
	}

	st, err := Write(ctx, src, mask, wb, opts)
	if err != nil {
		return st, errors.Join(err, blobstore.Abort(wb))
	}
	if err := wb.Sync(); err != nil {
		return st, errors.Join(err, blobstore.Abort(wb))
	}
	if err := wb.Close(); err != nil {
		return st, fmt.Errorf("export: commit %s: %w", name, err)
	}
	return st, nil
}
