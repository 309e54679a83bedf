// Package compress detects and handles the stream compressions accepted for
// dataset input and produced by exports.
package compress

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Kind identifies a stream compression.
type Kind uint8

const (
	None Kind = iota
	Zstd
	LZ4
	Gzip
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	gzipMagic = []byte{0x1f, 0x8b}
)

// String returns the human-readable name of a compression kind.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	case Gzip:
		return "gzip"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Ext returns the conventional file extension including the dot, or "".
func (k Kind) Ext() string {
	switch k {
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	case Gzip:
		return ".gz"
	default:
		return ""
	}
}

// Parse parses a compression name.
func Parse(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	case "gzip", "gz":
		return Gzip, nil
	default:
		return None, fmt.Errorf("unknown compression: %q", name)
	}
}

// FromExt maps a file name's extension to a compression kind.
func FromExt(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	case ".gz", ".gzip":
		return Gzip
	default:
		return None
	}
}

// TrimExt strips a compression extension from name ("a.jsonl.zst" -> "a.jsonl").
func TrimExt(name string) string {
	if FromExt(name) == None {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Detect identifies the compression of data from its leading magic bytes,
// falling back to the extension of name when no magic matches.
func Detect(name string, head []byte) Kind {
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	}
	if len(head) >= len(zstdMagic) {
		// Enough bytes to rule out every magic: the payload is plain.
		return None
	}
	return FromExt(name)
}

var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
}

// Decode decompresses data entirely into memory.
func Decode(data []byte, k Kind) ([]byte, error) {
	switch k {
	case None:
		return data, nil
	case Zstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		return dec.DecodeAll(data, nil)
	case LZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	case Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", k)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with a compressing writer. Close flushes the
// compressed stream but does not close w.
func NewWriter(w io.Writer, k Kind) (io.WriteCloser, error) {
	switch k {
	case None:
		return nopWriteCloser{w}, nil
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case LZ4:
		return lz4.NewWriter(w), nil
	case Gzip:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", k)
	}
}
