// Package codec centralizes JSON encoding for records the module produces:
// CSV rows converted to JSONL and duplicate reports.
//
// Input records are never decoded through a codec; content extraction runs
// its own single-pass scanner over the raw line bytes.
package codec

import (
	"bufio"
	"fmt"
	"io"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
// The CLI configuration selects the report codec this way.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests and benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}

// LineEncoder writes one encoded value per line (JSON Lines).
type LineEncoder struct {
	c  Codec
	bw *bufio.Writer
}

// NewLineEncoder returns an encoder writing to w. A nil codec selects Default.
func NewLineEncoder(w io.Writer, c Codec) *LineEncoder {
	if c == nil {
		c = Default
	}
	return &LineEncoder{c: c, bw: bufio.NewWriter(w)}
}

// Encode writes v followed by '\n'.
func (e *LineEncoder) Encode(v any) error {
	b, err := e.c.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := e.bw.Write(b); err != nil {
		return err
	}
	return e.bw.WriteByte('\n')
}

// Flush writes any buffered data.
func (e *LineEncoder) Flush() error {
	return e.bw.Flush()
}

// AppendObject appends a JSON object built from parallel key/value slices,
// preserving key order. Missing values encode as empty strings.
func AppendObject(dst []byte, c Codec, keys, values []string) ([]byte, error) {
	if c == nil {
		c = Default
	}
	dst = append(dst, '{')
	for i, k := range keys {
		if i > 0 {
			dst = append(dst, ',')
		}
		kb, err := c.Marshal(k)
		if err != nil {
			return nil, err
		}
		dst = append(dst, kb...)
		dst = append(dst, ':')

		v := ""
		if i < len(values) {
			v = values[i]
		}
		vb, err := c.Marshal(v)
		if err != nil {
			return nil, err
		}
		dst = append(dst, vb...)
	}
	return append(dst, '}'), nil
}
