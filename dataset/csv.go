package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/caret/codec"
)

// csvToJSONL converts delimited text with a header row into one JSON object
// per data row, keys in header order.
func csvToJSONL(data []byte, comma rune, c codec.Codec) ([]byte, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	keys := append([]string(nil), header...)

	out := make([]byte, 0, len(data)+len(data)/2)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out, err = codec.AppendObject(out, c, keys, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, '\n')
	}
	return out, nil
}
