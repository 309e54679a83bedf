package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestAppendObject(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			out, err := AppendObject(nil, c, []string{"z", "a", "q\"uote"}, []string{"1", "line\nbreak"})
			require.NoError(t, err)
			assert.Equal(t, `{"z":"1","a":"line\nbreak","q\"uote":""}`, string(out))

			var m map[string]string
			require.NoError(t, c.Unmarshal(out, &m))
			assert.Equal(t, "line\nbreak", m["a"])
		})
	}
}

func TestLineEncoder(t *testing.T) {
	type row struct {
		Line      int `json:"line"`
		Canonical int `json:"canonical"`
	}

	var buf bytes.Buffer
	enc := NewLineEncoder(&buf, nil)
	require.NoError(t, enc.Encode(row{Line: 2, Canonical: 0}))
	require.NoError(t, enc.Encode(row{Line: 4, Canonical: 0}))
	require.NoError(t, enc.Flush())

	assert.Equal(t, "{\"line\":2,\"canonical\":0}\n{\"line\":4,\"canonical\":0}\n", buf.String())
}

func BenchmarkAppendObject(b *testing.B) {
	keys := []string{"id", "title", "body", "lang"}
	vals := []string{"123", "hello", "a longer body of text with \"quotes\"", "en"}
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			var dst []byte
			for b.Loop() {
				var err error
				dst, err = AppendObject(dst[:0], c, keys, vals)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
