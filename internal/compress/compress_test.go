package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("{\"text\":\"the quick brown fox\"}\n"), 200)

	for _, k := range []Kind{None, Zstd, LZ4, Gzip} {
		t.Run(k.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, k)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.Equal(t, k, Detect("noext", buf.Bytes()))

			got, err := Decode(buf.Bytes(), k)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, None, Detect("a.jsonl", []byte("{\"a\":1}")))
	assert.Equal(t, None, Detect("a.jsonl.zst", []byte("{\"a\":1}")), "magic wins over extension")
	assert.Equal(t, Gzip, Detect("a.jsonl.gz", []byte{0x1f}), "short head falls back to extension")
	assert.Equal(t, None, Detect("a.jsonl", nil))
}

func TestParse(t *testing.T) {
	for name, want := range map[string]Kind{"": None, "none": None, "ZSTD": Zstd, "zst": Zstd, "lz4": LZ4, "gz": Gzip, "gzip": Gzip} {
		got, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := Parse("brotli")
	assert.Error(t, err)
}

func TestExt(t *testing.T) {
	assert.Equal(t, "a.jsonl", TrimExt("a.jsonl.zst"))
	assert.Equal(t, "a.jsonl", TrimExt("a.jsonl"))
	assert.Equal(t, ".gz", Gzip.Ext())
	assert.Equal(t, LZ4, FromExt("x.LZ4"))
}

func TestDecode_Corrupt(t *testing.T) {
	_, err := Decode([]byte{0x28, 0xb5, 0x2f, 0xfd, 0, 0, 0}, Zstd)
	assert.Error(t, err)
	_, err = Decode([]byte{0x1f, 0x8b, 0}, Gzip)
	assert.Error(t, err)
}
