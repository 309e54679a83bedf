package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitedWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewRateLimitedWriter(t.Context(), &buf, NewController(Config{IOLimitBytesPerSec: 1 << 30}))

	payload := bytes.Repeat([]byte("x"), 3*maxIOChunk+7)
	n, err := w.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, buf.Bytes())
}

func TestRateLimitedWriter_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, NewController(Config{IOLimitBytesPerSec: 1}))
	_, err := w.Write([]byte("hello"))
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestRateLimitedReader(t *testing.T) {
	src := strings.Repeat("y", 2*maxIOChunk+3)
	r := NewRateLimitedReader(t.Context(), strings.NewReader(src), nil)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}
