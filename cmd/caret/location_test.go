package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in   string
		want location
	}{
		{"data/train.jsonl", location{scheme: schemeFile, key: "data/train.jsonl"}},
		{"-", location{scheme: schemeStdio, key: "stdin"}},
		{"s3://bucket/corpora/a.jsonl.zst", location{scheme: schemeS3, bucket: "bucket", key: "corpora/a.jsonl.zst"}},
		{"minio://localhost:9000/bucket/a.jsonl", location{scheme: schemeMinIO, endpoint: "localhost:9000", bucket: "bucket", key: "a.jsonl"}},
	}
	for _, tt := range tests {
		got, err := parseLocation(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "s3://bucket", "s3:///key", "minio://host/bucket", "gs://b/k"} {
		_, err := parseLocation(bad)
		assert.ErrorIs(t, err, errBadLocation, bad)
	}
}
