package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hupe1980/caret"
	"github.com/hupe1980/caret/blobstore"
	"github.com/hupe1980/caret/blobstore/minio"
	"github.com/hupe1980/caret/blobstore/s3"
	"github.com/hupe1980/caret/internal/config"
)

type scheme int

const (
	schemeFile scheme = iota
	schemeStdio
	schemeS3
	schemeMinIO
)

// location is a parsed dataset or export address:
//
//	path/to/file.jsonl
//	-
//	s3://bucket/key
//	minio://endpoint/bucket/key
type location struct {
	scheme   scheme
	endpoint string
	bucket   string
	key      string
}

var errBadLocation = errors.New("invalid location")

func parseLocation(s string) (location, error) {
	switch {
	case s == "":
		return location{}, fmt.Errorf("%w: empty", errBadLocation)
	case s == "-":
		return location{scheme: schemeStdio, key: "stdin"}, nil
	case strings.HasPrefix(s, "s3://"):
		bucket, key, ok := strings.Cut(strings.TrimPrefix(s, "s3://"), "/")
		if !ok || bucket == "" || key == "" {
			return location{}, fmt.Errorf("%w: %q: want s3://bucket/key", errBadLocation, s)
		}
		return location{scheme: schemeS3, bucket: bucket, key: key}, nil
	case strings.HasPrefix(s, "minio://"):
		parts := strings.SplitN(strings.TrimPrefix(s, "minio://"), "/", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return location{}, fmt.Errorf("%w: %q: want minio://endpoint/bucket/key", errBadLocation, s)
		}
		return location{scheme: schemeMinIO, endpoint: parts[0], bucket: parts[1], key: parts[2]}, nil
	case strings.Contains(s, "://"):
		return location{}, fmt.Errorf("%w: %q: unsupported scheme", errBadLocation, s)
	default:
		return location{scheme: schemeFile, key: s}, nil
	}
}

// store returns the blob store holding l and the blob name within it.
// Local files map to a LocalStore rooted at their directory.
func (l location) store(ctx context.Context, cfg *config.Config) (blobstore.BlobStore, string, error) {
	switch l.scheme {
	case schemeFile:
		return blobstore.NewLocalStore(filepath.Dir(l.key)), filepath.Base(l.key), nil
	case schemeS3:
		var opts []s3.Option
		if cfg.S3.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.S3.Region))
		}
		if cfg.S3.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.S3.Endpoint))
		}
		st, err := s3.New(ctx, l.bucket, opts...)
		if err != nil {
			return nil, "", err
		}
		return st, l.key, nil
	case schemeMinIO:
		client, err := minio.Dial(l.endpoint, cfg.MinIO.Secure)
		if err != nil {
			return nil, "", err
		}
		return minio.NewStore(client, l.bucket, ""), l.key, nil
	default:
		return nil, "", fmt.Errorf("%w: cannot write to stdio", errBadLocation)
	}
}

// source returns the caret.Source for reading l.
func (l location) source(ctx context.Context, cfg *config.Config, stdin io.Reader) (caret.Source, error) {
	switch l.scheme {
	case schemeFile:
		return caret.Local(l.key), nil
	case schemeStdio:
		return caret.Stream(l.key, stdin), nil
	default:
		st, name, err := l.store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return caret.Remote(st, name), nil
	}
}
