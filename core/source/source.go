package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"record-resolver/core/storage"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"
)

// Source yields one named dataset stream.
type Source interface {
	// Name labels the source in errors and logs.
	Name() string
	// Open returns the dataset stream. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// File returns a source reading a filesystem path.
func File(filePath string) Source {
	return &fileSource{path: filePath}
}

type fileSource struct {
	path string
}

func (s *fileSource) Name() string { return s.path }

func (s *fileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	return f, nil
}

// Stdin returns a source reading standard input.
func Stdin() Source {
	return &readerSource{name: "stdin", r: os.Stdin}
}

type readerSource struct {
	name string
	r    io.Reader
}

func (s *readerSource) Name() string { return s.name }

func (s *readerSource) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(s.r), nil
}

// Object returns a source reading one object from storage.
func Object(client storage.Client, bucket, key string) Source {
	return &objectSource{client: client, bucket: bucket, key: key}
}

type objectSource struct {
	client storage.Client
	bucket string
	key    string
}

func (s *objectSource) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

func (s *objectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.Name(), err)
	}
	return obj, nil
}

// Resolve turns location strings into sources. "-" reads stdin, s3://
// locations read object storage (a trailing slash expands the prefix to
// every .json object under it), and anything else is a file path.
func Resolve(ctx context.Context, locations []string, client storage.Client) ([]Source, error) {
	var sources []Source
	for _, loc := range locations {
		switch {
		case loc == "-":
			sources = append(sources, Stdin())
		case strings.HasPrefix(loc, "s3://"):
			if client == nil {
				return nil, fmt.Errorf("object storage not configured for %s", loc)
			}
			expanded, err := resolveObject(ctx, loc, client)
			if err != nil {
				return nil, err
			}
			sources = append(sources, expanded...)
		default:
			sources = append(sources, File(loc))
		}
	}
	return sources, nil
}

// resolveObject splits an s3:// location into bucket and key, expanding a
// trailing-slash prefix via a bucket listing.
func resolveObject(ctx context.Context, loc string, client storage.Client) ([]Source, error) {
	trimmed := strings.TrimPrefix(loc, "s3://")
	bucket, key, found := strings.Cut(trimmed, "/")
	if bucket == "" || !found || key == "" {
		return nil, fmt.Errorf("invalid object location %s: want s3://bucket/key", loc)
	}

	if !strings.HasSuffix(key, "/") {
		return []Source{Object(client, bucket, key)}, nil
	}

	var sources []Source
	for info := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    key,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", loc, info.Err)
		}
		if path.Ext(info.Key) != ".json" {
			continue
		}
		sources = append(sources, Object(client, bucket, info.Key))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no JSON objects under %s", loc)
	}
	return sources, nil
}

// LoadAll fetches and parses every source concurrently. Documents come back
// in source order regardless of completion order.
func LoadAll(ctx context.Context, sources []Source) ([]*Document, error) {
	docs := make([]*Document, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			rc, err := src.Open(ctx)
			if err != nil {
				return err
			}
			defer rc.Close()

			doc, err := Parse(rc, src.Name())
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Merge flattens documents into one, concatenating records in document
// order. The container shape of the first document wins.
func Merge(docs []*Document) *Document {
	merged := &Document{}
	for i, doc := range docs {
		if i == 0 {
			merged.Container = doc.Container
		}
		merged.Records = append(merged.Records, doc.Records...)
	}
	return merged
}
