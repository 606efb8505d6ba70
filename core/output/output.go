package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"record-resolver/core/record"
	"record-resolver/core/source"
	"record-resolver/core/storage"

	"github.com/minio/minio-go/v7"
)

// Destination writes one rendered document.
type Destination interface {
	// Name labels the destination in errors and logs.
	Name() string
	// Write stores the rendered document.
	Write(ctx context.Context, data []byte) error
}

// Render serializes a document in the container shape it was parsed from.
func Render(doc *source.Document, pretty bool) ([]byte, error) {
	records := doc.Records
	if records == nil {
		records = []record.Record{}
	}

	var payload any = records
	if doc.Container != "" {
		payload = map[string][]record.Record{doc.Container: records}
	}

	if pretty {
		return json.MarshalIndent(payload, "", "  ")
	}
	return json.Marshal(payload)
}

// Resolve turns a location string into a destination. "-" writes stdout,
// s3:// locations upload to object storage, anything else is a file path.
func Resolve(loc string, client storage.Client) (Destination, error) {
	switch {
	case loc == "-":
		return Stdout(), nil
	case strings.HasPrefix(loc, "s3://"):
		if client == nil {
			return nil, fmt.Errorf("object storage not configured for %s", loc)
		}
		trimmed := strings.TrimPrefix(loc, "s3://")
		bucket, key, found := strings.Cut(trimmed, "/")
		if bucket == "" || !found || key == "" || strings.HasSuffix(key, "/") {
			return nil, fmt.Errorf("invalid object location %s: want s3://bucket/key", loc)
		}
		return Object(client, bucket, key), nil
	default:
		return File(loc), nil
	}
}

// DefaultLogPath derives the changelog location from the output location:
// out.json becomes out.changelog.json. Works for file paths and object keys.
func DefaultLogPath(out string) string {
	return strings.TrimSuffix(out, ".json") + ".changelog.json"
}

// File returns a destination writing a filesystem path. The document lands
// via a temp file and rename, never as a partial write.
func File(path string) Destination {
	return &fileDestination{path: path}
}

type fileDestination struct {
	path string
}

func (d *fileDestination) Name() string { return d.path }

func (d *fileDestination) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	return nil
}

// Stdout returns a destination writing standard output.
func Stdout() Destination {
	return &writerDestination{name: "stdout", w: os.Stdout}
}

type writerDestination struct {
	name string
	w    io.Writer
}

func (d *writerDestination) Name() string { return d.name }

func (d *writerDestination) Write(_ context.Context, data []byte) error {
	if _, err := d.w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.name, err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := io.WriteString(d.w, "\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", d.name, err)
		}
	}
	return nil
}

// Object returns a destination uploading to object storage.
func Object(client storage.Client, bucket, key string) Destination {
	return &objectDestination{client: client, bucket: bucket, key: key}
}

type objectDestination struct {
	client storage.Client
	bucket string
	key    string
}

func (d *objectDestination) Name() string {
	return fmt.Sprintf("s3://%s/%s", d.bucket, d.key)
}

func (d *objectDestination) Write(ctx context.Context, data []byte) error {
	if err := storage.EnsureBucket(ctx, d.client, d.bucket, ""); err != nil {
		return err
	}
	_, err := d.client.PutObject(ctx, d.bucket, d.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", d.Name(), err)
	}
	return nil
}
