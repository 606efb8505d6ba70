// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so dataset readers and writers can address
// both AWS S3 and self-hosted MinIO instances through one interface. The
// resolver reads input datasets from buckets, writes resolved output and
// audit logs back, and lists prefixes when a location names a directory of
// datasets.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates a new bucket for output if needed.
//   - PutObject: Uploads content (with size and options).
//   - GetObject: Retrieves content as a stream.
//   - ListObjects: Lists objects in a bucket (supports prefix/recursive).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "datasets")
package storage
