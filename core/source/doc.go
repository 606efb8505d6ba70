// Package source loads record datasets from files, stdin, and object
// storage.
//
// A dataset is a JSON document in one of three container shapes: an object
// wrapping the record array under a key (commonly "leads" or "records"), or
// a bare array. Parse detects the shape, walks each record object at the
// token level so field order survives into the parsed records, and reports
// validation failures with the source name and record index.
//
// # Locations
//
// Resolve understands three location forms:
//
//   - "-" reads stdin
//   - "s3://bucket/key" reads from object storage; a trailing slash lists
//     and loads every JSON object under the prefix
//   - anything else is a filesystem path
//
// LoadAll fetches all resolved sources concurrently and returns their
// documents in location order, so multi-input runs stay deterministic.
package source
