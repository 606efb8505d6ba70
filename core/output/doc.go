// Package output writes resolved datasets and audit logs to their
// destinations.
//
// Render serializes a document back into the container shape it was read
// from, so a dataset wrapped in {"leads": [...]} round-trips in the same
// shape and a bare array stays a bare array.
//
// # Destinations
//
// Resolve understands the same location forms as the source package:
//
//   - "-" writes standard output
//   - "s3://bucket/key" uploads via the storage client, creating the
//     bucket when needed
//   - anything else is a filesystem path
//
// File destinations write a temp file in the target directory and rename it
// over the final path, so readers of the output never observe a partial
// document. This matters for in-place runs, which overwrite their own input.
package output
