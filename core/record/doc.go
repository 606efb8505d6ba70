// Package record defines the immutable record model shared by the resolve
// engine and the change logger.
//
// A Record carries two independently unique key fields (the identifier and the
// email address), a recency field used purely for ordering, and an open set of
// auxiliary attributes. The full field list of the source document is
// preserved in its original order so that records can be re-serialized
// byte-stably; the engine never inspects attributes, only the logger's diff
// step does.
//
// # Recency
//
// The recency string is parsed exactly once, at construction, using flexible
// format detection (RFC3339, ISO-8601 without zone, space-separated
// timestamps, date-only, slash dates, RFC1123 and unix epochs). A recency that
// fails to parse is not an error: the record simply carries an unparseable
// recency, and CompareRecency treats any comparison against it as "equal"
// (cannot order). Resolution tie-breaking depends on this exact behavior.
//
// # Immutability
//
// Records are value objects: once constructed they are only classified and
// selected among, never mutated. Accessors return the underlying data and
// callers must not modify it.
package record
