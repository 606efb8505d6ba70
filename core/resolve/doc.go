// Package resolve implements the conflict detection and resolution engine for
// record sets carrying two independently unique keys (identifier and email).
//
// The hard problem the engine solves is correctness under overlapping
// conflicts: a record may collide on its identifier with one record and on its
// email with a different record, and those collisions may chain further. The
// engine resolves every such chain as a single coherent decision per connected
// group instead of independent pairwise merges, which would produce
// contradictory or non-idempotent outcomes.
//
// # Architecture
//
// The engine runs a strictly batch-oriented pipeline over the in-memory
// record set:
//
//  1. Indexing: two hash indices (by identifier, by email) are rebuilt from
//     scratch on every detection call by the pure BuildIndices function.
//     Buckets preserve input order. There is no incremental index
//     maintenance, which rules out staleness bugs at the cost of O(n) per
//     call.
//
//  2. Grouping: every index bucket with two or more members is a conflict
//     group, typed by the index that produced it.
//
//  3. Components: union-find over the conflict groups links records that
//     co-occur in any identifier group or any email group, producing the
//     transitive closure across both key spaces. A component whose underlying
//     groups span both key spaces is a cross conflict; otherwise it inherits
//     the single kind present. Records that conflict with nobody pass through
//     untouched.
//
//  4. Resolution: each component selects exactly one canonical record by a
//     newest-wins policy with a last-in-input tie-break, and emits one merge
//     decision per discarded record.
//
// # Canonical selection
//
// The canonical record is computed by a single left-to-right fold over the
// component's members in input order: a candidate replaces the current winner
// when its recency is strictly newer, or when the pair cannot be ordered
// (equal recency, or an unparseable recency on either side), so the later
// position wins every tie. A comparison sort cannot substitute for the fold:
// "unparseable compares equal" makes pairwise comparison non-transitive, so
// sort output would be unspecified, while the fold is deterministic and
// preserves the long-standing behavior that a record with an invalid recency
// can beat an older valid one purely by list position.
//
// # Guarantees
//
// For a fixed input sequence the engine is fully deterministic. Survivors
// keep their original relative order, resolution is idempotent (feeding the
// output back yields zero conflicts), and |survivors| + |decisions| equals
// the input size. The engine performs no I/O, raises no errors, and is not
// safe for concurrent use of a single instance.
package resolve
