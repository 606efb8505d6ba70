// Package dedupe implements the record deduplication feature.
//
// It accepts a dataset of records that may share _id or email values,
// resolves every conflict through the core/resolve engine, and returns the
// surviving records alongside a change log describing each dropped record.
//
// # Components
//
//   - Service: Orchestrates a run: load sources, resolve conflicts, build the
//     change log, write results, and archive the run when a database is
//     configured.
//   - Handler: Exposes HTTP endpoints for one-shot resolution and archived
//     run inspection.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /dedupe : Resolve conflicts in the posted dataset.
//   - GET /dedupe/health : Liveness probe.
//   - GET /dedupe/runs : List recently archived runs (requires the audit database).
//   - GET /dedupe/runs/:id : List the archived decisions of one run.
package dedupe
