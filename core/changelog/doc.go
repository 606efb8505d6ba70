// Package changelog records merge decisions as a structured audit trail.
//
// Every decision produced by the resolve engine becomes one Entry carrying
// the kept and dropped record identifiers, the conflict classification, the
// tie-break reason, and a field-level diff of what the merge discarded. The
// Logger accumulates entries and renders the complete log as JSON with an
// aggregate summary block.
//
// # Diff keys
//
// Change maps pair each differing field under two keys, kept<Field> and
// dropped<Field>, where <Field> is the field name with its leading
// underscore stripped and the first letter upper-cased ("_id" becomes "Id",
// "email" becomes "Email"). A field present on only one side reports null
// for the other. Fields whose values are byte-identical after compaction are
// omitted, so an empty changes map means the records differed only in
// position.
//
// # Usage
//
//	logger := changelog.NewLogger()
//	logger.LogDecisions(resolution.Decisions)
//	out, err := logger.ToJSON(true)
//
// The log is serialized with the summary first, then entries in the order
// they were recorded.
package changelog
