package changelog

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"record-resolver/core/record"
	"record-resolver/core/resolve"
)

// ConflictType classifies a logged conflict on the audit wire format.
type ConflictType string

const (
	// ConflictID marks a conflict on the record identifier only.
	ConflictID ConflictType = "id_conflict"
	// ConflictEmail marks a conflict on the email address only.
	ConflictEmail ConflictType = "email_conflict"
	// ConflictCross marks a conflict spanning both key spaces.
	ConflictCross ConflictType = "cross_conflict"
)

// Metadata carries the key fields of both sides of a merge for quick
// inspection without re-reading the change map.
type Metadata struct {
	// KeptRecordEmail is the email of the surviving record.
	KeptRecordEmail string `json:"keptRecordEmail"`

	// DroppedRecordEmail is the email of the discarded record.
	DroppedRecordEmail string `json:"droppedRecordEmail"`

	// KeptRecordDate is the surviving record's recency exactly as it
	// appeared in the input.
	KeptRecordDate string `json:"keptRecordDate"`

	// DroppedRecordDate is the discarded record's recency exactly as it
	// appeared in the input.
	DroppedRecordDate string `json:"droppedRecordDate"`
}

// Entry is one audit record describing a single merge decision.
type Entry struct {
	// Timestamp is when the decision was logged, RFC 3339 in UTC.
	Timestamp string `json:"timestamp"`

	// KeptRecordID identifies the surviving record.
	KeptRecordID string `json:"keptRecordId"`

	// DroppedRecordID identifies the discarded record.
	DroppedRecordID string `json:"droppedRecordId"`

	// ConflictType classifies the conflict that forced the merge.
	ConflictType ConflictType `json:"conflictType"`

	// Reason explains why the kept record won.
	Reason resolve.Reason `json:"reason"`

	// Changes maps kept<Field> and dropped<Field> keys to the differing
	// values. Equal fields are omitted; an absent side is null.
	Changes map[string]json.RawMessage `json:"changes"`

	// Metadata summarizes both sides' key fields.
	Metadata Metadata `json:"metadata"`
}

// Summary aggregates counts over all logged entries.
type Summary struct {
	// TotalConflicts is the number of logged merge decisions.
	TotalConflicts int `json:"totalConflicts"`

	// IDConflicts counts decisions classified id_conflict.
	IDConflicts int `json:"idConflicts"`

	// EmailConflicts counts decisions classified email_conflict.
	EmailConflicts int `json:"emailConflicts"`

	// CrossConflicts counts decisions classified cross_conflict.
	CrossConflicts int `json:"crossConflicts"`

	// TotalChanges counts differing fields summed over all entries.
	TotalChanges int `json:"totalChanges"`

	// Timestamp is when the log was opened, RFC 3339 in UTC.
	Timestamp string `json:"timestamp"`
}

// Log is the complete serialized audit trail.
type Log struct {
	Summary Summary `json:"summary"`
	Entries []Entry `json:"entries"`
}

// Logger accumulates merge decisions into an audit log.
// It is not safe for concurrent use.
type Logger struct {
	entries []Entry
	summary Summary
	now     func() time.Time
}

// NewLogger returns an empty logger stamped with the current time.
func NewLogger() *Logger {
	l := &Logger{now: time.Now}
	l.summary.Timestamp = l.timestamp()
	return l
}

// FromLog reconstructs a logger from a previously serialized log so its
// entries can be filtered and inspected.
func FromLog(log *Log) *Logger {
	return &Logger{
		entries: append([]Entry(nil), log.Entries...),
		summary: log.Summary,
		now:     time.Now,
	}
}

func (l *Logger) timestamp() string {
	return l.now().UTC().Format(time.RFC3339)
}

// LogDecision appends one entry for a merge decision, diffing the kept
// record against the dropped one.
func (l *Logger) LogDecision(d resolve.MergeDecision) {
	changes, changed := diffChanges(d.Kept, d.Dropped)
	conflictType := conflictTypeOf(d.Kind)

	l.entries = append(l.entries, Entry{
		Timestamp:       l.timestamp(),
		KeptRecordID:    d.Kept.ID(),
		DroppedRecordID: d.Dropped.ID(),
		ConflictType:    conflictType,
		Reason:          d.Reason,
		Changes:         changes,
		Metadata: Metadata{
			KeptRecordEmail:    d.Kept.Email(),
			DroppedRecordEmail: d.Dropped.Email(),
			KeptRecordDate:     d.Kept.EntryDate(),
			DroppedRecordDate:  d.Dropped.EntryDate(),
		},
	})

	l.summary.TotalConflicts++
	l.summary.TotalChanges += changed
	switch conflictType {
	case ConflictID:
		l.summary.IDConflicts++
	case ConflictEmail:
		l.summary.EmailConflicts++
	case ConflictCross:
		l.summary.CrossConflicts++
	}
}

// LogDecisions appends entries for a batch of decisions in order.
func (l *Logger) LogDecisions(decisions []resolve.MergeDecision) {
	for _, d := range decisions {
		l.LogDecision(d)
	}
}

// Len returns the number of logged entries.
func (l *Logger) Len() int {
	return len(l.entries)
}

// Entries returns the logged entries in recording order.
func (l *Logger) Entries() []Entry {
	return l.entries
}

// Summary returns the aggregate counts so far.
func (l *Logger) Summary() Summary {
	return l.summary
}

// Log assembles the full audit trail. Entries is never nil so the log
// serializes with an empty array rather than null.
func (l *Logger) Log() *Log {
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	return &Log{Summary: l.summary, Entries: entries}
}

// ToJSON serializes the full log, indented when pretty is set.
func (l *Logger) ToJSON(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(l.Log(), "", "  ")
	}
	return json.Marshal(l.Log())
}

// ByConflictType returns the entries with the given classification.
func (l *Logger) ByConflictType(ct ConflictType) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.ConflictType == ct {
			out = append(out, e)
		}
	}
	return out
}

// ByReason returns the entries decided for the given reason.
func (l *Logger) ByReason(r resolve.Reason) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Reason == r {
			out = append(out, e)
		}
	}
	return out
}

// ByRecordID returns the entries in which the record appears on either side.
func (l *Logger) ByRecordID(id string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.KeptRecordID == id || e.DroppedRecordID == id {
			out = append(out, e)
		}
	}
	return out
}

// Clear discards all entries and counters and re-stamps the log.
func (l *Logger) Clear() {
	l.entries = nil
	l.summary = Summary{Timestamp: l.timestamp()}
}

// conflictTypeOf maps an engine conflict kind onto the audit wire format.
func conflictTypeOf(k resolve.Kind) ConflictType {
	switch k {
	case resolve.KindEmail:
		return ConflictEmail
	case resolve.KindCross:
		return ConflictCross
	default:
		return ConflictID
	}
}

// diffChanges builds the change map for a kept/dropped pair and returns it
// with the number of differing fields. Values compare as compacted bytes.
// Kept fields are walked first, then fields only the dropped record carries.
func diffChanges(kept, dropped record.Record) (map[string]json.RawMessage, int) {
	changes := make(map[string]json.RawMessage)
	changed := 0

	seen := make(map[string]bool)
	for _, f := range kept.Fields() {
		seen[f.Name] = true
		droppedVal, ok := dropped.Get(f.Name)
		if ok && bytes.Equal(f.Value, droppedVal) {
			continue
		}
		key := capitalizeField(f.Name)
		changes["kept"+key] = f.Value
		if ok {
			changes["dropped"+key] = droppedVal
		} else {
			changes["dropped"+key] = json.RawMessage("null")
		}
		changed++
	}

	for _, f := range dropped.Fields() {
		if seen[f.Name] {
			continue
		}
		key := capitalizeField(f.Name)
		changes["kept"+key] = json.RawMessage("null")
		changes["dropped"+key] = f.Value
		changed++
	}

	return changes, changed
}

// capitalizeField turns a field name into its change-key suffix: leading
// underscores drop and the first letter upper-cases, so "_id" becomes "Id".
func capitalizeField(name string) string {
	trimmed := strings.TrimLeft(name, "_")
	if trimmed == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(trimmed)
	return string(unicode.ToUpper(r)) + trimmed[size:]
}
