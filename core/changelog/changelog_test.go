package changelog

import (
	"encoding/json"
	"testing"
	"time"

	"record-resolver/core/record"
	"record-resolver/core/resolve"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(t *testing.T, fields ...record.Field) record.Record {
	t.Helper()
	rec, err := record.New(fields)
	require.NoError(t, err)
	return rec
}

// fixedLogger returns a logger pinned to a deterministic clock.
func fixedLogger(at time.Time) *Logger {
	l := NewLogger()
	l.now = func() time.Time { return at }
	l.Clear()
	return l
}

// TestLogDecision_EntryFields tests that a logged decision carries both
// record identifiers, the classification, the reason, and the metadata block.
func TestLogDecision_EntryFields(t *testing.T) {
	kept := testRecord(t,
		record.String(record.FieldID, "keep-1"),
		record.String(record.FieldEmail, "keep@x.com"),
		record.String(record.FieldEntryDate, "2014-05-07T17:31:20Z"),
	)
	dropped := testRecord(t,
		record.String(record.FieldID, "drop-1"),
		record.String(record.FieldEmail, "drop@x.com"),
		record.String(record.FieldEntryDate, "2014-05-07T17:30:20Z"),
	)

	l := fixedLogger(time.Date(2014, time.May, 7, 17, 30, 20, 0, time.UTC))
	l.LogDecision(resolve.MergeDecision{
		Kept:    kept,
		Dropped: dropped,
		Reason:  resolve.ReasonNewerDate,
		Kind:    resolve.KindEmail,
	})

	require.Equal(t, 1, l.Len())
	e := l.Entries()[0]
	assert.Equal(t, "2014-05-07T17:30:20Z", e.Timestamp)
	assert.Equal(t, "keep-1", e.KeptRecordID)
	assert.Equal(t, "drop-1", e.DroppedRecordID)
	assert.Equal(t, ConflictEmail, e.ConflictType)
	assert.Equal(t, resolve.ReasonNewerDate, e.Reason)
	assert.Equal(t, "keep@x.com", e.Metadata.KeptRecordEmail)
	assert.Equal(t, "drop@x.com", e.Metadata.DroppedRecordEmail)
	assert.Equal(t, "2014-05-07T17:31:20Z", e.Metadata.KeptRecordDate)
	assert.Equal(t, "2014-05-07T17:30:20Z", e.Metadata.DroppedRecordDate)
}

// TestLogDecision_ChangeKeys tests the diff: the underscore identifier maps
// to Id keys, equal fields are omitted, and a field present on one side only
// reports null for the other.
func TestLogDecision_ChangeKeys(t *testing.T) {
	kept := testRecord(t,
		record.String(record.FieldID, "new-id"),
		record.String(record.FieldEmail, "same@x.com"),
		record.String("firstName", "Ted"),
		record.String("phone", "555-0100"),
	)
	dropped := testRecord(t,
		record.String(record.FieldID, "old-id"),
		record.String(record.FieldEmail, "same@x.com"),
		record.String("firstName", "Ted"),
		record.String("address", "123 Street St"),
	)

	l := NewLogger()
	l.LogDecision(resolve.MergeDecision{
		Kept:    kept,
		Dropped: dropped,
		Reason:  resolve.ReasonLastInList,
		Kind:    resolve.KindID,
	})

	changes := l.Entries()[0].Changes
	assert.Equal(t, json.RawMessage(`"new-id"`), changes["keptId"])
	assert.Equal(t, json.RawMessage(`"old-id"`), changes["droppedId"])

	// Equal fields stay out of the map entirely.
	assert.NotContains(t, changes, "keptEmail")
	assert.NotContains(t, changes, "droppedEmail")
	assert.NotContains(t, changes, "keptFirstName")

	// One-sided fields pair with null.
	assert.Equal(t, json.RawMessage(`"555-0100"`), changes["keptPhone"])
	assert.Equal(t, json.RawMessage("null"), changes["droppedPhone"])
	assert.Equal(t, json.RawMessage("null"), changes["keptAddress"])
	assert.Equal(t, json.RawMessage(`"123 Street St"`), changes["droppedAddress"])

	assert.Len(t, changes, 6)
}

// TestLogDecision_NonStringValues tests that non-string field values diff as
// raw JSON rather than quoted text.
func TestLogDecision_NonStringValues(t *testing.T) {
	kept := testRecord(t,
		record.String(record.FieldID, "a"),
		record.String(record.FieldEmail, "a@x.com"),
		record.Field{Name: "visits", Value: json.RawMessage(`42`)},
	)
	dropped := testRecord(t,
		record.String(record.FieldID, "a"),
		record.String(record.FieldEmail, "b@x.com"),
		record.Field{Name: "visits", Value: json.RawMessage(`7`)},
	)

	l := NewLogger()
	l.LogDecision(resolve.MergeDecision{Kept: kept, Dropped: dropped, Reason: resolve.ReasonLastInList, Kind: resolve.KindID})

	changes := l.Entries()[0].Changes
	assert.Equal(t, json.RawMessage(`42`), changes["keptVisits"])
	assert.Equal(t, json.RawMessage(`7`), changes["droppedVisits"])
}

// TestSummary_Counts tests the aggregate counters across mixed decisions.
func TestSummary_Counts(t *testing.T) {
	a := testRecord(t, record.String(record.FieldID, "1"), record.String(record.FieldEmail, "a@x.com"))
	b := testRecord(t, record.String(record.FieldID, "1"), record.String(record.FieldEmail, "b@x.com"))
	c := testRecord(t, record.String(record.FieldID, "2"), record.String(record.FieldEmail, "a@x.com"))

	l := NewLogger()
	l.LogDecision(resolve.MergeDecision{Kept: a, Dropped: b, Reason: resolve.ReasonNewerDate, Kind: resolve.KindID})
	l.LogDecision(resolve.MergeDecision{Kept: a, Dropped: c, Reason: resolve.ReasonLastInList, Kind: resolve.KindEmail})
	l.LogDecision(resolve.MergeDecision{Kept: a, Dropped: b, Reason: resolve.ReasonLastInList, Kind: resolve.KindCross})

	s := l.Summary()
	assert.Equal(t, 3, s.TotalConflicts)
	assert.Equal(t, 1, s.IDConflicts)
	assert.Equal(t, 1, s.EmailConflicts)
	assert.Equal(t, 1, s.CrossConflicts)
	// a/b differ on email only; a/c differ on id only.
	assert.Equal(t, 3, s.TotalChanges)
	assert.NotEmpty(t, s.Timestamp)
}

// TestFilters tests the entry filters over a small mixed log.
func TestFilters(t *testing.T) {
	a := testRecord(t, record.String(record.FieldID, "1"), record.String(record.FieldEmail, "a@x.com"))
	b := testRecord(t, record.String(record.FieldID, "1"), record.String(record.FieldEmail, "b@x.com"))
	c := testRecord(t, record.String(record.FieldID, "9"), record.String(record.FieldEmail, "c@x.com"))

	l := NewLogger()
	l.LogDecision(resolve.MergeDecision{Kept: a, Dropped: b, Reason: resolve.ReasonNewerDate, Kind: resolve.KindID})
	l.LogDecision(resolve.MergeDecision{Kept: c, Dropped: b, Reason: resolve.ReasonLastInList, Kind: resolve.KindCross})

	assert.Len(t, l.ByConflictType(ConflictID), 1)
	assert.Len(t, l.ByConflictType(ConflictCross), 1)
	assert.Empty(t, l.ByConflictType(ConflictEmail))

	assert.Len(t, l.ByReason(resolve.ReasonNewerDate), 1)
	assert.Len(t, l.ByReason(resolve.ReasonLastInList), 1)

	assert.Len(t, l.ByRecordID("1"), 2)
	assert.Len(t, l.ByRecordID("9"), 1)
	assert.Empty(t, l.ByRecordID("missing"))
}

// TestFromLog tests that a serialized log round-trips into a logger whose
// filters see the original entries.
func TestFromLog(t *testing.T) {
	a := testRecord(t, record.String(record.FieldID, "1"), record.String(record.FieldEmail, "a@x.com"))
	b := testRecord(t, record.String(record.FieldID, "1"), record.String(record.FieldEmail, "b@x.com"))

	l := NewLogger()
	l.LogDecision(resolve.MergeDecision{Kept: a, Dropped: b, Reason: resolve.ReasonNewerDate, Kind: resolve.KindID})

	data, err := l.ToJSON(false)
	require.NoError(t, err)
	var loaded Log
	require.NoError(t, json.Unmarshal(data, &loaded))

	restored := FromLog(&loaded)
	assert.Equal(t, l.Summary(), restored.Summary())
	assert.Len(t, restored.ByConflictType(ConflictID), 1)
	assert.Len(t, restored.ByRecordID("1"), 1)
	assert.Empty(t, restored.ByReason(resolve.ReasonLastInList))
}

// TestClear tests that clearing resets entries and counters and re-stamps
// the summary.
func TestClear(t *testing.T) {
	a := testRecord(t, record.String(record.FieldID, "1"), record.String(record.FieldEmail, "a@x.com"))
	b := testRecord(t, record.String(record.FieldID, "1"), record.String(record.FieldEmail, "b@x.com"))

	stamps := []time.Time{
		time.Date(2014, time.May, 7, 17, 30, 20, 0, time.UTC),
		time.Date(2014, time.May, 7, 18, 0, 0, 0, time.UTC),
	}
	l := fixedLogger(stamps[0])
	l.LogDecision(resolve.MergeDecision{Kept: a, Dropped: b, Reason: resolve.ReasonNewerDate, Kind: resolve.KindID})

	l.now = func() time.Time { return stamps[1] }
	l.Clear()

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, Summary{Timestamp: "2014-05-07T18:00:00Z"}, l.Summary())
}

// TestToJSON_EmptyLog tests that an empty log serializes with an entries
// array, not null.
func TestToJSON_EmptyLog(t *testing.T) {
	l := fixedLogger(time.Date(2014, time.May, 7, 17, 30, 20, 0, time.UTC))

	out, err := l.ToJSON(false)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"summary": {
			"totalConflicts": 0,
			"idConflicts": 0,
			"emailConflicts": 0,
			"crossConflicts": 0,
			"totalChanges": 0,
			"timestamp": "2014-05-07T17:30:20Z"
		},
		"entries": []
	}`, string(out))
}

// TestToJSON_Golden runs the engine over a three-way cross conflict and
// compares the rendered audit trail byte for byte.
func TestToJSON_Golden(t *testing.T) {
	recs := []record.Record{
		testRecord(t,
			record.String(record.FieldID, "jkj238238jdsnfsj23"),
			record.String(record.FieldEmail, "coo@bar.com"),
			record.String("firstName", "John"),
			record.String("lastName", "Smith"),
			record.String("address", "123 Street St"),
			record.String(record.FieldEntryDate, "2014-05-07T17:30:20+00:00"),
		),
		testRecord(t,
			record.String(record.FieldID, "jkj238238jdsnfsj23"),
			record.String(record.FieldEmail, "foo@bar.com"),
			record.String("firstName", "Ted"),
			record.String("lastName", "Masters"),
			record.String("address", "44 North Hampton St"),
			record.String(record.FieldEntryDate, "2014-05-07T17:31:20+00:00"),
		),
		testRecord(t,
			record.String(record.FieldID, "edu45238jdsnfsj23"),
			record.String(record.FieldEmail, "foo@bar.com"),
			record.String("firstName", "Ted"),
			record.String("lastName", "Jones"),
			record.String("address", "456 Neat St"),
			record.String(record.FieldEntryDate, "2014-05-07T17:32:20+00:00"),
		),
	}

	engine := resolve.NewEngine()
	engine.AddRecords(recs)
	res := engine.Resolve()
	require.Len(t, res.Decisions, 2)

	l := fixedLogger(time.Date(2014, time.May, 7, 17, 30, 20, 0, time.UTC))
	l.LogDecisions(res.Decisions)

	out, err := l.ToJSON(true)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "resolution_log", append(out, '\n'))
}

// TestCapitalizeField tests the change-key naming rule.
func TestCapitalizeField(t *testing.T) {
	cases := []struct {
		name     string
		field    string
		expected string
	}{
		{name: "underscore identifier", field: "_id", expected: "Id"},
		{name: "plain lower", field: "email", expected: "Email"},
		{name: "camel case", field: "entryDate", expected: "EntryDate"},
		{name: "already capitalized", field: "Address", expected: "Address"},
		{name: "bare underscore", field: "_", expected: "_"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, capitalizeField(tc.field))
		})
	}
}
