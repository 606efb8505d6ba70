package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew_ValidRecord tests construction from an ordered field list.
func TestNew_ValidRecord(t *testing.T) {
	rec, err := New([]Field{
		String(FieldID, "jkj238238jdsnfsj23"),
		String(FieldEmail, "foo@bar.com"),
		String("firstName", "John"),
		String("lastName", "Smith"),
		String("address", "123 Street St"),
		String(FieldEntryDate, "2014-05-07T17:30:20+00:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "jkj238238jdsnfsj23", rec.ID())
	assert.Equal(t, "foo@bar.com", rec.Email())
	assert.Equal(t, "2014-05-07T17:30:20+00:00", rec.EntryDate())

	_, ok := rec.EntryUnixNano()
	assert.True(t, ok)

	// Attributes exclude the three known fields and keep document order.
	attrs := rec.Attributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, "firstName", attrs[0].Name)
	assert.Equal(t, "lastName", attrs[1].Name)
	assert.Equal(t, "address", attrs[2].Name)
}

// TestNew_RequiredFields tests that missing or malformed keys are rejected.
func TestNew_RequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		fields    []Field
		expectErr string
	}{
		{
			name:      "missing id",
			fields:    []Field{String(FieldEmail, "a@b.com")},
			expectErr: `missing required field "_id"`,
		},
		{
			name:      "missing email",
			fields:    []Field{String(FieldID, "1")},
			expectErr: `missing required field "email"`,
		},
		{
			name: "empty id",
			fields: []Field{
				String(FieldID, ""),
				String(FieldEmail, "a@b.com"),
			},
			expectErr: `field "_id" must not be empty`,
		},
		{
			name: "numeric id",
			fields: []Field{
				{Name: FieldID, Value: json.RawMessage(`42`)},
				String(FieldEmail, "a@b.com"),
			},
			expectErr: `field "_id" must be a string`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fields)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}

// TestNew_UnparseableRecencyTolerated tests that a bad recency is not an error.
func TestNew_UnparseableRecencyTolerated(t *testing.T) {
	rec, err := New([]Field{
		String(FieldID, "1"),
		String(FieldEmail, "a@b.com"),
		String(FieldEntryDate, "not-a-date"),
	})
	require.NoError(t, err)

	assert.Equal(t, "not-a-date", rec.EntryDate())
	_, ok := rec.EntryUnixNano()
	assert.False(t, ok)
}

// TestNew_AbsentRecencyTolerated tests records without a recency field.
func TestNew_AbsentRecencyTolerated(t *testing.T) {
	rec, err := New([]Field{
		String(FieldID, "1"),
		String(FieldEmail, "a@b.com"),
	})
	require.NoError(t, err)

	assert.Empty(t, rec.EntryDate())
	_, ok := rec.EntryUnixNano()
	assert.False(t, ok)
}

// TestNew_DuplicateFields tests JSON object semantics: first position wins,
// last value wins.
func TestNew_DuplicateFields(t *testing.T) {
	rec, err := New([]Field{
		String(FieldID, "1"),
		String("city", "Austin"),
		String(FieldEmail, "a@b.com"),
		String("city", "Dallas"),
	})
	require.NoError(t, err)

	attrs := rec.Attributes()
	require.Len(t, attrs, 1)
	assert.Equal(t, "city", attrs[0].Name)
	assert.Equal(t, json.RawMessage(`"Dallas"`), attrs[0].Value)

	// Position of the first occurrence is preserved: city sits between the
	// two key fields in the serialized form.
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"1","city":"Dallas","email":"a@b.com"}`, string(data))
	assert.Equal(t, `{"_id":"1","city":"Dallas","email":"a@b.com"}`, string(data))
}

// TestMarshalJSON_PreservesOrderAndValues tests byte-stable re-serialization.
func TestMarshalJSON_PreservesOrderAndValues(t *testing.T) {
	rec, err := New([]Field{
		String(FieldID, "x1"),
		String(FieldEmail, "x@y.z"),
		{Name: "tags", Value: json.RawMessage(`[ "a" , "b" ]`)},
		{Name: "score", Value: json.RawMessage(`12.5`)},
		{Name: "nested", Value: json.RawMessage(`{ "k" : 1 }`)},
		String(FieldEntryDate, "2014-05-07T17:30:20Z"),
	})
	require.NoError(t, err)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	// Values are compacted, order is the document order.
	expected := `{"_id":"x1","email":"x@y.z","tags":["a","b"],"score":12.5,"nested":{"k":1},"entryDate":"2014-05-07T17:30:20Z"}`
	assert.Equal(t, expected, string(data))
}

// TestGet tests field lookup by name.
func TestGet(t *testing.T) {
	rec, err := New([]Field{
		String(FieldID, "1"),
		String(FieldEmail, "a@b.com"),
		String("firstName", "Ada"),
	})
	require.NoError(t, err)

	v, ok := rec.Get("firstName")
	assert.True(t, ok)
	assert.Equal(t, json.RawMessage(`"Ada"`), v)

	_, ok = rec.Get("lastName")
	assert.False(t, ok)
}

// TestCompareRecency tests the ordering contract, including the rule that
// unparseable recency compares as equal rather than lowest.
func TestCompareRecency(t *testing.T) {
	mk := func(date string) Record {
		fields := []Field{String(FieldID, "1"), String(FieldEmail, "a@b.com")}
		if date != "" {
			fields = append(fields, String(FieldEntryDate, date))
		}
		rec, err := New(fields)
		require.NoError(t, err)
		return rec
	}

	older := mk("2014-05-07T17:30:20Z")
	newer := mk("2014-05-07T17:31:20Z")
	sameAsOlder := mk("2014-05-07T17:30:20+00:00")
	invalid := mk("garbage")
	absent := mk("")

	assert.Equal(t, 1, CompareRecency(newer, older))
	assert.Equal(t, -1, CompareRecency(older, newer))
	assert.Equal(t, 0, CompareRecency(older, sameAsOlder))

	// Any comparison touching an unparseable recency is "cannot order".
	assert.Equal(t, 0, CompareRecency(invalid, newer))
	assert.Equal(t, 0, CompareRecency(newer, invalid))
	assert.Equal(t, 0, CompareRecency(invalid, absent))
}
