package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Names of the fields every record must or may carry. All other fields are
// open attributes.
const (
	FieldID        = "_id"
	FieldEmail     = "email"
	FieldEntryDate = "entryDate"
)

// Field is a single name/value pair of a record document. Values are raw,
// compacted JSON so attribute payloads of any shape survive untouched.
type Field struct {
	Name  string
	Value json.RawMessage
}

// String builds a Field holding a JSON string value. It is the common case
// for the key and recency fields.
func String(name, value string) Field {
	quoted, _ := json.Marshal(value)
	return Field{Name: name, Value: quoted}
}

// Record is an immutable record value. It keeps the complete ordered field
// list of the source document plus the extracted key and recency fields.
type Record struct {
	fields    []Field
	id        string
	email     string
	entryDate string
	entryTime int64 // unix nanoseconds of the parsed recency
	parseable bool
}

// New constructs a Record from an ordered field list. The identifier and
// email fields must be present as non-empty JSON strings; the recency field is
// optional and tolerated in any parseable or unparseable form. Duplicate field
// names keep the position of the first occurrence and the value of the last,
// matching JSON object semantics.
func New(fields []Field) (Record, error) {
	rec := Record{fields: make([]Field, 0, len(fields))}

	seen := make(map[string]int, len(fields))
	for _, f := range fields {
		compact, err := compactValue(f.Value)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: invalid JSON value: %w", f.Name, err)
		}
		if at, dup := seen[f.Name]; dup {
			rec.fields[at].Value = compact
			continue
		}
		seen[f.Name] = len(rec.fields)
		rec.fields = append(rec.fields, Field{Name: f.Name, Value: compact})
	}

	var err error
	if rec.id, err = requireString(rec.fields, seen, FieldID); err != nil {
		return Record{}, err
	}
	if rec.email, err = requireString(rec.fields, seen, FieldEmail); err != nil {
		return Record{}, err
	}

	if at, ok := seen[FieldEntryDate]; ok {
		rec.entryDate = rawScalarString(rec.fields[at].Value)
		if t, ok := ParseDate(rec.entryDate); ok {
			rec.entryTime = t.UnixNano()
			rec.parseable = true
		}
	}

	return rec, nil
}

// ID returns the identifier key.
func (r Record) ID() string { return r.id }

// Email returns the email key.
func (r Record) Email() string { return r.email }

// EntryDate returns the raw recency string, empty when the field is absent.
func (r Record) EntryDate() string { return r.entryDate }

// EntryUnixNano returns the parsed recency as unix nanoseconds. The second
// return is false when the recency is absent or unparseable.
func (r Record) EntryUnixNano() (int64, bool) { return r.entryTime, r.parseable }

// Fields returns the complete ordered field list. The returned slice is the
// record's backing data and must not be modified.
func (r Record) Fields() []Field { return r.fields }

// Attributes returns the open attribute fields, in document order, excluding
// the identifier, email and recency fields.
func (r Record) Attributes() []Field {
	attrs := make([]Field, 0, len(r.fields))
	for _, f := range r.fields {
		switch f.Name {
		case FieldID, FieldEmail, FieldEntryDate:
			continue
		}
		attrs = append(attrs, f)
	}
	return attrs
}

// Get returns the compacted raw value of the named field.
func (r Record) Get(name string) (json.RawMessage, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON re-serializes the record as a JSON object with fields in their
// original document order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CompareRecency reports the relative recency of two records: +1 when a is
// strictly newer than b, -1 when strictly older, 0 when equal. A comparison
// involving an unparseable recency is always 0, "cannot order" rather than
// "loses".
func CompareRecency(a, b Record) int {
	if !a.parseable || !b.parseable {
		return 0
	}
	switch {
	case a.entryTime > b.entryTime:
		return 1
	case a.entryTime < b.entryTime:
		return -1
	default:
		return 0
	}
}

// compactValue normalizes a raw JSON value so equality checks and
// re-serialization are byte-stable regardless of source whitespace.
func compactValue(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty value")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	out := make(json.RawMessage, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// requireString extracts a mandatory non-empty JSON string field.
func requireString(fields []Field, seen map[string]int, name string) (string, error) {
	at, ok := seen[name]
	if !ok {
		return "", fmt.Errorf("missing required field %q", name)
	}
	var s string
	if err := json.Unmarshal(fields[at].Value, &s); err != nil {
		return "", fmt.Errorf("field %q must be a string", name)
	}
	if s == "" {
		return "", fmt.Errorf("field %q must not be empty", name)
	}
	return s, nil
}

// rawScalarString renders a raw JSON scalar as its plain string form: quoted
// strings are unquoted, numbers keep their literal digits. Non-scalar values
// fall back to their compact JSON text and will simply fail date parsing.
func rawScalarString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
