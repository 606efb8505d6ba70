package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"record-resolver/core/record"
)

// Document is one parsed dataset: the records plus the container shape they
// arrived in, so writers can re-serialize the same shape.
type Document struct {
	// Records holds the parsed records in input order.
	Records []record.Record

	// Container is the wrapper key the record array was found under, or
	// empty when the document was a bare array.
	Container string
}

// Parse reads a dataset from r. The name labels the source in errors.
func Parse(r io.Reader, name string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ParseBytes(data, name)
}

// ParseBytes parses a dataset held in memory. The name labels the source in
// errors.
func ParseBytes(data []byte, name string) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%s: invalid JSON: %w", name, err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("%s: expected an object or array, got %v", name, tok)
	}

	switch delim {
	case '[':
		records, err := decodeRecords(dec, name)
		if err != nil {
			return nil, err
		}
		return &Document{Records: records}, nil
	case '{':
		return parseContainer(dec, name)
	default:
		return nil, fmt.Errorf("%s: expected an object or array, got %q", name, delim)
	}
}

// wrapperKeys are the container keys recognized ahead of any other
// array-valued key.
var wrapperKeys = []string{"leads", "records"}

// parseContainer scans a wrapper object for its record array. A recognized
// wrapper key wins over other array-valued keys; otherwise the first
// array-valued key is used.
func parseContainer(dec *json.Decoder, name string) (*Document, error) {
	type arrayField struct {
		key string
		raw json.RawMessage
	}
	var arrays []arrayField

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%s: invalid JSON: %w", name, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%s: invalid object key %v", name, keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%s: invalid value for %q: %w", name, key, err)
		}
		if isArray(raw) {
			arrays = append(arrays, arrayField{key: key, raw: raw})
		}
	}

	chosen := -1
	for _, wrapper := range wrapperKeys {
		for i, af := range arrays {
			if af.key == wrapper {
				chosen = i
				break
			}
		}
		if chosen >= 0 {
			break
		}
	}
	if chosen < 0 {
		if len(arrays) == 0 {
			return nil, fmt.Errorf("%s: no record array found in document", name)
		}
		chosen = 0
	}

	inner := json.NewDecoder(bytes.NewReader(arrays[chosen].raw))
	if _, err := inner.Token(); err != nil {
		return nil, fmt.Errorf("%s: invalid array for %q: %w", name, arrays[chosen].key, err)
	}
	records, err := decodeRecords(inner, name)
	if err != nil {
		return nil, err
	}
	return &Document{Records: records, Container: arrays[chosen].key}, nil
}

// decodeRecords consumes array elements from dec until the closing bracket.
func decodeRecords(dec *json.Decoder, name string) ([]record.Record, error) {
	records := []record.Record{}
	for i := 0; dec.More(); i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%s: record %d: invalid JSON: %w", name, i, err)
		}

		fields, err := decodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
		}

		rec, err := record.New(fields)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeFields walks one record object token by token so the field order of
// the input is preserved.
func decodeFields(raw json.RawMessage) ([]record.Field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object, got %v", tok)
	}

	var fields []record.Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid object key %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", key, err)
		}
		fields = append(fields, record.Field{Name: key, Value: value})
	}
	return fields, nil
}

// isArray reports whether raw starts a JSON array, tolerating leading
// whitespace.
func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
