package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDate_Formats tests the flexible format detection table.
func TestParseDate_Formats(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string // RFC3339 in UTC
		valid bool
	}{
		{"rfc3339 zulu", "2014-05-07T17:30:20Z", "2014-05-07T17:30:20Z", true},
		{"rfc3339 offset", "2014-05-07T17:30:20+00:00", "2014-05-07T17:30:20Z", true},
		{"rfc3339 nano", "2014-05-07T17:30:20.000000000Z", "2014-05-07T17:30:20Z", true},
		{"iso no zone", "2014-05-07T17:30:20", "2014-05-07T17:30:20Z", true},
		{"space separated", "2014-05-07 17:30:20", "2014-05-07T17:30:20Z", true},
		{"space with offset", "2014-05-07 17:30:20 +0200", "2014-05-07T15:30:20Z", true},
		{"date only", "2014-05-07", "2014-05-07T00:00:00Z", true},
		{"slash date", "2014/05/07", "2014-05-07T00:00:00Z", true},
		{"us slash datetime", "05/07/2014 17:30:20", "2014-05-07T17:30:20Z", true},
		{"rfc1123", "Wed, 07 May 2014 17:30:20 UTC", "2014-05-07T17:30:20Z", true},
		{"epoch seconds", "1399483820", "2014-05-07T17:30:20Z", true},
		{"epoch millis", "1399483820000", "2014-05-07T17:30:20Z", true},
		{"surrounding whitespace", "  2014-05-07T17:30:20Z ", "2014-05-07T17:30:20Z", true},
		{"empty", "", "", false},
		{"garbage", "not-a-date", "", false},
		{"partial", "2014-13-45", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				want, err := time.Parse(time.RFC3339, tt.want)
				require.NoError(t, err)
				assert.True(t, got.Equal(want), "parsed %s, want %s", got.UTC().Format(time.RFC3339), tt.want)
			}
		})
	}
}

// TestParseDate_EquivalentInstants tests that different notations of the same
// instant compare equal after parsing.
func TestParseDate_EquivalentInstants(t *testing.T) {
	a, okA := ParseDate("2014-05-07T17:30:20+00:00")
	b, okB := ParseDate("2014-05-07 17:30:20")
	require.True(t, okA)
	require.True(t, okB)
	assert.True(t, a.Equal(b))
}
