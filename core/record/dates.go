package record

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order. The list covers the formats seen in real
// record exports: RFC3339 with and without sub-seconds, ISO-8601 without a
// zone, space-separated timestamps, plain dates, slash dates and RFC1123.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate attempts to parse a recency string using flexible format
// detection. Numeric strings are treated as unix epochs (seconds, or
// milliseconds when the magnitude is too large for seconds). Returns false
// when no format matches; the caller treats such records as unorderable.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
		// 1e11 seconds is year 5138; anything larger is milliseconds.
		if epoch > 1e11 || epoch < -1e11 {
			return time.UnixMilli(epoch).UTC(), true
		}
		return time.Unix(epoch, 0).UTC(), true
	}

	return time.Time{}, false
}
