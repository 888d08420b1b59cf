package uframe

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Timestamp layouts used on the wire.
const (
	// RequestTimeLayout is the beginDT/endDT layout of request URLs.
	RequestTimeLayout = "2006-01-02T15:04:05.000000Z"

	// EventTimeLayout is the layout of normalized deployment event times.
	EventTimeLayout = "2006-01-02T15:04:05.000Z"
)

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone are
// interpreted as UTC. The result is always in UTC.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, Errorf(EPARSE, "empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return t.UTC(), nil
	}
	t, err := dateparse.ParseIn(trimmed, time.UTC)
	if err != nil {
		return time.Time{}, Errorf(EPARSE, "invalid timestamp %q", value)
	}
	return t.UTC(), nil
}

// FormatRequestTime formats t for a request URL with microsecond precision.
func FormatRequestTime(t time.Time) string {
	return t.UTC().Format(RequestTimeLayout)
}

// EpochMillis parses an ISO-8601 timestamp and returns milliseconds since the
// Unix epoch.
func EpochMillis(value string) (int64, error) {
	t, err := ParseTimestamp(value)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// FormatEpochMillis converts milliseconds since the Unix epoch to an
// ISO-8601 UTC string. Values outside years 0001-9999 cannot be represented.
func FormatEpochMillis(ms int64) (string, error) {
	t := time.UnixMilli(ms).UTC()
	if y := t.Year(); y < 1 || y > 9999 {
		return "", Errorf(EPARSE, "epoch milliseconds %d out of range", ms)
	}
	return t.Format(EventTimeLayout), nil
}
