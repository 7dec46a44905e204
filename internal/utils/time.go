package utils

import (
	"time"
)

const dateOnlyFormat = "2006-01-02"

// FormatTimestamp renders a timestamp as ISO-8601 UTC with a trailing Z,
// the one wire format every response uses regardless of the server zone.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseFlexibleTime accepts either a full RFC3339 timestamp or a bare
// YYYY-MM-DD date (midnight UTC). Query-string date filters arrive in both
// shapes depending on the client.
func ParseFlexibleTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(dateOnlyFormat, value)
}

// ParseBeforeBound parses the upper end of a date range. A bare date means
// the whole day is included, so the bound lands on that day's final
// nanosecond rather than its midnight.
func ParseBeforeBound(value string) (time.Time, error) {
	t, err := ParseFlexibleTime(value)
	if err != nil {
		return time.Time{}, err
	}
	if len(value) == len(dateOnlyFormat) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// TruncateToDay drops the time-of-day component, keeping UTC.
func TruncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
