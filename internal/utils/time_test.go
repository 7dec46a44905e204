package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestamp(t *testing.T) {
	t.Run("Renders UTC with trailing Z", func(t *testing.T) {
		ts := time.Date(2024, time.March, 10, 15, 4, 5, 0, time.UTC)
		assert.Equal(t, "2024-03-10T15:04:05Z", FormatTimestamp(ts))
	})

	t.Run("Converts zoned timestamps to UTC", func(t *testing.T) {
		zone := time.FixedZone("UTC+2", 2*60*60)
		ts := time.Date(2024, time.March, 10, 17, 4, 5, 0, zone)
		assert.Equal(t, "2024-03-10T15:04:05Z", FormatTimestamp(ts))
	})
}

func TestParseFlexibleTime(t *testing.T) {
	t.Run("RFC3339 timestamp", func(t *testing.T) {
		parsed, err := ParseFlexibleTime("2024-03-10T15:04:05Z")

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.March, 10, 15, 4, 5, 0, time.UTC), parsed.UTC())
	})

	t.Run("Bare date is midnight UTC", func(t *testing.T) {
		parsed, err := ParseFlexibleTime("2024-03-10")

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("Rejects other formats", func(t *testing.T) {
		_, err := ParseFlexibleTime("10/03/2024")
		assert.Error(t, err)

		_, err = ParseFlexibleTime("not a date")
		assert.Error(t, err)
	})
}

func TestParseBeforeBound(t *testing.T) {
	t.Run("Bare date covers the whole day", func(t *testing.T) {
		parsed, err := ParseBeforeBound("2024-03-10")

		assert.NoError(t, err)
		expected := time.Date(2024, time.March, 10, 23, 59, 59, 999999999, time.UTC)
		assert.Equal(t, expected, parsed)
	})

	t.Run("Full timestamp passes through unchanged", func(t *testing.T) {
		parsed, err := ParseBeforeBound("2024-03-10T12:00:00Z")

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC), parsed.UTC())
	})

	t.Run("Rejects garbage", func(t *testing.T) {
		_, err := ParseBeforeBound("soon")
		assert.Error(t, err)
	})
}

func TestTruncateToDay(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	ts := time.Date(2024, time.March, 10, 22, 30, 0, 0, zone)

	truncated := TruncateToDay(ts)

	// 22:30 UTC-5 is 03:30 UTC the next day.
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), truncated)
}
