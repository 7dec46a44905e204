package playthroughsController

import (
	"testing"
	"time"

	"playlater/internal/apperrors"
	. "playlater/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBuildPlaythroughFilter_Defaults(t *testing.T) {
	filter, applied, err := buildPlaythroughFilter(ListParams{})

	assert.NoError(t, err)
	assert.Equal(t, "updated_at", filter.SortBy)
	assert.Equal(t, "desc", filter.SortOrder)
	assert.Equal(t, defaultListLimit, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Empty(t, filter.Statuses)
	assert.False(t, applied.UnplayedOnly)
}

func TestBuildPlaythroughFilter_ParsesEverything(t *testing.T) {
	params := ListParams{
		Statuses:         []string{"PLAYING", "COMPLETED"},
		Platforms:        []string{"PC"},
		Difficulties:     []string{"Hard"},
		PlaythroughTypes: []string{"NG+"},
		RatingMin:        "6",
		RatingMax:        "10",
		PlayTimeMin:      "1.5",
		PlayTimeMax:      "80",
		StartedAfter:     "2024-01-01",
		CompletedBefore:  "2024-12-31",
		Search:           "elden",
		SortBy:           "rating",
		SortOrder:        "asc",
		Limit:            "25",
		Offset:           "5",
	}

	filter, applied, err := buildPlaythroughFilter(params)

	require.NoError(t, err)
	assert.Equal(t, []PlaythroughStatus{StatusPlaying, StatusCompleted}, filter.Statuses)
	assert.Equal(t, []string{"PC"}, filter.Platforms)
	assert.Equal(t, []string{"Hard"}, filter.Difficulties)
	assert.Equal(t, []string{"NG+"}, filter.PlaythroughTypes)
	assert.Equal(t, 6, *filter.RatingMin)
	assert.Equal(t, 10, *filter.RatingMax)
	assert.Equal(t, 1.5, *filter.PlayTimeMin)
	assert.Equal(t, 80.0, *filter.PlayTimeMax)
	assert.Equal(t, "elden", filter.Search)
	assert.Equal(t, "rating", filter.SortBy)
	assert.Equal(t, "asc", filter.SortOrder)
	assert.Equal(t, 25, filter.Limit)
	assert.Equal(t, 5, filter.Offset)

	require.NotNil(t, filter.StartedAfter)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), *filter.StartedAfter)

	// A bare completed_before date includes the whole day.
	require.NotNil(t, filter.CompletedBefore)
	assert.Equal(t,
		time.Date(2024, time.December, 31, 23, 59, 59, 999999999, time.UTC),
		*filter.CompletedBefore,
	)

	assert.Equal(t, filter.Statuses, applied.Statuses)
	assert.Equal(t, filter.RatingMin, applied.RatingMin)
}

func TestBuildPlaythroughFilter_BatchesAllFieldErrors(t *testing.T) {
	params := ListParams{
		Statuses:     []string{"FINISHED"},
		UnplayedOnly: "perhaps",
		RatingMin:    "0",
		PlayTimeMin:  "-3",
		SortBy:       "color",
		Limit:        "9000",
	}

	_, _, err := buildPlaythroughFilter(params)

	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)

	fields := make([]string, 0, len(appErr.Details))
	for _, d := range appErr.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{
		"status", "unplayed_only", "rating_min", "play_time_min", "sort_by", "limit",
	}, fields)
}

func TestBuildPlaythroughFilter_RatingWindow(t *testing.T) {
	_, _, err := buildPlaythroughFilter(ListParams{RatingMin: "8", RatingMax: "3"})

	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "rating_min", appErr.Details[0].Field)
}

func TestBuildPlaythroughFilter_PlayTimeWindow(t *testing.T) {
	_, _, err := buildPlaythroughFilter(ListParams{PlayTimeMin: "50", PlayTimeMax: "10"})

	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "play_time_min", appErr.Details[0].Field)
}

func TestBuildPlaythroughFilter_UnplayedOnly(t *testing.T) {
	t.Run("Alone narrows to planning", func(t *testing.T) {
		filter, applied, err := buildPlaythroughFilter(ListParams{UnplayedOnly: "true"})

		require.NoError(t, err)
		assert.Equal(t, []PlaythroughStatus{StatusPlanning}, filter.Statuses)
		assert.True(t, applied.UnplayedOnly)
	})

	t.Run("Compatible with an explicit planning filter", func(t *testing.T) {
		filter, _, err := buildPlaythroughFilter(ListParams{
			UnplayedOnly: "true",
			Statuses:     []string{"PLANNING"},
		})

		require.NoError(t, err)
		assert.Equal(t, []PlaythroughStatus{StatusPlanning}, filter.Statuses)
	})

	t.Run("Conflicts with any other status", func(t *testing.T) {
		_, _, err := buildPlaythroughFilter(ListParams{
			UnplayedOnly: "true",
			Statuses:     []string{"PLAYING"},
		})

		require.Error(t, err)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindConflictingFilters, appErr.Kind)
	})
}

func TestValidatePlayFields(t *testing.T) {
	t.Run("Valid values pass", func(t *testing.T) {
		assert.Empty(t, validatePlayFields(intPtr(10), decPtr("42.5")))
		assert.Empty(t, validatePlayFields(nil, nil))
		assert.Empty(t, validatePlayFields(intPtr(1), decPtr("0")))
	})

	t.Run("Rating out of range", func(t *testing.T) {
		fields := validatePlayFields(intPtr(11), nil)
		require.Len(t, fields, 1)
		assert.Equal(t, "rating", fields[0].Field)

		fields = validatePlayFields(intPtr(0), nil)
		require.Len(t, fields, 1)
		assert.Equal(t, "rating", fields[0].Field)
	})

	t.Run("Negative play time", func(t *testing.T) {
		fields := validatePlayFields(nil, decPtr("-1"))
		require.Len(t, fields, 1)
		assert.Equal(t, "play_time_hours", fields[0].Field)
	})

	t.Run("Both invalid reports both", func(t *testing.T) {
		fields := validatePlayFields(intPtr(0), decPtr("-0.5"))
		assert.Len(t, fields, 2)
	})
}

func TestImmutablePlaythroughFields(t *testing.T) {
	assert.Empty(t, immutablePlaythroughFields(UpdateRequest{}))

	gameID := uuid.New()
	collectionID := uuid.New()
	fields := immutablePlaythroughFields(UpdateRequest{
		GameID:       &gameID,
		CollectionID: &collectionID,
	})
	assert.Equal(t, []string{"game_id", "collection_id"}, fields)
}
