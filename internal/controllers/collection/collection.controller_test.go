package collectionController

import (
	"testing"
	"time"

	"playlater/internal/apperrors"
	. "playlater/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestBuildCollectionFilter_Defaults(t *testing.T) {
	filter, applied, err := buildCollectionFilter(ListParams{})

	assert.NoError(t, err)
	assert.Equal(t, "updated_at", filter.SortBy)
	assert.Equal(t, "desc", filter.SortOrder)
	assert.Equal(t, defaultListLimit, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Nil(t, filter.IsActive)
	assert.Empty(t, filter.Platforms)
	assert.Equal(t, "updated_at", applied.SortBy)
	assert.Equal(t, "desc", applied.SortOrder)
}

func TestBuildCollectionFilter_ParsesEverything(t *testing.T) {
	params := ListParams{
		Platforms:        []string{" PC ", "Switch", ""},
		AcquisitionTypes: []string{"DIGITAL", "PHYSICAL"},
		Priorities:       []string{"1", "3"},
		IsActive:         "true",
		AcquiredAfter:    "2024-01-01",
		AcquiredBefore:   "2024-06-30",
		Search:           "  zelda ",
		SortBy:           "title",
		SortOrder:        "ASC",
		Limit:            "50",
		Offset:           "10",
	}

	filter, applied, err := buildCollectionFilter(params)

	require.NoError(t, err)
	assert.Equal(t, []string{"PC", "Switch"}, filter.Platforms)
	assert.Equal(t, []AcquisitionType{AcquisitionDigital, AcquisitionPhysical}, filter.AcquisitionTypes)
	assert.Equal(t, []int{1, 3}, filter.Priorities)
	require.NotNil(t, filter.IsActive)
	assert.True(t, *filter.IsActive)
	assert.Equal(t, "zelda", filter.Search)
	assert.Equal(t, "title", filter.SortBy)
	assert.Equal(t, "asc", filter.SortOrder)
	assert.Equal(t, 50, filter.Limit)
	assert.Equal(t, 10, filter.Offset)

	require.NotNil(t, filter.AcquiredAfter)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), *filter.AcquiredAfter)

	// A bare acquired_before date includes the whole day.
	require.NotNil(t, filter.AcquiredBefore)
	assert.Equal(t,
		time.Date(2024, time.June, 30, 23, 59, 59, 999999999, time.UTC),
		*filter.AcquiredBefore,
	)

	assert.Equal(t, filter.Platforms, applied.Platforms)
	assert.Equal(t, filter.Priorities, applied.Priorities)
	assert.Equal(t, "asc", applied.SortOrder)
}

func TestBuildCollectionFilter_BatchesAllFieldErrors(t *testing.T) {
	params := ListParams{
		AcquisitionTypes: []string{"STOLEN"},
		Priorities:       []string{"9"},
		IsActive:         "maybe",
		AcquiredAfter:    "yesterday",
		SortBy:           "color",
		SortOrder:        "sideways",
		Limit:            "0",
		Offset:           "-1",
	}

	_, _, err := buildCollectionFilter(params)

	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)

	fields := make([]string, 0, len(appErr.Details))
	for _, d := range appErr.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{
		"acquisition_type", "priority", "is_active", "acquired_after",
		"sort_by", "sort_order", "limit", "offset",
	}, fields)
}

func TestBuildCollectionFilter_LimitBounds(t *testing.T) {
	_, _, err := buildCollectionFilter(ListParams{Limit: "101"})
	assert.Error(t, err)

	filter, _, err := buildCollectionFilter(ListParams{Limit: "100"})
	assert.NoError(t, err)
	assert.Equal(t, 100, filter.Limit)
}

func TestImmutableCollectionFields(t *testing.T) {
	t.Run("Mutable-only update passes", func(t *testing.T) {
		req := UpdateRequest{Priority: intPtr(2)}
		assert.Empty(t, immutableCollectionFields(req))
	})

	t.Run("Identity fields are named individually", func(t *testing.T) {
		platform := "PC"
		at := AcquisitionDigital
		req := UpdateRequest{
			Platform:        &platform,
			AcquisitionType: &at,
			AcquiredAt:      timePtr(time.Now()),
		}
		assert.Equal(t,
			[]string{"platform", "acquisition_type", "acquired_at"},
			immutableCollectionFields(req),
		)
	})
}

func TestCleanValues(t *testing.T) {
	assert.Equal(t, []string{"PC", "Switch"}, cleanValues([]string{" PC ", "", "Switch", "  "}))
	assert.Nil(t, cleanValues([]string{"", " "}))
	assert.Nil(t, cleanValues(nil))
}

func TestBuildCollectionStats_Empty(t *testing.T) {
	stats := buildCollectionStats(nil)

	assert.Equal(t, 0, stats.TotalGames)
	assert.Empty(t, stats.ByPlatform)
	assert.Nil(t, stats.ValueEstimate)
	assert.Empty(t, stats.RecentAdditions)
}

func TestBuildCollectionStats_Aggregates(t *testing.T) {
	now := time.Now()
	items := []CollectionItem{
		{
			Game:            Game{Title: "Newest"},
			Platform:        "PC",
			AcquisitionType: AcquisitionDigital,
			Priority:        intPtr(1),
			AcquiredAt:      timePtr(now),
		},
		{
			Game:            Game{Title: "Older"},
			Platform:        "PC",
			AcquisitionType: AcquisitionDigital,
			Priority:        intPtr(1),
			AcquiredAt:      timePtr(now.Add(-48 * time.Hour)),
		},
		{
			Game:            Game{Title: "Unscheduled"},
			Platform:        "Switch",
			AcquisitionType: AcquisitionPhysical,
		},
		{
			Game:            Game{Title: "Borrowed"},
			Platform:        "PS5",
			AcquisitionType: AcquisitionBorrowed,
			Priority:        intPtr(4),
			AcquiredAt:      timePtr(now.Add(-24 * time.Hour)),
		},
	}

	stats := buildCollectionStats(items)

	assert.Equal(t, 4, stats.TotalGames)
	assert.Equal(t, map[string]int{"PC": 2, "Switch": 1, "PS5": 1}, stats.ByPlatform)
	assert.Equal(t, map[string]int{
		"DIGITAL":  2,
		"PHYSICAL": 1,
		"BORROWED": 1,
	}, stats.ByAcquisitionType)
	assert.Equal(t, map[string]int{"1": 2, "4": 1, "null": 1}, stats.ByPriority)

	// Borrowed copies carry no replacement value.
	require.NotNil(t, stats.ValueEstimate)
	assert.Equal(t, "91.98", stats.ValueEstimate.Digital.String())
	assert.Equal(t, "59.99", stats.ValueEstimate.Physical.String())
	assert.Equal(t, "USD", stats.ValueEstimate.Currency)

	// Most recent first, entries without acquired_at skipped.
	require.Len(t, stats.RecentAdditions, 3)
	assert.Equal(t, "Newest", stats.RecentAdditions[0].Game.Title)
	assert.Equal(t, "Borrowed", stats.RecentAdditions[1].Game.Title)
	assert.Equal(t, "Older", stats.RecentAdditions[2].Game.Title)
}

func TestBuildCollectionStats_RecentAdditionsCapped(t *testing.T) {
	now := time.Now()
	items := make([]CollectionItem, 0, 7)
	for i := 0; i < 7; i++ {
		items = append(items, CollectionItem{
			Game:            Game{Title: "Game"},
			Platform:        "PC",
			AcquisitionType: AcquisitionDigital,
			AcquiredAt:      timePtr(now.Add(-time.Duration(i) * time.Hour)),
		})
	}

	stats := buildCollectionStats(items)

	assert.Len(t, stats.RecentAdditions, 5)
}
