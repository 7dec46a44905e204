package playthroughsController

import (
	"testing"
	"time"

	. "playlater/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedOn(year int) *time.Time {
	t := time.Date(year, time.July, 15, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildPlaythroughStats_Empty(t *testing.T) {
	stats := buildPlaythroughStats(nil)

	assert.Equal(t, 0, stats.TotalPlaythroughs)
	assert.Empty(t, stats.ByStatus)
	assert.Empty(t, stats.ByPlatform)
	assert.True(t, stats.CompletionStats.CompletionRate.IsZero())
	assert.True(t, stats.CompletionStats.AverageRating.IsZero())
	assert.True(t, stats.CompletionStats.TotalPlayTime.IsZero())
	assert.True(t, stats.CompletionStats.AveragePlayTime.IsZero())
	assert.Nil(t, stats.YearlyStats)
}

func TestBuildPlaythroughStats_Aggregates(t *testing.T) {
	playthroughs := []Playthrough{
		{
			Status:        StatusCompleted,
			Platform:      "PC",
			Rating:        intPtr(9),
			PlayTimeHours: decPtr("10.5"),
			CompletedAt:   completedOn(2023),
		},
		{
			Status:        StatusMastered,
			Platform:      "Switch",
			Rating:        intPtr(10),
			PlayTimeHours: decPtr("20.25"),
			CompletedAt:   completedOn(2024),
		},
		{
			Status:        StatusPlaying,
			Platform:      "PC",
			Rating:        intPtr(8),
			PlayTimeHours: decPtr("5"),
		},
		{
			Status:   StatusDropped,
			Platform: "PS5",
			Rating:   intPtr(4),
		},
		{Status: StatusPlanning, Platform: "PC"},
		{Status: StatusPlanning, Platform: "Switch"},
	}

	stats := buildPlaythroughStats(playthroughs)

	assert.Equal(t, 6, stats.TotalPlaythroughs)
	assert.Equal(t, map[string]int{
		"COMPLETED": 1,
		"MASTERED":  1,
		"PLAYING":   1,
		"DROPPED":   1,
		"PLANNING":  2,
	}, stats.ByStatus)
	assert.Equal(t, map[string]int{"PC": 3, "Switch": 2, "PS5": 1}, stats.ByPlatform)

	// 2 finished out of 6, to one decimal place.
	assert.Equal(t, "33.3", stats.CompletionStats.CompletionRate.String())

	// Ratings count regardless of status: (9+10+8+4)/4.
	assert.Equal(t, "7.75", stats.CompletionStats.AverageRating.String())

	// Play time counts finished playthroughs only: 10.5+20.25.
	assert.Equal(t, "30.75", stats.CompletionStats.TotalPlayTime.String())
	assert.Equal(t, "15.38", stats.CompletionStats.AveragePlayTime.String())

	require.NotNil(t, stats.YearlyStats)
	require.Len(t, stats.YearlyStats, 2)
	assert.Equal(t, 1, stats.YearlyStats["2023"].Completed)
	assert.Equal(t, "10.5", stats.YearlyStats["2023"].TotalTime.String())
	assert.Equal(t, 1, stats.YearlyStats["2024"].Completed)
	assert.Equal(t, "20.25", stats.YearlyStats["2024"].TotalTime.String())
}

func TestBuildPlaythroughStats_ZeroDenominators(t *testing.T) {
	// No ratings and nothing finished: every average reports zero instead of
	// being omitted.
	playthroughs := []Playthrough{
		{Status: StatusPlaying, Platform: "PC", PlayTimeHours: decPtr("12")},
		{Status: StatusPlanning, Platform: "PC"},
	}

	stats := buildPlaythroughStats(playthroughs)

	assert.True(t, stats.CompletionStats.CompletionRate.IsZero())
	assert.True(t, stats.CompletionStats.AverageRating.IsZero())
	assert.True(t, stats.CompletionStats.TotalPlayTime.IsZero())
	assert.True(t, stats.CompletionStats.AveragePlayTime.IsZero())
	assert.Nil(t, stats.YearlyStats)
}

func TestBuildPlaythroughStats_FinishedWithoutCompletedAt(t *testing.T) {
	// Counted in the completion rate but absent from the yearly breakdown.
	playthroughs := []Playthrough{
		{Status: StatusCompleted, Platform: "PC", PlayTimeHours: decPtr("8")},
	}

	stats := buildPlaythroughStats(playthroughs)

	assert.Equal(t, "100", stats.CompletionStats.CompletionRate.String())
	assert.Equal(t, "8", stats.CompletionStats.TotalPlayTime.String())
	assert.Nil(t, stats.YearlyStats)
}
