package playthroughsController

import (
	"context"
	"strconv"
	"time"

	"playlater/internal/apperrors"
	. "playlater/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CompletionStats always carries all four fields; empty denominators
// report zero rather than dropping the key.
type CompletionStats struct {
	CompletionRate  decimal.Decimal `json:"completion_rate"`
	AverageRating   decimal.Decimal `json:"average_rating"`
	TotalPlayTime   decimal.Decimal `json:"total_play_time"`
	AveragePlayTime decimal.Decimal `json:"average_play_time"`
}

type YearlyStat struct {
	Completed int             `json:"completed"`
	TotalTime decimal.Decimal `json:"total_time"`
}

type StatsResponse struct {
	TotalPlaythroughs int                   `json:"total_playthroughs"`
	ByStatus          map[string]int        `json:"by_status"`
	ByPlatform        map[string]int        `json:"by_platform"`
	CompletionStats   CompletionStats       `json:"completion_stats"`
	YearlyStats       map[string]YearlyStat `json:"yearly_stats,omitempty"`
}

type BacklogItem struct {
	ID         uuid.UUID          `json:"id"`
	Game       GameSummary        `json:"game"`
	Collection *CollectionSnippet `json:"collection,omitempty"`
	Status     PlaythroughStatus  `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
}

type BacklogResponse struct {
	Items      []BacklogItem `json:"items"`
	TotalCount int           `json:"total_count"`
}

type PlayingItem struct {
	ID            uuid.UUID         `json:"id"`
	Game          GameSummary       `json:"game"`
	Status        PlaythroughStatus `json:"status"`
	Platform      string            `json:"platform"`
	StartedAt     *time.Time        `json:"started_at,omitempty"`
	PlayTimeHours *decimal.Decimal  `json:"play_time_hours,omitempty"`
	LastPlayed    time.Time         `json:"last_played"`
}

type PlayingResponse struct {
	Items      []PlayingItem `json:"items"`
	TotalCount int           `json:"total_count"`
}

type CompletedParams struct {
	Year      string
	Platform  string
	MinRating string
}

type CompletedItem struct {
	ID              uuid.UUID         `json:"id"`
	Game            GameSummary       `json:"game"`
	Status          PlaythroughStatus `json:"status"`
	Platform        string            `json:"platform"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	PlayTimeHours   *decimal.Decimal  `json:"play_time_hours,omitempty"`
	Rating          *int              `json:"rating,omitempty"`
	PlaythroughType *string           `json:"playthrough_type,omitempty"`
}

// CompletedSummary reports averages only over the rows that carry the
// underlying field; total_completed is always present.
type CompletedSummary struct {
	TotalCompleted  int              `json:"total_completed"`
	AverageRating   *decimal.Decimal `json:"average_rating,omitempty"`
	TotalPlayTime   *decimal.Decimal `json:"total_play_time,omitempty"`
	AveragePlayTime *decimal.Decimal `json:"average_play_time,omitempty"`
}

type CompletedResponse struct {
	Items           []CompletedItem  `json:"items"`
	TotalCount      int              `json:"total_count"`
	CompletionStats CompletedSummary `json:"completion_stats"`
}

func (c *PlaythroughsController) Stats(
	ctx context.Context,
	userID uuid.UUID,
) (*StatsResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("Stats")

	playthroughs, err := c.playthroughRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, log.Err("failed to load playthroughs for stats", err, "userID", userID)
	}

	return buildPlaythroughStats(playthroughs), nil
}

// buildPlaythroughStats aggregates in one pass. Completion rate counts
// COMPLETED and MASTERED against everything; the average rating spans every
// rated playthrough regardless of status; play-time totals cover finished
// playthroughs only.
func buildPlaythroughStats(playthroughs []Playthrough) *StatsResponse {
	stats := &StatsResponse{
		TotalPlaythroughs: len(playthroughs),
		ByStatus:          make(map[string]int),
		ByPlatform:        make(map[string]int),
	}

	completed := 0
	ratingSum := 0
	ratingCount := 0
	playTimeTotal := decimal.Zero
	playTimeCount := 0
	yearly := make(map[string]YearlyStat)

	for i := range playthroughs {
		p := &playthroughs[i]
		stats.ByStatus[string(p.Status)]++
		stats.ByPlatform[p.Platform]++

		if p.Rating != nil {
			ratingSum += *p.Rating
			ratingCount++
		}

		if !p.Status.IsCompletedOrBetter() {
			continue
		}
		completed++
		if p.PlayTimeHours != nil {
			playTimeTotal = playTimeTotal.Add(*p.PlayTimeHours)
			playTimeCount++
		}
		if p.CompletedAt != nil {
			year := strconv.Itoa(p.CompletedAt.UTC().Year())
			entry := yearly[year]
			entry.Completed++
			if p.PlayTimeHours != nil {
				entry.TotalTime = entry.TotalTime.Add(*p.PlayTimeHours)
			}
			yearly[year] = entry
		}
	}

	if stats.TotalPlaythroughs > 0 {
		stats.CompletionStats.CompletionRate = decimal.NewFromInt(int64(completed)).
			Mul(oneHundred).
			Div(decimal.NewFromInt(int64(stats.TotalPlaythroughs))).
			Round(1)
	}
	if ratingCount > 0 {
		stats.CompletionStats.AverageRating = decimal.NewFromInt(int64(ratingSum)).
			Div(decimal.NewFromInt(int64(ratingCount))).
			Round(2)
	}
	stats.CompletionStats.TotalPlayTime = playTimeTotal.Round(2)
	if playTimeCount > 0 {
		stats.CompletionStats.AveragePlayTime = playTimeTotal.
			Div(decimal.NewFromInt(int64(playTimeCount))).
			Round(2)
	}

	if len(yearly) > 0 {
		for year, entry := range yearly {
			entry.TotalTime = entry.TotalTime.Round(2)
			yearly[year] = entry
		}
		stats.YearlyStats = yearly
	}

	return stats
}

func (c *PlaythroughsController) Backlog(
	ctx context.Context,
	userID uuid.UUID,
	rawPriority string,
) (*BacklogResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("Backlog")

	var priority *int
	if rawPriority != "" {
		var fields []apperrors.FieldError
		if p, ok := parseIntParam(rawPriority, "priority", 1, 5, &fields); ok {
			priority = p
		} else {
			return nil, apperrors.Validation(fields...)
		}
	}

	playthroughs, err := c.playthroughRepo.ListBacklog(ctx, userID, priority)
	if err != nil {
		return nil, log.Err("failed to list backlog", err, "userID", userID)
	}

	response := &BacklogResponse{
		Items:      make([]BacklogItem, 0, len(playthroughs)),
		TotalCount: len(playthroughs),
	}
	for i := range playthroughs {
		p := &playthroughs[i]
		item := BacklogItem{
			ID:        p.ID,
			Game:      shelfSummary(&p.Game),
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
		}
		if p.Collection != nil {
			snippet := p.Collection.ToSnippet()
			item.Collection = &snippet
		}
		response.Items = append(response.Items, item)
	}

	return response, nil
}

func (c *PlaythroughsController) Playing(
	ctx context.Context,
	userID uuid.UUID,
	platform string,
) (*PlayingResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("Playing")

	var platformFilter *string
	if platform != "" {
		platformFilter = &platform
	}

	playthroughs, err := c.playthroughRepo.ListPlaying(ctx, userID, platformFilter)
	if err != nil {
		return nil, log.Err("failed to list playing", err, "userID", userID)
	}

	response := &PlayingResponse{
		Items:      make([]PlayingItem, 0, len(playthroughs)),
		TotalCount: len(playthroughs),
	}
	for i := range playthroughs {
		p := &playthroughs[i]
		response.Items = append(response.Items, PlayingItem{
			ID:            p.ID,
			Game:          shelfSummary(&p.Game),
			Status:        p.Status,
			Platform:      p.Platform,
			StartedAt:     p.StartedAt,
			PlayTimeHours: p.PlayTimeHours,
			LastPlayed:    p.UpdatedAt,
		})
	}

	return response, nil
}

func (c *PlaythroughsController) Completed(
	ctx context.Context,
	userID uuid.UUID,
	params CompletedParams,
) (*CompletedResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("Completed")

	var fields []apperrors.FieldError
	var year *int
	if params.Year != "" {
		v, err := strconv.Atoi(params.Year)
		if err != nil {
			fields = append(fields, apperrors.FieldError{
				Field:   "year",
				Message: "year must be an integer",
			})
		} else {
			year = &v
		}
	}
	minRating, _ := parseIntParam(params.MinRating, "min_rating", 1, 10, &fields)
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields...)
	}

	var platformFilter *string
	if params.Platform != "" {
		platformFilter = &params.Platform
	}

	playthroughs, err := c.playthroughRepo.ListCompleted(ctx, userID, year, platformFilter, minRating)
	if err != nil {
		return nil, log.Err("failed to list completed", err, "userID", userID)
	}

	response := &CompletedResponse{
		Items:      make([]CompletedItem, 0, len(playthroughs)),
		TotalCount: len(playthroughs),
	}

	ratingSum := 0
	ratingCount := 0
	playTimeTotal := decimal.Zero
	playTimeCount := 0
	for i := range playthroughs {
		p := &playthroughs[i]
		response.Items = append(response.Items, CompletedItem{
			ID:              p.ID,
			Game:            shelfSummary(&p.Game),
			Status:          p.Status,
			Platform:        p.Platform,
			CompletedAt:     p.CompletedAt,
			PlayTimeHours:   p.PlayTimeHours,
			Rating:          p.Rating,
			PlaythroughType: p.PlaythroughType,
		})

		if p.Rating != nil {
			ratingSum += *p.Rating
			ratingCount++
		}
		if p.PlayTimeHours != nil {
			playTimeTotal = playTimeTotal.Add(*p.PlayTimeHours)
			playTimeCount++
		}
	}

	response.CompletionStats.TotalCompleted = len(response.Items)
	if ratingCount > 0 {
		avg := decimal.NewFromInt(int64(ratingSum)).
			Div(decimal.NewFromInt(int64(ratingCount))).
			Round(2)
		response.CompletionStats.AverageRating = &avg
	}
	if playTimeCount > 0 {
		total := playTimeTotal.Round(2)
		avg := playTimeTotal.Div(decimal.NewFromInt(int64(playTimeCount))).Round(2)
		response.CompletionStats.TotalPlayTime = &total
		response.CompletionStats.AveragePlayTime = &avg
	}

	return response, nil
}

// shelfSummary trims the embed for the backlog, playing, and completed
// shelves, which never show the playtime estimates.
func shelfSummary(game *Game) GameSummary {
	return GameSummary{
		ID:           game.ID.String(),
		Title:        game.Title,
		CoverImageID: game.CoverImageID,
		ReleaseDate:  game.ReleaseDate,
	}
}
