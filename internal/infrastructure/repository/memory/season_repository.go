package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/season"
)

type SeasonRepository struct {
	data *Dataset
}

func NewSeasonRepository(data *Dataset) *SeasonRepository {
	return &SeasonRepository{data: data}
}

func (r *SeasonRepository) GetCurrent(_ context.Context) (season.Season, bool, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	for _, item := range r.data.seasons {
		if item.IsCurrent {
			return cloneSeason(item), true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID int64) (season.Season, bool, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	item, ok := r.data.seasons[seasonID]
	if !ok {
		return season.Season{}, false, nil
	}
	return cloneSeason(item), true, nil
}

// ActivateCup flips the flag under the write lock, so exactly one caller observes Won=true.
func (r *SeasonRepository) ActivateCup(_ context.Context, seasonID int64, activatedAt time.Time, details season.ActivationDetails) (season.ActivationOutcome, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()

	item, ok := r.data.seasons[seasonID]
	if !ok {
		return season.ActivationOutcome{}, season.ErrSeasonNotFound
	}
	if item.CupActivated {
		outcome := season.ActivationOutcome{Won: false}
		if item.CupActivatedAt != nil {
			outcome.ActivatedAt = *item.CupActivatedAt
		}
		return outcome, nil
	}

	at := activatedAt.UTC()
	item.CupActivated = true
	item.CupActivatedAt = &at
	item.CupActivatedBy = strings.TrimSpace(details.TriggeredBy)
	r.data.seasons[seasonID] = item
	return season.ActivationOutcome{Won: true, ActivatedAt: at}, nil
}

func (r *SeasonRepository) ListAwaitingCupWinners(_ context.Context) ([]season.Season, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	out := make([]season.Season, 0)
	for _, item := range r.data.seasons {
		if !item.CupActivated || !item.IsCompleted() {
			continue
		}
		if len(r.data.winners[item.ID]) > 0 {
			continue
		}
		out = append(out, cloneSeason(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *SeasonRepository) GetRound(_ context.Context, roundID int64) (season.BettingRound, bool, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	item, ok := r.data.rounds[roundID]
	return item, ok, nil
}

func (r *SeasonRepository) ListRoundsCreatedSince(_ context.Context, seasonID int64, since time.Time) ([]season.BettingRound, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	out := make([]season.BettingRound, 0)
	for _, item := range r.data.rounds {
		if item.SeasonID != seasonID || item.CreatedAt.Before(since) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
