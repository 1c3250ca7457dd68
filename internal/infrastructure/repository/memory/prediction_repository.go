package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/prediction-cup/internal/domain/prediction"
)

type PredictionRepository struct {
	data *Dataset
}

func NewPredictionRepository(data *Dataset) *PredictionRepository {
	return &PredictionRepository{data: data}
}

func (r *PredictionRepository) ListGradedByRound(_ context.Context, roundID int64) ([]prediction.GradedBet, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	out := make([]prediction.GradedBet, 0)
	for _, item := range r.data.bets {
		if item.BettingRoundID != roundID || item.PointsAwarded == nil {
			continue
		}
		points := *item.PointsAwarded
		out = append(out, prediction.GradedBet{
			UserID:         item.UserID,
			FixtureID:      item.FixtureID,
			BettingRoundID: item.BettingRoundID,
			PointsAwarded:  &points,
			CreatedAt:      item.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].FixtureID < out[j].FixtureID
	})
	return out, nil
}

// ListSubmissionsByRound returns every bet of the round joined with its fixture kickoff.
// Bets on unknown fixtures are skipped.
func (r *PredictionRepository) ListSubmissionsByRound(_ context.Context, roundID int64) ([]prediction.Submission, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	out := make([]prediction.Submission, 0)
	for _, item := range r.data.bets {
		if item.BettingRoundID != roundID {
			continue
		}
		kickoff, ok := r.data.kickoffs[item.FixtureID]
		if !ok {
			continue
		}
		var points *int
		if item.PointsAwarded != nil {
			v := *item.PointsAwarded
			points = &v
		}
		out = append(out, prediction.Submission{
			UserID:         item.UserID,
			FixtureID:      item.FixtureID,
			BettingRoundID: item.BettingRoundID,
			PointsAwarded:  points,
			SubmittedAt:    item.CreatedAt,
			KickoffAt:      kickoff,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].FixtureID < out[j].FixtureID
	})
	return out, nil
}
