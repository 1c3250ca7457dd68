package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-cup/internal/domain/prediction"
	qb "github.com/riskibarqy/prediction-cup/internal/platform/querybuilder"
)

// PredictionRepository reads bets written by the grading pipeline. It never writes.
type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ListGradedByRound(ctx context.Context, roundID int64) ([]prediction.GradedBet, error) {
	rows, err := r.listByRound(ctx, roundID, true)
	if err != nil {
		return nil, fmt.Errorf("list graded bets: %w", err)
	}

	out := make([]prediction.GradedBet, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.GradedBet{
			UserID:         row.UserID,
			FixtureID:      row.FixtureID,
			BettingRoundID: row.BettingRoundID,
			PointsAwarded:  nullIntToPtr(row.PointsAwarded),
			CreatedAt:      row.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *PredictionRepository) ListSubmissionsByRound(ctx context.Context, roundID int64) ([]prediction.Submission, error) {
	rows, err := r.listByRound(ctx, roundID, false)
	if err != nil {
		return nil, fmt.Errorf("list round submissions: %w", err)
	}

	out := make([]prediction.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Submission{
			UserID:         row.UserID,
			FixtureID:      row.FixtureID,
			BettingRoundID: row.BettingRoundID,
			PointsAwarded:  nullIntToPtr(row.PointsAwarded),
			SubmittedAt:    row.CreatedAt.UTC(),
			KickoffAt:      row.KickoffAt.UTC(),
		})
	}
	return out, nil
}

func (r *PredictionRepository) listByRound(ctx context.Context, roundID int64, gradedOnly bool) ([]submissionRow, error) {
	conditions := []qb.Condition{qb.Eq("b.betting_round_id", roundID)}
	if gradedOnly {
		conditions = append(conditions, qb.NotNull("b.points_awarded"))
	}

	query, args, err := qb.Select(
		"b.user_id", "b.fixture_id", "b.betting_round_id", "b.points_awarded", "b.created_at", "f.kickoff_at",
	).
		From("bets b").
		Join("fixtures f ON f.id = b.fixture_id").
		Where(conditions...).
		OrderBy("b.user_id", "b.fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build bets by round query: %w", err)
	}

	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
