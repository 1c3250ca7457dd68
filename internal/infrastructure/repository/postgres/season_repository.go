package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-cup/internal/domain/season"
	qb "github.com/riskibarqy/prediction-cup/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetCurrent(ctx context.Context) (season.Season, bool, error) {
	query, args, err := qb.Select(seasonColumns...).
		From("seasons").
		Where(qb.Eq("is_current", true)).
		OrderBy("id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get current season query: %w", err)
	}
	return r.getOne(ctx, "get current season", query, args)
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID int64) (season.Season, bool, error) {
	query, args, err := qb.Select(seasonColumns...).
		From("seasons").
		Where(qb.Eq("id", seasonID)).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}
	return r.getOne(ctx, "get season", query, args)
}

func (r *SeasonRepository) getOne(ctx context.Context, op, query string, args []any) (season.Season, bool, error) {
	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return seasonFromRow(row), true, nil
}

// ActivateCup delegates the compare-and-swap to activate_season_cup, which only flips
// rows still carrying cup_activated = FALSE.
func (r *SeasonRepository) ActivateCup(ctx context.Context, seasonID int64, activatedAt time.Time, details season.ActivationDetails) (season.ActivationOutcome, error) {
	var rows []activationRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT won, activated_at FROM activate_season_cup($1, $2, $3)`,
		seasonID, activatedAt.UTC(), strings.TrimSpace(details.TriggeredBy),
	)
	if err != nil {
		return season.ActivationOutcome{}, fmt.Errorf("activate season cup: %w", err)
	}
	if len(rows) == 0 {
		return season.ActivationOutcome{}, season.ErrSeasonNotFound
	}

	outcome := season.ActivationOutcome{Won: rows[0].Won}
	if at := nullTimeToPtr(rows[0].ActivatedAt); at != nil {
		outcome.ActivatedAt = *at
	}
	return outcome, nil
}

func (r *SeasonRepository) ListAwaitingCupWinners(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select(seasonColumns...).
		From("seasons").
		Where(
			qb.Eq("cup_activated", true),
			qb.NotNull("completed_at"),
			qb.Expr("NOT EXISTS (SELECT 1 FROM cup_winners w WHERE w.season_id = seasons.id)"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list awaiting seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons awaiting cup winners: %w", err)
	}
	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}

func (r *SeasonRepository) GetRound(ctx context.Context, roundID int64) (season.BettingRound, bool, error) {
	query, args, err := qb.Select("id", "season_id", "created_at").
		From("betting_rounds").
		Where(qb.Eq("id", roundID)).
		ToSQL()
	if err != nil {
		return season.BettingRound{}, false, fmt.Errorf("build get betting round query: %w", err)
	}

	var row bettingRoundTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.BettingRound{}, false, nil
		}
		return season.BettingRound{}, false, fmt.Errorf("get betting round: %w", err)
	}
	return season.BettingRound{ID: row.ID, SeasonID: row.SeasonID, CreatedAt: row.CreatedAt.UTC()}, true, nil
}

func (r *SeasonRepository) ListRoundsCreatedSince(ctx context.Context, seasonID int64, since time.Time) ([]season.BettingRound, error) {
	query, args, err := qb.Select("id", "season_id", "created_at").
		From("betting_rounds").
		Where(qb.Eq("season_id", seasonID), qb.Gte("created_at", since.UTC())).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list betting rounds query: %w", err)
	}

	var rows []bettingRoundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list betting rounds since activation: %w", err)
	}
	out := make([]season.BettingRound, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.BettingRound{ID: row.ID, SeasonID: row.SeasonID, CreatedAt: row.CreatedAt.UTC()})
	}
	return out, nil
}

func seasonFromRow(row seasonTableModel) season.Season {
	return season.Season{
		ID:             row.ID,
		CompetitionID:  row.CompetitionID,
		Name:           row.Name,
		IsCurrent:      row.IsCurrent,
		CupActivated:   row.CupActivated,
		CupActivatedAt: nullTimeToPtr(row.CupActivatedAt),
		CupActivatedBy: row.CupActivatedBy.String,
		CompletedAt:    nullTimeToPtr(row.CompletedAt),
	}
}
