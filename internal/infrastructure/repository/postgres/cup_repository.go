package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	qb "github.com/riskibarqy/prediction-cup/internal/platform/querybuilder"
)

const upsertCupPointsSuffix = `ON CONFLICT (user_id, betting_round_id, season_id)
DO UPDATE SET
    points = EXCLUDED.points,
    last_updated = EXCLUDED.last_updated`

type CupRepository struct {
	db *sqlx.DB
}

func NewCupRepository(db *sqlx.DB) *CupRepository {
	return &CupRepository{db: db}
}

// UpsertPointsBatch writes the batch in one transaction. Returned errors carry the
// cup critical or non-critical storage marker.
func (r *CupRepository) UpsertPointsBatch(ctx context.Context, records []cup.PointsRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]cupPointsTableModel, 0, len(records))
	for _, record := range records {
		rows = append(rows, cupPointsTableModel{
			UserID:         record.UserID,
			BettingRoundID: record.BettingRoundID,
			SeasonID:       record.SeasonID,
			Points:         record.Points,
			LastUpdated:    record.LastUpdated.UTC(),
		})
	}
	query, args, err := qb.InsertModels("cup_points", rows, upsertCupPointsSuffix)
	if err != nil {
		return fmt.Errorf("build upsert cup points query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return markStorageError(fmt.Errorf("begin upsert cup points tx: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return markStorageError(fmt.Errorf("upsert cup points: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return markStorageError(fmt.Errorf("commit upsert cup points tx: %w", err))
	}
	return nil
}

func (r *CupRepository) GetPoints(ctx context.Context, userID string, bettingRoundID int64) (cup.PointsRecord, bool, error) {
	query, args, err := qb.Select("user_id", "betting_round_id", "season_id", "points", "last_updated").
		From("cup_points").
		Where(qb.Eq("user_id", userID), qb.Eq("betting_round_id", bettingRoundID)).
		OrderBy("last_updated DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return cup.PointsRecord{}, false, fmt.Errorf("build get cup points query: %w", err)
	}

	var row cupPointsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return cup.PointsRecord{}, false, nil
		}
		return cup.PointsRecord{}, false, fmt.Errorf("get cup points: %w", err)
	}
	return cup.PointsRecord{
		UserID:         row.UserID,
		BettingRoundID: row.BettingRoundID,
		SeasonID:       row.SeasonID,
		Points:         row.Points,
		LastUpdated:    row.LastUpdated.UTC(),
	}, true, nil
}

func (r *CupRepository) ListSeasonPoints(ctx context.Context, seasonID int64) ([]cup.UserRoundPoints, error) {
	query, args, err := qb.Select("cp.user_id", "COALESCE(u.username, cp.user_id) AS username", "cp.betting_round_id", "cp.points").
		From("cup_points cp").
		LeftJoin("users u ON u.id = cp.user_id").
		Where(qb.Eq("cp.season_id", seasonID)).
		OrderBy("cp.user_id", "cp.betting_round_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season cup points query: %w", err)
	}

	var rows []seasonPointsRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season cup points: %w", err)
	}
	out := make([]cup.UserRoundPoints, 0, len(rows))
	for _, row := range rows {
		out = append(out, cup.UserRoundPoints{
			UserID:         row.UserID,
			Username:       row.Username,
			BettingRoundID: row.BettingRoundID,
			Points:         row.Points,
		})
	}
	return out, nil
}

func (r *CupRepository) ListWinners(ctx context.Context, seasonID int64) ([]cup.WinnerRecord, error) {
	query, args, err := qb.Select("season_id", "competition_id", "user_id", "username", "total_points", "determined_at").
		From("cup_winners").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("username", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list cup winners query: %w", err)
	}

	var rows []cupWinnerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cup winners: %w", err)
	}
	out := make([]cup.WinnerRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, cup.WinnerRecord{
			SeasonID:      row.SeasonID,
			CompetitionID: row.CompetitionID,
			UserID:        row.UserID,
			Username:      row.Username,
			TotalPoints:   row.TotalPoints,
			DeterminedAt:  row.DeterminedAt.UTC(),
		})
	}
	return out, nil
}

// InsertWinners stores a season's winner set only while the season has none. The
// season row lock serializes concurrent determinations of the same season.
func (r *CupRepository) InsertWinners(ctx context.Context, winners []cup.WinnerRecord) error {
	if len(winners) == 0 {
		return nil
	}

	bySeason := make(map[int64][]cupWinnerTableModel, 1)
	order := make([]int64, 0, 1)
	for _, winner := range winners {
		if _, seen := bySeason[winner.SeasonID]; !seen {
			order = append(order, winner.SeasonID)
		}
		bySeason[winner.SeasonID] = append(bySeason[winner.SeasonID], cupWinnerTableModel{
			SeasonID:      winner.SeasonID,
			CompetitionID: winner.CompetitionID,
			UserID:        winner.UserID,
			Username:      winner.Username,
			TotalPoints:   winner.TotalPoints,
			DeterminedAt:  winner.DeterminedAt.UTC(),
		})
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return markStorageError(fmt.Errorf("begin insert cup winners tx: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, seasonID := range order {
		var locked []int64
		if err := tx.SelectContext(ctx, &locked, `SELECT id FROM seasons WHERE id = $1 FOR UPDATE`, seasonID); err != nil {
			return markStorageError(fmt.Errorf("lock season %d: %w", seasonID, err))
		}
		var determined bool
		if err := tx.GetContext(ctx, &determined, `SELECT EXISTS (SELECT 1 FROM cup_winners WHERE season_id = $1)`, seasonID); err != nil {
			return markStorageError(fmt.Errorf("check cup winners of season %d: %w", seasonID, err))
		}
		if determined {
			continue
		}

		query, args, err := qb.InsertModels("cup_winners", bySeason[seasonID], "ON CONFLICT (season_id, user_id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert cup winners query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return markStorageError(fmt.Errorf("insert cup winners: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return markStorageError(fmt.Errorf("commit insert cup winners tx: %w", err))
	}
	return nil
}
