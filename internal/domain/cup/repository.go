package cup

import "context"

type Repository interface {
	// UpsertPointsBatch writes all records in one transaction keyed on
	// (user_id, betting_round_id, season_id).
	UpsertPointsBatch(ctx context.Context, records []PointsRecord) error
	GetPoints(ctx context.Context, userID string, bettingRoundID int64) (PointsRecord, bool, error)
	ListSeasonPoints(ctx context.Context, seasonID int64) ([]UserRoundPoints, error)

	ListWinners(ctx context.Context, seasonID int64) ([]WinnerRecord, error)
	InsertWinners(ctx context.Context, winners []WinnerRecord) error
}
