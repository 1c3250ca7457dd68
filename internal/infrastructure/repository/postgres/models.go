package postgres

import (
	"database/sql"
	"time"
)

type seasonTableModel struct {
	ID             int64          `db:"id"`
	CompetitionID  int64          `db:"competition_id"`
	Name           string         `db:"name"`
	IsCurrent      bool           `db:"is_current"`
	CupActivated   bool           `db:"cup_activated"`
	CupActivatedAt sql.NullTime   `db:"cup_activated_at"`
	CupActivatedBy sql.NullString `db:"cup_activated_by"`
	CompletedAt    sql.NullTime   `db:"completed_at"`
}

type bettingRoundTableModel struct {
	ID        int64     `db:"id"`
	SeasonID  int64     `db:"season_id"`
	CreatedAt time.Time `db:"created_at"`
}

type activationRow struct {
	Won         bool         `db:"won"`
	ActivatedAt sql.NullTime `db:"activated_at"`
}

type submissionRow struct {
	UserID         string        `db:"user_id"`
	FixtureID      int64         `db:"fixture_id"`
	BettingRoundID int64         `db:"betting_round_id"`
	PointsAwarded  sql.NullInt64 `db:"points_awarded"`
	CreatedAt      time.Time     `db:"created_at"`
	KickoffAt      time.Time     `db:"kickoff_at"`
}

type cupPointsTableModel struct {
	UserID         string    `db:"user_id"`
	BettingRoundID int64     `db:"betting_round_id"`
	SeasonID       int64     `db:"season_id"`
	Points         int       `db:"points"`
	LastUpdated    time.Time `db:"last_updated"`
}

type seasonPointsRow struct {
	UserID         string `db:"user_id"`
	Username       string `db:"username"`
	BettingRoundID int64  `db:"betting_round_id"`
	Points         int    `db:"points"`
}

type cupWinnerTableModel struct {
	SeasonID      int64     `db:"season_id"`
	CompetitionID int64     `db:"competition_id"`
	UserID        string    `db:"user_id"`
	Username      string    `db:"username"`
	TotalPoints   int       `db:"total_points"`
	DeterminedAt  time.Time `db:"determined_at"`
}

var seasonColumns = []string{
	"id", "competition_id", "name", "is_current", "cup_activated",
	"cup_activated_at", "cup_activated_by", "completed_at",
}
