package cup

import "time"

// PointsRecord is the persisted per-user-per-round cup total.
// (UserID, BettingRoundID, SeasonID) is unique; writes replace the existing row.
type PointsRecord struct {
	UserID         string    `json:"userId" validate:"required"`
	BettingRoundID int64     `json:"bettingRoundId" validate:"gt=0"`
	SeasonID       int64     `json:"seasonId" validate:"gt=0"`
	Points         int       `json:"points" validate:"gte=0"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

type RecordKey struct {
	UserID         string
	BettingRoundID int64
	SeasonID       int64
}

func (r PointsRecord) Key() RecordKey {
	return RecordKey{UserID: r.UserID, BettingRoundID: r.BettingRoundID, SeasonID: r.SeasonID}
}

// UserRoundPoints is a stored points row joined with the user's display name.
type UserRoundPoints struct {
	UserID         string
	Username       string
	BettingRoundID int64
	Points         int
}

type Standing struct {
	UserID             string `json:"userId"`
	Username           string `json:"username"`
	TotalPoints        int    `json:"totalPoints"`
	RoundsParticipated int    `json:"roundsParticipated"`
	Rank               int    `json:"rank"`
	IsTied             bool   `json:"isTied"`
}

type CorrectionType string

const (
	CorrectionResultUpdate   CorrectionType = "result_update"
	CorrectionManualOverride CorrectionType = "manual_override"
)

type CorrectionRequest struct {
	UserID         string         `json:"userId" validate:"required"`
	BettingRoundID int64          `json:"bettingRoundId" validate:"gt=0"`
	OldPoints      int            `json:"oldPoints" validate:"gte=0"`
	NewPoints      int            `json:"newPoints" validate:"gte=0"`
	Reason         string         `json:"reason" validate:"required"`
	Type           CorrectionType `json:"correctionType" validate:"oneof=result_update manual_override"`
	AdminUserID    string         `json:"adminUserId,omitempty"`
}

func (r CorrectionRequest) IsAdminSourced() bool {
	return r.AdminUserID != ""
}

func (r CorrectionRequest) Delta() int {
	return absInt(r.NewPoints - r.OldPoints)
}

type ConflictType string

const (
	ConflictConcurrentUpdate       ConflictType = "concurrent_update"
	ConflictManualOverrideConflict ConflictType = "manual_override_conflict"
)

type Resolution string

const (
	ResolutionLatestWins           Resolution = "latest_wins"
	ResolutionAdminOverride        Resolution = "admin_override"
	ResolutionManualReviewRequired Resolution = "manual_review_required"
)

// Applies reports whether a correction resolved this way is written to storage.
func (r Resolution) Applies() bool {
	return r == ResolutionLatestWins || r == ResolutionAdminOverride
}

type ConflictRecord struct {
	UserID         string       `json:"userId"`
	BettingRoundID int64        `json:"bettingRoundId"`
	ConflictType   ConflictType `json:"conflictType"`
	ExistingValue  int          `json:"existingValue"`
	AttemptedValue int          `json:"attemptedValue"`
	Resolution     Resolution   `json:"resolution"`
	Timestamp      time.Time    `json:"timestamp"`
}

type WinnerRecord struct {
	SeasonID      int64     `json:"seasonId"`
	CompetitionID int64     `json:"competitionId"`
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	TotalPoints   int       `json:"totalPoints"`
	DeterminedAt  time.Time `json:"determinedAt"`
}

type LateSubmission struct {
	UserID         string    `json:"userId"`
	FixtureID      int64     `json:"fixtureId"`
	BettingRoundID int64     `json:"bettingRoundId"`
	BetTimestamp   time.Time `json:"betTimestamp"`
	MatchStartTime time.Time `json:"matchStartTime"`
	MinutesLate    int       `json:"minutesLate"`
	IsLate         bool      `json:"isLate"`
	PointsAwarded  int       `json:"pointsAwarded"`
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
