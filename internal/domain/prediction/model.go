package prediction

import "time"

// GradedBet is produced by the external grading pipeline. PointsAwarded stays nil until graded.
type GradedBet struct {
	UserID         string
	FixtureID      int64
	BettingRoundID int64
	PointsAwarded  *int
	CreatedAt      time.Time
}

// Submission is a bet joined with its fixture kickoff, used for late submission checks.
type Submission struct {
	UserID         string
	FixtureID      int64
	BettingRoundID int64
	PointsAwarded  *int
	SubmittedAt    time.Time
	KickoffAt      time.Time
}
