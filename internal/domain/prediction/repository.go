package prediction

import "context"

type Repository interface {
	// ListGradedByRound returns the round's bets whose points_awarded is not null.
	ListGradedByRound(ctx context.Context, roundID int64) ([]GradedBet, error)
	ListSubmissionsByRound(ctx context.Context, roundID int64) ([]Submission, error)
}
