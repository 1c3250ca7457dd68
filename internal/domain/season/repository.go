package season

import (
	"context"
	"time"
)

type Repository interface {
	GetCurrent(ctx context.Context) (Season, bool, error)
	GetByID(ctx context.Context, seasonID int64) (Season, bool, error)
	// ActivateCup sets cup_activated=true only if it is currently false. It returns ErrSeasonNotFound
	// when the season does not exist.
	ActivateCup(ctx context.Context, seasonID int64, activatedAt time.Time, details ActivationDetails) (ActivationOutcome, error)
	ListAwaitingCupWinners(ctx context.Context) ([]Season, error)

	GetRound(ctx context.Context, roundID int64) (BettingRound, bool, error)
	ListRoundsCreatedSince(ctx context.Context, seasonID int64, since time.Time) ([]BettingRound, error)
}
