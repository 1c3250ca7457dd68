package season

import "time"

// Season is owned by the season lifecycle; the cup subsystem only reads it and flips CupActivated.
type Season struct {
	ID             int64
	CompetitionID  int64
	Name           string
	IsCurrent      bool
	CupActivated   bool
	CupActivatedAt *time.Time
	CupActivatedBy string
	CompletedAt    *time.Time
}

func (s Season) IsCompleted() bool {
	return s.CompletedAt != nil
}

type BettingRound struct {
	ID        int64
	SeasonID  int64
	CreatedAt time.Time
}

// ActivationOutcome is returned by the atomic conditional activation write.
// Won is true only for the single caller whose write flipped the flag.
type ActivationOutcome struct {
	Won         bool
	ActivatedAt time.Time
}

type ActivationDetails struct {
	TriggeredBy string
	Reason      string
}
