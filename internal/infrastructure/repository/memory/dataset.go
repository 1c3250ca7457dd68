package memory

import (
	"sync"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/domain/season"
)

// Dataset is the shared in-process store behind the memory repositories.
// One RWMutex guards every table so cross-table reads stay consistent.
type Dataset struct {
	mu sync.RWMutex

	seasons  map[int64]season.Season
	rounds   map[int64]season.BettingRound
	kickoffs map[int64]time.Time
	users    map[string]string
	bets     []bet
	points   map[cup.RecordKey]cup.PointsRecord
	winners  map[int64][]cup.WinnerRecord
}

type bet struct {
	UserID         string
	FixtureID      int64
	BettingRoundID int64
	PointsAwarded  *int
	CreatedAt      time.Time
}

func NewDataset() *Dataset {
	return &Dataset{
		seasons:  make(map[int64]season.Season),
		rounds:   make(map[int64]season.BettingRound),
		kickoffs: make(map[int64]time.Time),
		users:    make(map[string]string),
		points:   make(map[cup.RecordKey]cup.PointsRecord),
		winners:  make(map[int64][]cup.WinnerRecord),
	}
}

// PutSeason inserts or replaces a season. Marking it current clears the flag on every other season.
func (d *Dataset) PutSeason(item season.Season) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if item.IsCurrent {
		for id, existing := range d.seasons {
			existing.IsCurrent = false
			d.seasons[id] = existing
		}
	}
	d.seasons[item.ID] = cloneSeason(item)
}

func (d *Dataset) PutRound(item season.BettingRound) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rounds[item.ID] = item
}

func (d *Dataset) PutFixture(fixtureID int64, kickoffAt time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.kickoffs[fixtureID] = kickoffAt
}

func (d *Dataset) PutUser(userID, username string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[userID] = username
}

// PutBet records a bet. A nil points value means the bet is not graded yet.
func (d *Dataset) PutBet(userID string, fixtureID, roundID int64, points *int, createdAt time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var copied *int
	if points != nil {
		v := *points
		copied = &v
	}
	d.bets = append(d.bets, bet{
		UserID:         userID,
		FixtureID:      fixtureID,
		BettingRoundID: roundID,
		PointsAwarded:  copied,
		CreatedAt:      createdAt,
	})
}

func cloneSeason(item season.Season) season.Season {
	out := item
	if item.CupActivatedAt != nil {
		v := *item.CupActivatedAt
		out.CupActivatedAt = &v
	}
	if item.CompletedAt != nil {
		v := *item.CompletedAt
		out.CompletedAt = &v
	}
	return out
}
