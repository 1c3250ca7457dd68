package memory

import (
	"context"
	"sort"
	"strconv"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
)

type CupRepository struct {
	data *Dataset
}

func NewCupRepository(data *Dataset) *CupRepository {
	return &CupRepository{data: data}
}

// UpsertPointsBatch replaces rows by composite key. The whole batch lands under one lock.
func (r *CupRepository) UpsertPointsBatch(_ context.Context, records []cup.PointsRecord) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()

	for _, record := range records {
		r.data.points[record.Key()] = record
	}
	return nil
}

func (r *CupRepository) GetPoints(_ context.Context, userID string, bettingRoundID int64) (cup.PointsRecord, bool, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	var (
		latest cup.PointsRecord
		found  bool
	)
	for key, record := range r.data.points {
		if key.UserID != userID || key.BettingRoundID != bettingRoundID {
			continue
		}
		if !found || record.LastUpdated.After(latest.LastUpdated) {
			latest = record
			found = true
		}
	}
	return latest, found, nil
}

func (r *CupRepository) ListSeasonPoints(_ context.Context, seasonID int64) ([]cup.UserRoundPoints, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	out := make([]cup.UserRoundPoints, 0)
	for key, record := range r.data.points {
		if key.SeasonID != seasonID {
			continue
		}
		username, ok := r.data.users[record.UserID]
		if !ok || username == "" {
			username = record.UserID
		}
		out = append(out, cup.UserRoundPoints{
			UserID:         record.UserID,
			Username:       username,
			BettingRoundID: record.BettingRoundID,
			Points:         record.Points,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].BettingRoundID < out[j].BettingRoundID
	})
	return out, nil
}

func (r *CupRepository) ListWinners(_ context.Context, seasonID int64) ([]cup.WinnerRecord, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	return append([]cup.WinnerRecord(nil), r.data.winners[seasonID]...), nil
}

// InsertWinners stores a season's winner set only while that season has none.
func (r *CupRepository) InsertWinners(_ context.Context, winners []cup.WinnerRecord) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()

	bySeason := make(map[int64][]cup.WinnerRecord, 1)
	seen := make(map[string]struct{}, len(winners))
	for _, winner := range winners {
		key := strconv.FormatInt(winner.SeasonID, 10) + ":" + winner.UserID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		bySeason[winner.SeasonID] = append(bySeason[winner.SeasonID], winner)
	}
	for seasonID, rows := range bySeason {
		if len(r.data.winners[seasonID]) > 0 {
			continue
		}
		r.data.winners[seasonID] = rows
	}
	return nil
}
