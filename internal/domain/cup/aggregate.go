package cup

import (
	"sort"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/prediction"
)

// AggregateRoundPoints sums graded points per user for one round. Ungraded bets are skipped.
// Output is ordered by user id.
func AggregateRoundPoints(bets []prediction.GradedBet, roundID, seasonID int64, now time.Time) []PointsRecord {
	totals := make(map[string]int)
	for _, bet := range bets {
		if bet.PointsAwarded == nil {
			continue
		}
		totals[bet.UserID] += *bet.PointsAwarded
	}
	if len(totals) == 0 {
		return nil
	}

	userIDs := make([]string, 0, len(totals))
	for userID := range totals {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	out := make([]PointsRecord, 0, len(userIDs))
	for _, userID := range userIDs {
		out = append(out, PointsRecord{
			UserID:         userID,
			BettingRoundID: roundID,
			SeasonID:       seasonID,
			Points:         totals[userID],
			LastUpdated:    now,
		})
	}
	return out
}

func TotalPoints(records []PointsRecord) int {
	total := 0
	for _, record := range records {
		total += record.Points
	}
	return total
}
