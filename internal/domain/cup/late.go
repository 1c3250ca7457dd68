package cup

import (
	"sort"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/prediction"
)

// MinutesLate returns whole minutes between kickoff and submission, never negative.
func MinutesLate(submittedAt, kickoffAt time.Time) int {
	diff := submittedAt.Sub(kickoffAt)
	if diff <= 0 {
		return 0
	}
	return int(diff / time.Minute)
}

// DetectLateSubmissions returns one row per submission. A bet is late when it was placed
// more than graceMinutes after its fixture kicked off.
func DetectLateSubmissions(submissions []prediction.Submission, graceMinutes int) []LateSubmission {
	if graceMinutes < 0 {
		graceMinutes = 0
	}

	out := make([]LateSubmission, 0, len(submissions))
	for _, item := range submissions {
		minutesLate := MinutesLate(item.SubmittedAt, item.KickoffAt)
		points := 0
		if item.PointsAwarded != nil {
			points = *item.PointsAwarded
		}
		out = append(out, LateSubmission{
			UserID:         item.UserID,
			FixtureID:      item.FixtureID,
			BettingRoundID: item.BettingRoundID,
			BetTimestamp:   item.SubmittedAt,
			MatchStartTime: item.KickoffAt,
			MinutesLate:    minutesLate,
			IsLate:         minutesLate > graceMinutes,
			PointsAwarded:  points,
		})
	}
	return out
}

// LateAdjustment is the per-user outcome of a round's late bets.
type LateAdjustment struct {
	UserID       string
	LateBets     int
	LatePoints   int
	OnTimePoints int
}

// LateAdjustments groups rows per user and keeps only users with at least one late bet.
// OnTimePoints is the round total after late bets are excluded, so reapplying it is idempotent.
func LateAdjustments(rows []LateSubmission) []LateAdjustment {
	byUser := make(map[string]*LateAdjustment)
	order := make([]string, 0)
	for _, row := range rows {
		item, ok := byUser[row.UserID]
		if !ok {
			item = &LateAdjustment{UserID: row.UserID}
			byUser[row.UserID] = item
			order = append(order, row.UserID)
		}
		if row.IsLate {
			item.LateBets++
			item.LatePoints += row.PointsAwarded
			continue
		}
		item.OnTimePoints += row.PointsAwarded
	}

	out := make([]LateAdjustment, 0, len(order))
	for _, userID := range order {
		if byUser[userID].LateBets > 0 {
			out = append(out, *byUser[userID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
