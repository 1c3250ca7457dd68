package cup

import "sort"

// AggregateStandings folds stored round rows into one unranked standing per user.
func AggregateStandings(rows []UserRoundPoints) []Standing {
	byUser := make(map[string]*Standing)
	order := make([]string, 0)
	for _, row := range rows {
		item, ok := byUser[row.UserID]
		if !ok {
			item = &Standing{UserID: row.UserID, Username: row.Username}
			byUser[row.UserID] = item
			order = append(order, row.UserID)
		}
		if item.Username == "" {
			item.Username = row.Username
		}
		item.TotalPoints += row.Points
		item.RoundsParticipated++
	}

	out := make([]Standing, 0, len(order))
	for _, userID := range order {
		out = append(out, *byUser[userID])
	}
	return out
}

// RankStandings orders by total points descending, then username and user id ascending.
// A row's rank changes only when its total is strictly lower than the previous row's, and
// then equals its 1-based position. Rows that share a rank are marked tied.
func RankStandings(standings []Standing) []Standing {
	out := make([]Standing, len(standings))
	copy(out, standings)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].UserID < out[j].UserID
	})

	countByRank := make(map[int]int, len(out))
	for i := range out {
		switch {
		case i == 0:
			out[i].Rank = 1
		case out[i].TotalPoints < out[i-1].TotalPoints:
			out[i].Rank = i + 1
		default:
			out[i].Rank = out[i-1].Rank
		}
		countByRank[out[i].Rank]++
	}
	for i := range out {
		out[i].IsTied = countByRank[out[i].Rank] > 1
	}
	return out
}

// IdentifyWinners returns every rank-1 standing. numberOfWinners is advisory only:
// it never truncates a tie and never extends the set past rank 1.
func IdentifyWinners(standings []Standing, numberOfWinners int) []Standing {
	out := make([]Standing, 0, 1)
	for _, item := range standings {
		if item.Rank == 1 {
			out = append(out, item)
		}
	}
	return out
}

type StandingsSummary struct {
	TotalParticipants int     `json:"totalParticipants"`
	MaxPoints         int     `json:"maxPoints"`
	AveragePoints     float64 `json:"averagePoints"`
}

func Summarize(standings []Standing) StandingsSummary {
	if len(standings) == 0 {
		return StandingsSummary{}
	}

	total := 0
	maxPoints := standings[0].TotalPoints
	for _, item := range standings {
		total += item.TotalPoints
		if item.TotalPoints > maxPoints {
			maxPoints = item.TotalPoints
		}
	}
	return StandingsSummary{
		TotalParticipants: len(standings),
		MaxPoints:         maxPoints,
		AveragePoints:     float64(total) / float64(len(standings)),
	}
}
