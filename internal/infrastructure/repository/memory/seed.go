package memory

import (
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/season"
)

const (
	SeedCompetitionID   int64 = 1
	SeedPastSeasonID    int64 = 2024
	SeedCurrentSeasonID int64 = 2025
)

// SeedDemo fills an empty dataset with one completed season and one running season.
// The running season's cup is not activated yet.
func SeedDemo(data *Dataset, now time.Time) {
	now = now.UTC()
	pastStart := now.AddDate(-1, 0, 0)
	pastDone := now.AddDate(0, -2, 0)
	pastActivated := pastStart.AddDate(0, 1, 0)

	data.PutSeason(season.Season{
		ID:             SeedPastSeasonID,
		CompetitionID:  SeedCompetitionID,
		Name:           "2024/25",
		CupActivated:   true,
		CupActivatedAt: &pastActivated,
		CupActivatedBy: "seed",
		CompletedAt:    &pastDone,
	})
	data.PutSeason(season.Season{
		ID:            SeedCurrentSeasonID,
		CompetitionID: SeedCompetitionID,
		Name:          "2025/26",
		IsCurrent:     true,
	})

	users := []struct{ id, name string }{
		{"u-alice", "alice"},
		{"u-bruno", "bruno"},
		{"u-chen", "chen"},
		{"u-dara", "dara"},
	}
	for _, u := range users {
		data.PutUser(u.id, u.name)
	}

	rounds := []struct {
		id       int64
		seasonID int64
		created  time.Time
	}{
		{101, SeedPastSeasonID, pastActivated.Add(24 * time.Hour)},
		{102, SeedPastSeasonID, pastActivated.Add(8 * 24 * time.Hour)},
		{201, SeedCurrentSeasonID, now.Add(-14 * 24 * time.Hour)},
		{202, SeedCurrentSeasonID, now.Add(-7 * 24 * time.Hour)},
	}

	fixtureID := int64(1000)
	for _, round := range rounds {
		data.PutRound(season.BettingRound{ID: round.id, SeasonID: round.seasonID, CreatedAt: round.created})
		for match := 0; match < 3; match++ {
			fixtureID++
			kickoff := round.created.Add(time.Duration(48+match*2) * time.Hour)
			data.PutFixture(fixtureID, kickoff)
			for i, u := range users {
				points := (i + match + int(round.id)) % 4
				placed := kickoff.Add(-2 * time.Hour)
				if u.id == "u-dara" && match == 2 {
					placed = kickoff.Add(7 * time.Minute)
				}
				data.PutBet(u.id, fixtureID, round.id, &points, placed)
			}
		}
	}
}
