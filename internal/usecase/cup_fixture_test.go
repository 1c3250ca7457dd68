package usecase

import (
	"strconv"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/domain/season"
	"github.com/riskibarqy/prediction-cup/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
)

var cupTestNow = time.Date(2025, 11, 20, 18, 0, 0, 0, time.UTC)

type cupFixture struct {
	data        *memory.Dataset
	seasons     *memory.SeasonRepository
	predictions *memory.PredictionRepository
	points      *memory.CupRepository

	storage     *CupPointsStorage
	activation  *CupActivationService
	scoring     *CupScoringService
	corrections *CupCorrectionService
	standings   *CupStandingsService
}

func newCupFixture(notifier cup.Notifier, correctionCfg CorrectionServiceConfig) *cupFixture {
	data := memory.NewDataset()
	f := &cupFixture{
		data:        data,
		seasons:     memory.NewSeasonRepository(data),
		predictions: memory.NewPredictionRepository(data),
		points:      memory.NewCupRepository(data),
	}

	logger := logging.NewNop()
	clock := func() time.Time { return cupTestNow }

	f.storage = NewCupPointsStorage(f.points, 10, logger)
	f.activation = NewCupActivationService(f.seasons, logger)
	f.activation.now = clock
	f.scoring = NewCupScoringService(f.seasons, f.predictions, f.storage, logger)
	f.scoring.now = clock
	f.corrections = NewCupCorrectionService(f.seasons, f.predictions, f.points, f.storage, notifier, correctionCfg, logger)
	f.corrections.now = clock
	f.standings = NewCupStandingsService(f.seasons, f.points, StandingsServiceConfig{WinnerCount: 1, WinnerScanWorkers: 2}, logger)
	f.standings.now = clock
	return f
}

func defaultCorrectionConfig() CorrectionServiceConfig {
	return CorrectionServiceConfig{
		Policy: cup.DefaultConflictPolicy(),
		Defaults: CorrectionOptions{
			EnableConflictResolution:         true,
			NotifyOnPointChanges:             true,
			RequireAdminApprovalForOverrides: true,
		},
		LateCorrectionsEnabled: true,
	}
}

func (f *cupFixture) activatedSeason(seasonID int64, activatedAt time.Time) {
	f.data.PutSeason(season.Season{
		ID:             seasonID,
		CompetitionID:  7,
		Name:           "season " + strconv.FormatInt(seasonID, 10),
		CupActivated:   true,
		CupActivatedAt: &activatedAt,
	})
}

func intPtr(v int) *int {
	return &v
}
