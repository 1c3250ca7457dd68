package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/domain/season"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
)

const defaultWinnerScanWorkers = 4

type StandingsResult struct {
	SeasonID  int64                `json:"seasonId"`
	Standings []cup.Standing       `json:"standings"`
	Summary   cup.StandingsSummary `json:"summary"`
}

type WinnerDeterminationResult struct {
	SeasonID            int64              `json:"seasonId"`
	Success             bool               `json:"success"`
	IsAlreadyDetermined bool               `json:"isAlreadyDetermined"`
	Winners             []cup.WinnerRecord `json:"winners"`
	TotalParticipants   int                `json:"totalParticipants"`
	Errors              []string           `json:"errors"`
}

type StandingsServiceConfig struct {
	WinnerCount       int
	WinnerScanWorkers int
}

type CupStandingsService struct {
	seasonRepo season.Repository
	cupRepo    cup.Repository
	cfg        StandingsServiceConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewCupStandingsService(seasonRepo season.Repository, cupRepo cup.Repository, cfg StandingsServiceConfig, logger *logging.Logger) *CupStandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.WinnerCount <= 0 {
		cfg.WinnerCount = 1
	}
	if cfg.WinnerScanWorkers <= 0 {
		cfg.WinnerScanWorkers = defaultWinnerScanWorkers
	}
	return &CupStandingsService{
		seasonRepo: seasonRepo,
		cupRepo:    cupRepo,
		cfg:        cfg,
		logger:     logger.Named("cup_standings"),
		now:        time.Now,
	}
}

func (s *CupStandingsService) CalculateStandings(ctx context.Context, seasonID int64) (StandingsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupStandingsService.CalculateStandings")
	defer span.End()

	if seasonID <= 0 {
		return StandingsResult{}, fmt.Errorf("%w: season id must be positive", ErrInvalidInput)
	}

	rows, err := s.cupRepo.ListSeasonPoints(ctx, seasonID)
	if err != nil {
		return StandingsResult{}, fmt.Errorf("%w: list season points of season %d: %v", cup.ErrNotAccessible, seasonID, err)
	}

	standings := cup.RankStandings(cup.AggregateStandings(rows))
	return StandingsResult{
		SeasonID:  seasonID,
		Standings: standings,
		Summary:   cup.Summarize(standings),
	}, nil
}

func (s *CupStandingsService) IdentifyWinners(standings []cup.Standing, numberOfWinners int) []cup.Standing {
	return cup.IdentifyWinners(standings, numberOfWinners)
}

// ListWinners reads persisted winners without computing any.
func (s *CupStandingsService) ListWinners(ctx context.Context, seasonID int64) ([]cup.WinnerRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupStandingsService.ListWinners")
	defer span.End()

	if seasonID <= 0 {
		return nil, fmt.Errorf("%w: season id must be positive", ErrInvalidInput)
	}
	winners, err := s.cupRepo.ListWinners(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("%w: list winners of season %d: %v", cup.ErrNotAccessible, seasonID, err)
	}
	if winners == nil {
		winners = []cup.WinnerRecord{}
	}
	return winners, nil
}

// DetermineWinners returns persisted winners verbatim when present; otherwise it computes and stores them.
func (s *CupStandingsService) DetermineWinners(ctx context.Context, seasonID int64) (WinnerDeterminationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupStandingsService.DetermineWinners")
	defer span.End()

	if seasonID <= 0 {
		return WinnerDeterminationResult{}, fmt.Errorf("%w: season id must be positive", ErrInvalidInput)
	}
	return s.determine(ctx, seasonID), nil
}

// DetermineWinnersForEligibleSeasons processes every completed, activated season that has no winners yet.
func (s *CupStandingsService) DetermineWinnersForEligibleSeasons(ctx context.Context) ([]WinnerDeterminationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupStandingsService.DetermineWinnersForEligibleSeasons")
	defer span.End()

	seasons, err := s.seasonRepo.ListAwaitingCupWinners(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list seasons awaiting winners: %v", cup.ErrNotAccessible, err)
	}
	if len(seasons) == 0 {
		return []WinnerDeterminationResult{}, nil
	}

	workerCount := s.cfg.WinnerScanWorkers
	if workerCount > len(seasons) {
		workerCount = len(seasons)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan WinnerDeterminationResult, len(seasons))
	var workers sync.WaitGroup
	for _, item := range seasons {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- s.determine(ctx, item.ID)
		}); err != nil {
			workers.Done()
			results <- WinnerDeterminationResult{
				SeasonID: item.ID,
				Winners:  []cup.WinnerRecord{},
				Errors:   []string{fmt.Sprintf("submit to worker pool: %v", err)},
			}
		}
	}

	workers.Wait()
	close(results)

	out := make([]WinnerDeterminationResult, 0, len(seasons))
	for row := range results {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeasonID < out[j].SeasonID })
	return out, nil
}

func (s *CupStandingsService) determine(ctx context.Context, seasonID int64) (result WinnerDeterminationResult) {
	result = WinnerDeterminationResult{SeasonID: seasonID, Winners: []cup.WinnerRecord{}, Errors: []string{}}
	fail := func(message string) WinnerDeterminationResult {
		result.Success = false
		result.Errors = append(result.Errors, message)
		s.logger.WarnContext(ctx, "cup winner determination failed", "season_id", seasonID, "error", message)
		return result
	}
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.ErrorContext(ctx, "cup winner determination panicked", "season_id", seasonID, "panic", rec)
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("unexpected error: %v", rec))
		}
	}()

	existing, err := s.cupRepo.ListWinners(ctx, seasonID)
	if err != nil {
		return fail(fmt.Sprintf("list existing winners: %v", err))
	}
	if len(existing) > 0 {
		result.Success = true
		result.IsAlreadyDetermined = true
		result.Winners = existing
		return result
	}

	item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return fail(fmt.Sprintf("get season: %v", err))
	}
	if !exists {
		return fail(fmt.Sprintf("season %d not found", seasonID))
	}

	standings, err := s.CalculateStandings(ctx, seasonID)
	if err != nil {
		return fail(err.Error())
	}
	result.TotalParticipants = standings.Summary.TotalParticipants

	determinedAt := s.now().UTC()
	winners := cup.IdentifyWinners(standings.Standings, s.cfg.WinnerCount)
	for _, winner := range winners {
		result.Winners = append(result.Winners, cup.WinnerRecord{
			SeasonID:      seasonID,
			CompetitionID: item.CompetitionID,
			UserID:        winner.UserID,
			Username:      winner.Username,
			TotalPoints:   winner.TotalPoints,
			DeterminedAt:  determinedAt,
		})
	}
	if len(result.Winners) == 0 {
		result.Success = true
		return result
	}

	if err := s.cupRepo.InsertWinners(ctx, result.Winners); err != nil {
		result.Winners = []cup.WinnerRecord{}
		return fail(fmt.Sprintf("store winners: %v", err))
	}

	// A concurrent determination may have stored its set first; report what is stored.
	stored, err := s.cupRepo.ListWinners(ctx, seasonID)
	if err != nil {
		s.logger.WarnContext(ctx, "cup winners re-read failed", "season_id", seasonID, "error", err)
	} else if len(stored) > 0 && !sameWinnerSet(stored, result.Winners) {
		result.Success = true
		result.IsAlreadyDetermined = true
		result.Winners = stored
		s.logger.InfoContext(ctx, "cup winners already stored by concurrent run", "season_id", seasonID, "winners", len(stored))
		return result
	}

	result.Success = true
	s.logger.InfoContext(ctx, "cup winners determined",
		"season_id", seasonID,
		"competition_id", item.CompetitionID,
		"winners", len(result.Winners),
		"participants", result.TotalParticipants,
	)
	return result
}

func sameWinnerSet(a, b []cup.WinnerRecord) bool {
	if len(a) != len(b) {
		return false
	}
	users := make(map[string]struct{}, len(a))
	for _, winner := range a {
		users[winner.UserID] = struct{}{}
	}
	for _, winner := range b {
		if _, ok := users[winner.UserID]; !ok {
			return false
		}
	}
	return true
}
