package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/domain/prediction"
	"github.com/riskibarqy/prediction-cup/internal/domain/season"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
)

type ScoringOptions struct {
	OnlyAfterActivation bool  `json:"onlyAfterActivation"`
	SeasonID            int64 `json:"seasonId,omitempty"`
}

type CupScoringDetails struct {
	UsersProcessed     int      `json:"usersProcessed"`
	RoundsProcessed    int      `json:"roundsProcessed"`
	TotalPointsAwarded int      `json:"totalPointsAwarded"`
	Errors             []string `json:"errors"`
}

type CupScoringResult struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Details CupScoringDetails `json:"details"`
}

func noopScoring(message string) CupScoringResult {
	return CupScoringResult{Success: true, Message: message, Details: CupScoringDetails{Errors: []string{}}}
}

func failedScoring(message string, errs ...string) CupScoringResult {
	if len(errs) == 0 {
		errs = []string{message}
	}
	return CupScoringResult{Success: false, Message: message, Details: CupScoringDetails{Errors: errs}}
}

// CupScoringService turns graded bets of a round into stored per-user cup points.
type CupScoringService struct {
	seasonRepo     season.Repository
	predictionRepo prediction.Repository
	storage        *CupPointsStorage
	logger         *logging.Logger
	now            func() time.Time
}

func NewCupScoringService(
	seasonRepo season.Repository,
	predictionRepo prediction.Repository,
	storage *CupPointsStorage,
	logger *logging.Logger,
) *CupScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CupScoringService{
		seasonRepo:     seasonRepo,
		predictionRepo: predictionRepo,
		storage:        storage,
		logger:         logger.Named("cup_scoring"),
		now:            time.Now,
	}
}

func (s *CupScoringService) CalculateRoundCupPoints(ctx context.Context, roundID int64, opts ScoringOptions) (CupScoringResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupScoringService.CalculateRoundCupPoints")
	defer span.End()

	if roundID <= 0 {
		return CupScoringResult{}, fmt.Errorf("%w: betting round id must be positive", ErrInvalidInput)
	}
	return s.calculateRound(ctx, roundID, opts), nil
}

// CalculateRoundsCupPoints processes rounds in order and keeps going past failed rounds.
func (s *CupScoringService) CalculateRoundsCupPoints(ctx context.Context, roundIDs []int64, opts ScoringOptions) (CupScoringResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupScoringService.CalculateRoundsCupPoints")
	defer span.End()

	for _, roundID := range roundIDs {
		if roundID <= 0 {
			return CupScoringResult{}, fmt.Errorf("%w: betting round id must be positive, got %d", ErrInvalidInput, roundID)
		}
	}
	return s.calculateRounds(ctx, roundIDs, opts), nil
}

// CalculateSeasonCupPoints recalculates every round created since the season's cup activation.
func (s *CupScoringService) CalculateSeasonCupPoints(ctx context.Context, seasonID int64) (result CupScoringResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupScoringService.CalculateSeasonCupPoints")
	defer span.End()

	if seasonID <= 0 {
		return CupScoringResult{}, fmt.Errorf("%w: season id must be positive", ErrInvalidInput)
	}
	defer s.recoverScoring(ctx, "season_id", seasonID, &result)

	item, exists, getErr := s.seasonRepo.GetByID(ctx, seasonID)
	if getErr != nil {
		return failedScoring(fmt.Sprintf("get season %d: %v", seasonID, getErr)), nil
	}
	if !exists {
		return failedScoring(fmt.Sprintf("season %d not found", seasonID)), nil
	}
	if !item.CupActivated || item.CupActivatedAt == nil {
		return noopScoring(fmt.Sprintf("cup not activated for season %d; no points calculated", seasonID)), nil
	}

	rounds, listErr := s.seasonRepo.ListRoundsCreatedSince(ctx, seasonID, *item.CupActivatedAt)
	if listErr != nil {
		return failedScoring(fmt.Sprintf("list rounds of season %d: %v", seasonID, listErr)), nil
	}
	if len(rounds) == 0 {
		return noopScoring(fmt.Sprintf("no betting rounds created since cup activation of season %d", seasonID)), nil
	}

	roundIDs := make([]int64, 0, len(rounds))
	for _, round := range rounds {
		roundIDs = append(roundIDs, round.ID)
	}
	return s.calculateRounds(ctx, roundIDs, ScoringOptions{OnlyAfterActivation: true, SeasonID: seasonID}), nil
}

func (s *CupScoringService) calculateRounds(ctx context.Context, roundIDs []int64, opts ScoringOptions) CupScoringResult {
	out := CupScoringResult{Success: true, Details: CupScoringDetails{Errors: []string{}}}
	failedRounds := 0
	for _, roundID := range roundIDs {
		row := s.calculateRound(ctx, roundID, opts)
		out.Details.UsersProcessed += row.Details.UsersProcessed
		out.Details.RoundsProcessed += row.Details.RoundsProcessed
		out.Details.TotalPointsAwarded += row.Details.TotalPointsAwarded
		for _, msg := range row.Details.Errors {
			out.Details.Errors = append(out.Details.Errors, fmt.Sprintf("round %d: %s", roundID, msg))
		}
		if !row.Success {
			out.Success = false
			failedRounds++
		}
	}

	out.Message = fmt.Sprintf("processed %d/%d rounds, %d user totals, %d points",
		out.Details.RoundsProcessed, len(roundIDs), out.Details.UsersProcessed, out.Details.TotalPointsAwarded)
	if failedRounds > 0 {
		out.Message += fmt.Sprintf("; %d rounds failed", failedRounds)
	}
	return out
}

func (s *CupScoringService) calculateRound(ctx context.Context, roundID int64, opts ScoringOptions) (result CupScoringResult) {
	defer s.recoverScoring(ctx, "betting_round_id", roundID, &result)
	start := time.Now()

	round, exists, err := s.seasonRepo.GetRound(ctx, roundID)
	if err != nil {
		return failedScoring(fmt.Sprintf("get betting round %d: %v", roundID, err))
	}
	if !exists {
		return failedScoring(fmt.Sprintf("betting round %d not found", roundID))
	}

	seasonID := round.SeasonID
	if opts.SeasonID > 0 && opts.SeasonID != seasonID {
		return failedScoring(fmt.Sprintf("betting round %d belongs to season %d, not %d", roundID, seasonID, opts.SeasonID))
	}

	item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return failedScoring(fmt.Sprintf("get season %d: %v", seasonID, err))
	}
	if !exists {
		return failedScoring(fmt.Sprintf("season %d not found", seasonID))
	}
	if !item.CupActivated {
		return noopScoring(fmt.Sprintf("cup not activated for season %d; no points calculated", seasonID))
	}
	if opts.OnlyAfterActivation && item.CupActivatedAt != nil && round.CreatedAt.Before(*item.CupActivatedAt) {
		return noopScoring(fmt.Sprintf("betting round %d was created before cup activation; skipped", roundID))
	}

	bets, err := s.predictionRepo.ListGradedByRound(ctx, roundID)
	if err != nil {
		return failedScoring(fmt.Sprintf("list graded bets of round %d: %v", roundID, err))
	}

	records := cup.AggregateRoundPoints(bets, roundID, seasonID, s.now().UTC())
	if len(records) == 0 {
		return noopScoring(fmt.Sprintf("no graded bets for betting round %d", roundID))
	}

	stored, err := s.storage.Store(ctx, records)
	if err != nil {
		return failedScoring(fmt.Sprintf("cup points for round %d failed validation", roundID), validationMessages(err)...)
	}

	result = CupScoringResult{
		Success: stored.Success,
		Message: stored.Message,
		Details: CupScoringDetails{
			UsersProcessed:     stored.RecordsStored,
			TotalPointsAwarded: stored.PointsStored,
			Errors:             append([]string{}, stored.Errors...),
		},
	}
	if stored.RecordsStored > 0 {
		result.Details.RoundsProcessed = 1
	}

	s.logger.InfoContext(ctx, "cup round points calculated",
		"betting_round_id", roundID,
		"season_id", seasonID,
		"users_processed", result.Details.UsersProcessed,
		"total_points", result.Details.TotalPointsAwarded,
		"success", result.Success,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}

func (s *CupScoringService) recoverScoring(ctx context.Context, key string, id int64, result *CupScoringResult) {
	rec := recover()
	if rec == nil {
		return
	}
	s.logger.ErrorContext(ctx, "cup scoring panicked", key, id, "panic", rec)
	*result = failedScoring(fmt.Sprintf("unexpected error: %v", rec))
}
