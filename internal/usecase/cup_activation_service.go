package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/domain/season"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
	"github.com/riskibarqy/prediction-cup/internal/platform/resilience"
)

type ActivationStatus struct {
	IsActivated bool       `json:"isActivated"`
	ActivatedAt *time.Time `json:"activatedAt"`
	SeasonID    *int64     `json:"seasonId"`
	SeasonName  *string    `json:"seasonName"`
}

type ActivationAttemptResult struct {
	Success             bool       `json:"success"`
	WasAlreadyActivated bool       `json:"wasAlreadyActivated"`
	ActivatedAt         *time.Time `json:"activatedAt"`
	SeasonID            *int64     `json:"seasonId"`
	SeasonName          *string    `json:"seasonName"`
	Error               string     `json:"error,omitempty"`
	AttemptedAt         time.Time  `json:"attemptedAt"`
}

type CupActivationService struct {
	seasonRepo season.Repository
	logger     *logging.Logger
	flight     resilience.Flight[season.ActivationOutcome]
	now        func() time.Time
}

func NewCupActivationService(seasonRepo season.Repository, logger *logging.Logger) *CupActivationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CupActivationService{
		seasonRepo: seasonRepo,
		logger:     logger.Named("cup_activation"),
		now:        time.Now,
	}
}

func (s *CupActivationService) GetCurrentStatus(ctx context.Context) (ActivationStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupActivationService.GetCurrentStatus")
	defer span.End()

	item, exists, err := s.seasonRepo.GetCurrent(ctx)
	if err != nil {
		return ActivationStatus{}, fmt.Errorf("%w: get current season: %v", cup.ErrNotAccessible, err)
	}
	if !exists {
		return ActivationStatus{}, nil
	}
	return statusOf(item), nil
}

func (s *CupActivationService) GetStatus(ctx context.Context, seasonID int64) (ActivationStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupActivationService.GetStatus")
	defer span.End()

	if seasonID <= 0 {
		return ActivationStatus{}, fmt.Errorf("%w: season id must be positive", ErrInvalidInput)
	}

	item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return ActivationStatus{}, fmt.Errorf("%w: get season=%d: %v", cup.ErrNotAccessible, seasonID, err)
	}
	if !exists {
		return ActivationStatus{}, nil
	}
	return statusOf(item), nil
}

// ActivateCurrent activates the cup of the current season. Missing season is a failed result.
func (s *CupActivationService) ActivateCurrent(ctx context.Context, details season.ActivationDetails) (result ActivationAttemptResult) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupActivationService.ActivateCurrent")
	defer span.End()

	attemptedAt := s.now().UTC()
	defer s.recoverActivation(ctx, 0, attemptedAt, &result)

	item, exists, err := s.seasonRepo.GetCurrent(ctx)
	if err != nil {
		return failedActivation(attemptedAt, nil, fmt.Sprintf("get current season: %v", err))
	}
	if !exists {
		return failedActivation(attemptedAt, nil, "no current season found")
	}
	return s.activate(ctx, item, details, attemptedAt)
}

func (s *CupActivationService) Activate(ctx context.Context, seasonID int64, details season.ActivationDetails) (result ActivationAttemptResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupActivationService.Activate")
	defer span.End()

	if seasonID <= 0 {
		return ActivationAttemptResult{}, fmt.Errorf("%w: season id must be positive", ErrInvalidInput)
	}

	attemptedAt := s.now().UTC()
	defer s.recoverActivation(ctx, seasonID, attemptedAt, &result)

	item, exists, getErr := s.seasonRepo.GetByID(ctx, seasonID)
	if getErr != nil {
		return failedActivation(attemptedAt, &seasonID, fmt.Sprintf("get season: %v", getErr)), nil
	}
	if !exists {
		return failedActivation(attemptedAt, &seasonID, "season not found"), nil
	}
	return s.activate(ctx, item, details, attemptedAt), nil
}

func (s *CupActivationService) activate(ctx context.Context, item season.Season, details season.ActivationDetails, attemptedAt time.Time) ActivationAttemptResult {
	seasonID := item.ID
	seasonName := item.Name
	result := ActivationAttemptResult{
		SeasonID:    &seasonID,
		SeasonName:  &seasonName,
		AttemptedAt: attemptedAt,
	}

	if item.CupActivated {
		result.Success = true
		result.WasAlreadyActivated = true
		result.ActivatedAt = item.CupActivatedAt
		return result
	}

	start := time.Now()
	// The flight serves every waiter, so one caller's cancellation must not fail the rest.
	flightCtx := context.WithoutCancel(ctx)
	outcome, err, shared := s.flight.Do(strconv.FormatInt(seasonID, 10), func() (season.ActivationOutcome, error) {
		return s.seasonRepo.ActivateCup(flightCtx, seasonID, s.now().UTC(), details)
	})
	if err != nil {
		message := err.Error()
		if errors.Is(err, season.ErrSeasonNotFound) {
			message = "season not found"
		}
		s.logger.ErrorContext(ctx, "cup activation failed",
			"season_id", seasonID,
			"error", err,
		)
		result.Error = message
		return result
	}

	activatedAt := outcome.ActivatedAt.UTC()
	result.Success = true
	result.WasAlreadyActivated = shared || !outcome.Won
	if !outcome.ActivatedAt.IsZero() {
		result.ActivatedAt = &activatedAt
	}

	if !result.WasAlreadyActivated {
		s.logger.InfoContext(ctx, "cup activated",
			"season_id", seasonID,
			"triggered_by", details.TriggeredBy,
			"reason", details.Reason,
			"activated_at", activatedAt,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return result
}

func (s *CupActivationService) recoverActivation(ctx context.Context, seasonID int64, attemptedAt time.Time, result *ActivationAttemptResult) {
	rec := recover()
	if rec == nil {
		return
	}
	s.logger.ErrorContext(ctx, "cup activation panicked", "season_id", seasonID, "panic", rec)

	var id *int64
	if seasonID > 0 {
		id = &seasonID
	}
	*result = failedActivation(attemptedAt, id, fmt.Sprintf("unexpected error: %v", rec))
}

func failedActivation(attemptedAt time.Time, seasonID *int64, message string) ActivationAttemptResult {
	return ActivationAttemptResult{
		Success:     false,
		SeasonID:    seasonID,
		Error:       message,
		AttemptedAt: attemptedAt,
	}
}

func statusOf(item season.Season) ActivationStatus {
	seasonID := item.ID
	seasonName := item.Name
	status := ActivationStatus{
		IsActivated: item.CupActivated,
		SeasonID:    &seasonID,
		SeasonName:  &seasonName,
	}
	if item.CupActivatedAt != nil {
		activatedAt := item.CupActivatedAt.UTC()
		status.ActivatedAt = &activatedAt
	}
	return status
}
