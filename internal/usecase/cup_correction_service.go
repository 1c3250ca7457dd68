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

type CorrectionOptions struct {
	EnableConflictResolution         bool `json:"enableConflictResolution"`
	NotifyOnPointChanges             bool `json:"notifyOnPointChanges"`
	RequireAdminApprovalForOverrides bool `json:"requireAdminApprovalForOverrides"`
}

type LateSubmissionOptions struct {
	GracePeriodMinutes int `json:"lateSubmissionGracePeriodMinutes"`
}

type CorrectionServiceConfig struct {
	Policy                 cup.ConflictPolicy
	Defaults               CorrectionOptions
	LateGraceMinutes       int
	LateCorrectionsEnabled bool
}

type CorrectionResult struct {
	Success            bool                 `json:"success"`
	Message            string               `json:"message"`
	CorrectionsApplied int                  `json:"correctionsApplied"`
	CorrectionsSkipped int                  `json:"correctionsSkipped"`
	PointsChanged      int                  `json:"pointsChanged"`
	UsersAffected      int                  `json:"usersAffected"`
	Conflicts          []cup.ConflictRecord `json:"conflicts"`
	Errors             []string             `json:"errors"`
}

// CupCorrectionService applies point corrections and reconciles them with concurrent writes.
type CupCorrectionService struct {
	seasonRepo     season.Repository
	predictionRepo prediction.Repository
	cupRepo        cup.Repository
	storage        *CupPointsStorage
	notifier       cup.Notifier
	cfg            CorrectionServiceConfig
	logger         *logging.Logger
	now            func() time.Time
}

func NewCupCorrectionService(
	seasonRepo season.Repository,
	predictionRepo prediction.Repository,
	cupRepo cup.Repository,
	storage *CupPointsStorage,
	notifier cup.Notifier,
	cfg CorrectionServiceConfig,
	logger *logging.Logger,
) *CupCorrectionService {
	if logger == nil {
		logger = logging.Default()
	}
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if cfg.Policy.RecencyWindow <= 0 && cfg.Policy.ManualReviewThreshold <= 0 {
		cfg.Policy = cup.DefaultConflictPolicy()
	}
	if cfg.LateGraceMinutes < 0 {
		cfg.LateGraceMinutes = 0
	}
	return &CupCorrectionService{
		seasonRepo:     seasonRepo,
		predictionRepo: predictionRepo,
		cupRepo:        cupRepo,
		storage:        storage,
		notifier:       notifier,
		cfg:            cfg,
		logger:         logger.Named("cup_correction"),
		now:            time.Now,
	}
}

func (s *CupCorrectionService) DefaultOptions() CorrectionOptions {
	return s.cfg.Defaults
}

func (s *CupCorrectionService) DefaultLateSubmissionOptions() LateSubmissionOptions {
	return LateSubmissionOptions{GracePeriodMinutes: s.cfg.LateGraceMinutes}
}

func (s *CupCorrectionService) DetectLateSubmissions(ctx context.Context, roundID int64, opts LateSubmissionOptions) ([]cup.LateSubmission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupCorrectionService.DetectLateSubmissions")
	defer span.End()

	if roundID <= 0 {
		return nil, fmt.Errorf("%w: betting round id must be positive", ErrInvalidInput)
	}

	submissions, err := s.predictionRepo.ListSubmissionsByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("%w: list submissions of round %d: %v", cup.ErrNotAccessible, roundID, err)
	}
	return cup.DetectLateSubmissions(submissions, opts.GracePeriodMinutes), nil
}

func (s *CupCorrectionService) ApplyManualOverride(ctx context.Context, req cup.CorrectionRequest, opts CorrectionOptions) CorrectionResult {
	req.Type = cup.CorrectionManualOverride
	return s.ApplyCorrections(ctx, []cup.CorrectionRequest{req}, opts)
}

func (s *CupCorrectionService) ApplyCorrections(ctx context.Context, reqs []cup.CorrectionRequest, opts CorrectionOptions) (result CorrectionResult) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupCorrectionService.ApplyCorrections")
	defer span.End()

	result = CorrectionResult{Conflicts: []cup.ConflictRecord{}, Errors: []string{}}
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.ErrorContext(ctx, "cup correction panicked", "panic", rec)
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("unexpected error: %v", rec))
			result.Message = "corrections aborted by unexpected error"
		}
	}()

	users := make(map[string]struct{})
	for i, req := range reqs {
		outcome := s.applyOne(ctx, req, opts)
		if outcome.conflict != nil {
			result.Conflicts = append(result.Conflicts, *outcome.conflict)
		}
		if outcome.err != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("correction %d (user %s, round %d): %s", i, req.UserID, req.BettingRoundID, outcome.err))
		}
		if !outcome.applied {
			result.CorrectionsSkipped++
			continue
		}
		result.CorrectionsApplied++
		result.PointsChanged += outcome.pointsChanged
		users[req.UserID] = struct{}{}
	}

	result.UsersAffected = len(users)
	result.Success = len(result.Errors) == 0
	result.Message = fmt.Sprintf("applied %d/%d corrections", result.CorrectionsApplied, len(reqs))
	if len(result.Conflicts) > 0 {
		result.Message += fmt.Sprintf(", %d conflicts detected", len(result.Conflicts))
	}
	return result
}

type correctionOutcome struct {
	applied       bool
	pointsChanged int
	conflict      *cup.ConflictRecord
	err           string
}

func (s *CupCorrectionService) applyOne(ctx context.Context, req cup.CorrectionRequest, opts CorrectionOptions) correctionOutcome {
	now := s.now().UTC()
	notification := cup.PointChangeNotification{
		UserID:         req.UserID,
		BettingRoundID: req.BettingRoundID,
		OldPoints:      req.OldPoints,
		NewPoints:      req.NewPoints,
		Reason:         req.Reason,
		CorrectionType: req.Type,
		AdminUserID:    req.AdminUserID,
		Severity:       cup.SeverityInfo,
		OccurredAt:     now,
	}
	reject := func(outcome correctionOutcome, message string) correctionOutcome {
		outcome.err = message
		notification.Severity = cup.SeverityError
		notification.Message = message
		notification.Conflict = outcome.conflict
		s.notify(ctx, opts, notification)
		return outcome
	}

	if err := cup.ValidateCorrection(req); err != nil {
		return reject(correctionOutcome{}, err.Error())
	}
	if opts.RequireAdminApprovalForOverrides && req.Type == cup.CorrectionManualOverride && !req.IsAdminSourced() {
		return reject(correctionOutcome{}, "manual override requires admin approval")
	}

	round, exists, err := s.seasonRepo.GetRound(ctx, req.BettingRoundID)
	if err != nil {
		return reject(correctionOutcome{}, fmt.Sprintf("get betting round: %v", err))
	}
	if !exists {
		return reject(correctionOutcome{}, "betting round not found")
	}
	notification.SeasonID = round.SeasonID

	stored, storedExists, err := s.cupRepo.GetPoints(ctx, req.UserID, req.BettingRoundID)
	if err != nil {
		return reject(correctionOutcome{}, fmt.Sprintf("%v: read stored points: %v", cup.ErrNotAccessible, err))
	}

	var outcome correctionOutcome
	if opts.EnableConflictResolution {
		if kind, conflicted := cup.DetectConflict(req, stored, storedExists, now, s.cfg.Policy.RecencyWindow); conflicted {
			resolution := cup.ResolveConflict(req, s.cfg.Policy.ManualReviewThreshold)
			outcome.conflict = &cup.ConflictRecord{
				UserID:         req.UserID,
				BettingRoundID: req.BettingRoundID,
				ConflictType:   kind,
				ExistingValue:  stored.Points,
				AttemptedValue: req.NewPoints,
				Resolution:     resolution,
				Timestamp:      now,
			}
			s.logger.WarnContext(ctx, "cup points correction conflict",
				"user_id", req.UserID,
				"betting_round_id", req.BettingRoundID,
				"conflict_type", kind,
				"resolution", resolution,
				"stored_points", stored.Points,
				"expected_points", req.OldPoints,
				"error", cup.ErrConflict,
			)
			if !resolution.Applies() {
				notification.Severity = cup.SeverityError
				notification.Message = "conflict requires manual review"
				notification.Conflict = outcome.conflict
				s.notify(ctx, opts, notification)
				return outcome
			}
			notification.Severity = cup.SeverityWarning
			notification.Conflict = outcome.conflict
		}
	}

	record := cup.PointsRecord{
		UserID:         req.UserID,
		BettingRoundID: req.BettingRoundID,
		SeasonID:       round.SeasonID,
		Points:         req.NewPoints,
		LastUpdated:    now,
	}
	storeResult, err := s.storage.Store(ctx, []cup.PointsRecord{record})
	if err != nil {
		return reject(outcome, err.Error())
	}
	if !storeResult.Success {
		return reject(outcome, storeResult.Message)
	}

	previous := 0
	if storedExists {
		previous = stored.Points
	}
	outcome.applied = true
	outcome.pointsChanged = absDiff(req.NewPoints, previous)

	notification.Applied = true
	notification.Message = fmt.Sprintf("points changed from %d to %d", previous, req.NewPoints)
	s.notify(ctx, opts, notification)
	return outcome
}

// ProcessLateSubmissions recomputes round totals of users with late bets from their on-time bets only.
func (s *CupCorrectionService) ProcessLateSubmissions(ctx context.Context, roundID int64, lateOpts LateSubmissionOptions, opts CorrectionOptions) (CorrectionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupCorrectionService.ProcessLateSubmissions")
	defer span.End()

	if roundID <= 0 {
		return CorrectionResult{}, fmt.Errorf("%w: betting round id must be positive", ErrInvalidInput)
	}

	empty := CorrectionResult{Success: true, Conflicts: []cup.ConflictRecord{}, Errors: []string{}}
	if !s.cfg.LateCorrectionsEnabled {
		empty.Message = "late submission corrections are disabled"
		return empty, nil
	}

	rows, err := s.DetectLateSubmissions(ctx, roundID, lateOpts)
	if err != nil {
		failed := empty
		failed.Success = false
		failed.Message = "late submission detection failed"
		failed.Errors = append(failed.Errors, err.Error())
		return failed, nil
	}

	adjustments := cup.LateAdjustments(rows)
	reqs := make([]cup.CorrectionRequest, 0, len(adjustments))
	readErrors := make([]string, 0)
	for _, item := range adjustments {
		stored, exists, getErr := s.cupRepo.GetPoints(ctx, item.UserID, roundID)
		if getErr != nil {
			readErrors = append(readErrors, fmt.Sprintf("user %s: read stored points: %v", item.UserID, getErr))
			continue
		}
		if !exists || stored.Points == item.OnTimePoints {
			continue
		}
		reqs = append(reqs, cup.CorrectionRequest{
			UserID:         item.UserID,
			BettingRoundID: roundID,
			OldPoints:      stored.Points,
			NewPoints:      item.OnTimePoints,
			Reason:         fmt.Sprintf("late submission: %d bet(s) placed after kickoff", item.LateBets),
			Type:           cup.CorrectionResultUpdate,
		})
	}

	if len(reqs) == 0 {
		empty.Message = fmt.Sprintf("no late submission corrections needed for round %d", roundID)
		if len(readErrors) > 0 {
			empty.Success = false
			empty.Errors = readErrors
		}
		return empty, nil
	}

	result := s.ApplyCorrections(ctx, reqs, opts)
	if len(readErrors) > 0 {
		result.Success = false
		result.Errors = append(result.Errors, readErrors...)
	}
	s.logger.InfoContext(ctx, "late submission corrections processed",
		"betting_round_id", roundID,
		"late_users", len(adjustments),
		"corrections_applied", result.CorrectionsApplied,
		"points_changed", result.PointsChanged,
	)
	return result, nil
}

func (s *CupCorrectionService) notify(ctx context.Context, opts CorrectionOptions, notification cup.PointChangeNotification) {
	if !opts.NotifyOnPointChanges {
		return
	}
	if err := s.notifier.NotifyPointChange(ctx, notification); err != nil {
		s.logger.WarnContext(ctx, "point change notification failed",
			"user_id", notification.UserID,
			"betting_round_id", notification.BettingRoundID,
			"severity", notification.Severity,
			"error", err,
		)
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
