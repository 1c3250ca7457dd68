package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/domain/season"
	"github.com/riskibarqy/prediction-cup/internal/usecase"
)

type activateCupRequest struct {
	SeasonID    int64  `json:"seasonId" validate:"omitempty,gt=0"`
	TriggeredBy string `json:"triggeredBy" validate:"omitempty,max=128"`
	Reason      string `json:"reason" validate:"omitempty,max=512"`
}

type roundPointsRequest struct {
	OnlyAfterActivation *bool `json:"onlyAfterActivation"`
}

type roundsPointsRequest struct {
	RoundIDs            []int64 `json:"roundIds" validate:"required,min=1,dive,gt=0"`
	OnlyAfterActivation *bool   `json:"onlyAfterActivation"`
}

type correctionOptionsRequest struct {
	EnableConflictResolution         *bool `json:"enableConflictResolution"`
	NotifyOnPointChanges             *bool `json:"notifyOnPointChanges"`
	RequireAdminApprovalForOverrides *bool `json:"requireAdminApprovalForOverrides"`
}

func (r *correctionOptionsRequest) merge(defaults usecase.CorrectionOptions) usecase.CorrectionOptions {
	if r == nil {
		return defaults
	}
	if r.EnableConflictResolution != nil {
		defaults.EnableConflictResolution = *r.EnableConflictResolution
	}
	if r.NotifyOnPointChanges != nil {
		defaults.NotifyOnPointChanges = *r.NotifyOnPointChanges
	}
	if r.RequireAdminApprovalForOverrides != nil {
		defaults.RequireAdminApprovalForOverrides = *r.RequireAdminApprovalForOverrides
	}
	return defaults
}

type correctionsRequest struct {
	Corrections []cup.CorrectionRequest   `json:"corrections" validate:"required,min=1"`
	Options     *correctionOptionsRequest `json:"options"`
}

type manualOverrideRequest struct {
	UserID         string                    `json:"userId" validate:"required"`
	BettingRoundID int64                     `json:"bettingRoundId" validate:"gt=0"`
	OldPoints      int                       `json:"oldPoints" validate:"gte=0"`
	NewPoints      int                       `json:"newPoints" validate:"gte=0"`
	Reason         string                    `json:"reason" validate:"required"`
	AdminUserID    string                    `json:"adminUserId"`
	Options        *correctionOptionsRequest `json:"options"`
}

type processLateRequest struct {
	GracePeriodMinutes *int                      `json:"lateSubmissionGracePeriodMinutes" validate:"omitempty,gte=0"`
	Options            *correctionOptionsRequest `json:"options"`
}

func (h *Handler) GetCurrentCupStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentCupStatus")
	defer span.End()

	status, err := h.activationService.GetCurrentStatus(ctx)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, status)
}

func (h *Handler) GetCupStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCupStatus")
	defer span.End()

	seasonID, err := parseIDParam(r, "seasonID")
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	status, err := h.activationService.GetStatus(ctx, seasonID)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, status)
}

func (h *Handler) GetCupStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCupStandings")
	defer span.End()

	seasonID, err := parseIDParam(r, "seasonID")
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	standings, err := h.standingsReads.CalculateStandings(ctx, seasonID)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, standings)
}

func (h *Handler) GetCupWinners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCupWinners")
	defer span.End()

	seasonID, err := parseIDParam(r, "seasonID")
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	winners, err := h.standingsReads.ListWinners(ctx, seasonID)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, winners)
}

func (h *Handler) ActivateCup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateCup")
	defer span.End()

	var req activateCupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, err)
		return
	}

	details := season.ActivationDetails{
		TriggeredBy: strings.TrimSpace(req.TriggeredBy),
		Reason:      strings.TrimSpace(req.Reason),
	}
	var result usecase.ActivationAttemptResult
	if req.SeasonID == 0 {
		result = h.activationService.ActivateCurrent(ctx, details)
	} else {
		var err error
		result, err = h.activationService.Activate(ctx, req.SeasonID, details)
		if err != nil {
			h.fail(ctx, w, err)
			return
		}
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) CalculateRoundCupPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculateRoundCupPoints")
	defer span.End()

	roundID, err := parseIDParam(r, "roundID")
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	var req roundPointsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err)
		return
	}

	result, err := h.scoringService.CalculateRoundCupPoints(ctx, roundID, scoringOptions(req.OnlyAfterActivation))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) CalculateRoundsCupPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculateRoundsCupPoints")
	defer span.End()

	var req roundsPointsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, err)
		return
	}

	result, err := h.scoringService.CalculateRoundsCupPoints(ctx, req.RoundIDs, scoringOptions(req.OnlyAfterActivation))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) CalculateSeasonCupPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculateSeasonCupPoints")
	defer span.End()

	seasonID, err := parseIDParam(r, "seasonID")
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	result, err := h.scoringService.CalculateSeasonCupPoints(ctx, seasonID)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListLateSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLateSubmissions")
	defer span.End()

	roundID, err := parseIDParam(r, "roundID")
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	opts := h.correctionService.DefaultLateSubmissionOptions()
	if raw := strings.TrimSpace(r.URL.Query().Get("graceMinutes")); raw != "" {
		minutes, convErr := strconv.Atoi(raw)
		if convErr != nil || minutes < 0 {
			h.fail(ctx, w, fmt.Errorf("%w: graceMinutes must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		opts.GracePeriodMinutes = minutes
	}

	rows, err := h.correctionService.DetectLateSubmissions(ctx, roundID, opts)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) ProcessLateSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProcessLateSubmissions")
	defer span.End()

	roundID, err := parseIDParam(r, "roundID")
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	var req processLateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, err)
		return
	}

	lateOpts := h.correctionService.DefaultLateSubmissionOptions()
	if req.GracePeriodMinutes != nil {
		lateOpts.GracePeriodMinutes = *req.GracePeriodMinutes
	}
	result, err := h.correctionService.ProcessLateSubmissions(ctx, roundID, lateOpts, req.Options.merge(h.correctionService.DefaultOptions()))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ApplyCorrections(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyCorrections")
	defer span.End()

	var req correctionsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, err)
		return
	}

	result := h.correctionService.ApplyCorrections(ctx, req.Corrections, req.Options.merge(h.correctionService.DefaultOptions()))
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ApplyManualOverride(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyManualOverride")
	defer span.End()

	var req manualOverrideRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, err)
		return
	}

	correction := cup.CorrectionRequest{
		UserID:         strings.TrimSpace(req.UserID),
		BettingRoundID: req.BettingRoundID,
		OldPoints:      req.OldPoints,
		NewPoints:      req.NewPoints,
		Reason:         strings.TrimSpace(req.Reason),
		AdminUserID:    strings.TrimSpace(req.AdminUserID),
	}
	result := h.correctionService.ApplyManualOverride(ctx, correction, req.Options.merge(h.correctionService.DefaultOptions()))
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) DetermineWinners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DetermineWinners")
	defer span.End()

	seasonID, err := parseIDParam(r, "seasonID")
	if err != nil {
		h.fail(ctx, w, err)
		return
	}

	result, err := h.standingsService.DetermineWinners(ctx, seasonID)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) DetermineEligibleWinners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DetermineEligibleWinners")
	defer span.End()

	results, err := h.standingsService.DetermineWinnersForEligibleSeasons(ctx)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, results)
}

func scoringOptions(onlyAfterActivation *bool) usecase.ScoringOptions {
	opts := usecase.ScoringOptions{OnlyAfterActivation: true}
	if onlyAfterActivation != nil {
		opts.OnlyAfterActivation = *onlyAfterActivation
	}
	return opts
}
