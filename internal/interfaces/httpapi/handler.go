package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
	"github.com/riskibarqy/prediction-cup/internal/usecase"
)

type Handler struct {
	activationService *usecase.CupActivationService
	scoringService    *usecase.CupScoringService
	correctionService *usecase.CupCorrectionService
	standingsService  *usecase.CupStandingsService
	standingsReads    *usecase.CupStandingsService
	logger            *logging.Logger
	validator         *validator.Validate
}

// NewHandler wires the cup services to HTTP. standingsReads serves the public standings and
// winners routes and may sit on cached repositories; nil falls back to standingsService.
func NewHandler(
	activationService *usecase.CupActivationService,
	scoringService *usecase.CupScoringService,
	correctionService *usecase.CupCorrectionService,
	standingsService *usecase.CupStandingsService,
	standingsReads *usecase.CupStandingsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if standingsReads == nil {
		standingsReads = standingsService
	}
	return &Handler{
		activationService: activationService,
		scoringService:    scoringService,
		correctionService: correctionService,
		standingsService:  standingsService,
		standingsReads:    standingsReads,
		logger:            logger.Named("httpapi"),
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, req any) error {
	if err := h.validator.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeJSON treats an empty body as a zero-value request.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.WarnContext(ctx, "request failed", "error", err)
	}
	writeError(ctx, w, err)
}
