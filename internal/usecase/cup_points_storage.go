package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	defaultIntegritySampleSize = 10
	integrityCheckWorkers      = 4
)

type StorageResult struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	TotalRecords      int      `json:"totalRecords"`
	RecordsStored     int      `json:"recordsStored"`
	PointsStored      int      `json:"pointsStored"`
	BatchesAttempted  int      `json:"batchesAttempted"`
	BatchesFailed     int      `json:"batchesFailed"`
	Critical          bool     `json:"critical"`
	IntegrityWarnings int      `json:"integrityWarnings"`
	Errors            []string `json:"errors,omitempty"`
}

// CupPointsStorage validates and persists aggregated points in bounded batches.
type CupPointsStorage struct {
	cupRepo    cup.Repository
	logger     *logging.Logger
	sampleSize int
}

func NewCupPointsStorage(cupRepo cup.Repository, integritySampleSize int, logger *logging.Logger) *CupPointsStorage {
	if logger == nil {
		logger = logging.Default()
	}
	if integritySampleSize < 0 {
		integritySampleSize = defaultIntegritySampleSize
	}
	return &CupPointsStorage{
		cupRepo:    cupRepo,
		logger:     logger.Named("cup_storage"),
		sampleSize: integritySampleSize,
	}
}

// Store returns a *cup.ValidationError before any write when a record is invalid.
// Storage failures never return an error; they are summarized in the result.
func (s *CupPointsStorage) Store(ctx context.Context, records []cup.PointsRecord) (StorageResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CupPointsStorage.Store")
	defer span.End()

	result := StorageResult{TotalRecords: len(records)}
	if len(records) == 0 {
		result.Success = true
		result.Message = "no records to store"
		return result, nil
	}
	if err := cup.ValidateRecords(records); err != nil {
		return result, err
	}

	batches := cup.SplitBatches(records, cup.BatchSize(len(records)))
	stored := make([]cup.PointsRecord, 0, len(records))
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			result.Critical = true
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d: %v", i+1, err))
			break
		}

		start := time.Now()
		result.BatchesAttempted++
		err := s.cupRepo.UpsertPointsBatch(ctx, batch)
		if err == nil {
			stored = append(stored, batch...)
			result.RecordsStored += len(batch)
			result.PointsStored += cup.TotalPoints(batch)
			s.logger.DebugContext(ctx, "cup points batch stored",
				"batch_index", i,
				"batch_size", len(batch),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			continue
		}

		result.BatchesFailed++
		result.Errors = append(result.Errors, fmt.Sprintf("batch %d: %v", i+1, err))
		if cup.IsCriticalStorageError(err) {
			result.Critical = true
			s.logger.ErrorContext(ctx, "critical cup points batch failure, aborting remaining batches",
				"batch_index", i,
				"batch_size", len(batch),
				"batches_skipped", len(batches)-i-1,
				"error", err,
			)
			break
		}
		s.logger.WarnContext(ctx, "cup points batch failed",
			"batch_index", i,
			"batch_size", len(batch),
			"error", err,
		)
	}

	result.Success = len(result.Errors) == 0
	if result.Success {
		result.Message = fmt.Sprintf("stored %d records in %d batches", result.RecordsStored, len(batches))
	} else {
		result.Message = partialSuccessMessage(result)
	}

	result.IntegrityWarnings = s.verifySample(ctx, stored)
	return result, nil
}

func partialSuccessMessage(result StorageResult) string {
	prefix := fmt.Sprintf("partial success: %d/%d records stored", result.RecordsStored, result.TotalRecords)
	if result.Critical {
		prefix += "; critical storage error, remaining batches skipped"
	}
	return prefix + "; errors: " + strings.Join(result.Errors, "; ")
}

type integrityCheck struct {
	record cup.PointsRecord
	got    int
	found  bool
	err    error
}

// verifySample re-reads evenly spaced stored records. Mismatches are logged only.
func (s *CupPointsStorage) verifySample(ctx context.Context, stored []cup.PointsRecord) int {
	sample := sampleRecords(stored, s.sampleSize)
	if len(sample) == 0 {
		return 0
	}

	checks := pool.NewWithResults[integrityCheck]().WithMaxGoroutines(integrityCheckWorkers)
	for _, record := range sample {
		record := record
		checks.Go(func() integrityCheck {
			got, found, err := s.cupRepo.GetPoints(ctx, record.UserID, record.BettingRoundID)
			return integrityCheck{record: record, got: got.Points, found: found, err: err}
		})
	}

	warnings := 0
	for _, check := range checks.Wait() {
		switch {
		case check.err != nil:
			warnings++
			s.logger.WarnContext(ctx, "cup points integrity check read failed",
				"user_id", check.record.UserID,
				"betting_round_id", check.record.BettingRoundID,
				"error", check.err,
			)
		case !check.found || check.got != check.record.Points:
			warnings++
			s.logger.WarnContext(ctx, "cup points integrity mismatch",
				"user_id", check.record.UserID,
				"betting_round_id", check.record.BettingRoundID,
				"season_id", check.record.SeasonID,
				"expected_points", check.record.Points,
				"stored_points", check.got,
				"found", check.found,
				"error", cup.ErrIntegrity,
			)
		}
	}
	return warnings
}

func sampleRecords(records []cup.PointsRecord, size int) []cup.PointsRecord {
	if size <= 0 || len(records) == 0 {
		return nil
	}
	if size >= len(records) {
		return records
	}

	step := len(records) / size
	out := make([]cup.PointsRecord, 0, size)
	for i := 0; i < size; i++ {
		out = append(out, records[i*step])
	}
	return out
}

func validationMessages(err error) []string {
	var validationErr *cup.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(validationErr.Issues))
	for _, issue := range validationErr.Issues {
		out = append(out, fmt.Sprintf("index %d: %s %s", issue.Index, issue.Field, issue.Message))
	}
	return out
}
