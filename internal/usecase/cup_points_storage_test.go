package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	cupmock "github.com/riskibarqy/prediction-cup/internal/mocks/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func pointsRecords(n int) []cup.PointsRecord {
	out := make([]cup.PointsRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, cup.PointsRecord{
			UserID:         "user-" + strconv.Itoa(i),
			BettingRoundID: 10,
			SeasonID:       2025,
			Points:         i % 7,
			LastUpdated:    cupTestNow,
		})
	}
	return out
}

func TestCupPointsStorage_ValidationBlocksEveryWriteUsingMockery(t *testing.T) {
	t.Parallel()

	cupRepo := cupmock.NewRepository(t)
	storage := NewCupPointsStorage(cupRepo, 10, logging.NewNop())

	records := pointsRecords(4)
	records[1].Points = -1
	records[3] = records[0]

	_, err := storage.Store(context.Background(), records)
	if !errors.Is(err, cup.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var validationErr *cup.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *cup.ValidationError, got %T", err)
	}
	if got := validationErr.Indexes(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("unexpected offending indexes: %v", got)
	}
	cupRepo.AssertNotCalled(t, "UpsertPointsBatch", mock.Anything, mock.Anything)
}

func TestCupPointsStorage_CriticalFailureAbortsRemainingBatchesUsingMockery(t *testing.T) {
	t.Parallel()

	cupRepo := cupmock.NewRepository(t)
	storage := NewCupPointsStorage(cupRepo, 10, logging.NewNop())

	cupRepo.
		On("UpsertPointsBatch", mock.Anything, mock.MatchedBy(func(batch []cup.PointsRecord) bool { return len(batch) == 100 })).
		Return(errors.New(`insert or update on table "cup_points" violates foreign key constraint "cup_points_user_id_fkey"`)).
		Once()

	result, err := storage.Store(context.Background(), pointsRecords(300))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if result.Success || !result.Critical {
		t.Fatalf("expected critical failure, got %+v", result)
	}
	if result.BatchesAttempted != 1 || result.RecordsStored != 0 {
		t.Fatalf("expected abort after first batch, got %+v", result)
	}
	if !strings.HasPrefix(result.Message, "partial success: 0/300 records stored") {
		t.Fatalf("unexpected message: %s", result.Message)
	}
	cupRepo.AssertNumberOfCalls(t, "UpsertPointsBatch", 1)
	cupRepo.AssertNotCalled(t, "GetPoints", mock.Anything, mock.Anything, mock.Anything)
}

func TestCupPointsStorage_NonCriticalFailureContinuesUsingMockery(t *testing.T) {
	t.Parallel()

	cupRepo := cupmock.NewRepository(t)
	storage := NewCupPointsStorage(cupRepo, 0, logging.NewNop())

	records := pointsRecords(300)
	secondBatch := records[100].UserID
	cupRepo.
		On("UpsertPointsBatch", mock.Anything, mock.MatchedBy(func(batch []cup.PointsRecord) bool { return batch[0].UserID == secondBatch })).
		Return(errors.New("deadlock detected")).
		Once()
	cupRepo.
		On("UpsertPointsBatch", mock.Anything, mock.Anything).
		Return(nil).
		Twice()

	result, err := storage.Store(context.Background(), records)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if result.Success || result.Critical {
		t.Fatalf("expected non-critical partial failure, got %+v", result)
	}
	if result.BatchesAttempted != 3 || result.BatchesFailed != 1 || result.RecordsStored != 200 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	if !strings.Contains(result.Message, "partial success: 200/300 records stored") || !strings.Contains(result.Message, "batch 2: deadlock detected") {
		t.Fatalf("unexpected message: %s", result.Message)
	}
}

func TestCupPointsStorage_IntegrityMismatchIsWarningOnlyUsingMockery(t *testing.T) {
	t.Parallel()

	cupRepo := cupmock.NewRepository(t)
	storage := NewCupPointsStorage(cupRepo, 10, logging.NewNop())

	records := pointsRecords(5)
	byUser := make(map[string]cup.PointsRecord, len(records))
	for _, record := range records {
		byUser[record.UserID] = record
	}

	cupRepo.On("UpsertPointsBatch", mock.Anything, mock.Anything).Return(nil).Once()
	cupRepo.
		On("GetPoints", mock.Anything, mock.Anything, int64(10)).
		Return(func(_ context.Context, userID string, _ int64) (cup.PointsRecord, bool, error) {
			record := byUser[userID]
			if userID == "user-2" {
				record.Points += 4
			}
			return record, true, nil
		}).
		Times(5)

	result, err := storage.Store(context.Background(), records)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !result.Success {
		t.Fatalf("integrity mismatch must not fail the store, got %+v", result)
	}
	if result.IntegrityWarnings != 1 {
		t.Fatalf("expected one integrity warning, got %d", result.IntegrityWarnings)
	}
	if result.Message != "stored 5 records in 1 batches" {
		t.Fatalf("unexpected message: %s", result.Message)
	}
}

func TestCupPointsStorage_EmptyInputIsNoop(t *testing.T) {
	t.Parallel()

	cupRepo := cupmock.NewRepository(t)
	storage := NewCupPointsStorage(cupRepo, 10, logging.NewNop())

	result, err := storage.Store(context.Background(), nil)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !result.Success || result.RecordsStored != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSampleRecords_SpreadsAcrossInput(t *testing.T) {
	t.Parallel()

	records := pointsRecords(100)
	sample := sampleRecords(records, 10)
	if len(sample) != 10 {
		t.Fatalf("expected 10 sampled records, got %d", len(sample))
	}
	if sample[0].UserID != "user-0" || sample[9].UserID != "user-90" {
		t.Fatalf("unexpected sample bounds: first=%s last=%s", sample[0].UserID, sample[9].UserID)
	}
	if got := sampleRecords(records[:3], 10); len(got) != 3 {
		t.Fatalf("expected whole input when smaller than sample, got %d", len(got))
	}
}
