package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/season"
	"github.com/riskibarqy/prediction-cup/internal/infrastructure/repository/memory"
	seasonmock "github.com/riskibarqy/prediction-cup/internal/mocks/domain/season"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCupActivationService_ConcurrentActivateWinsExactlyOnce(t *testing.T) {
	t.Parallel()

	data := memory.NewDataset()
	data.PutSeason(season.Season{ID: 2025, CompetitionID: 1, Name: "2025/26", IsCurrent: true})
	service := NewCupActivationService(memory.NewSeasonRepository(data), logging.NewNop())

	const callers = 32
	results := make([]ActivationAttemptResult, callers)
	var wg conc.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Go(func() {
			results[i] = service.ActivateCurrent(context.Background(), season.ActivationDetails{TriggeredBy: "test"})
		})
	}
	wg.Wait()

	winners := 0
	var activatedAt time.Time
	for i, result := range results {
		require.Truef(t, result.Success, "caller %d failed: %s", i, result.Error)
		require.NotNil(t, result.ActivatedAt)
		if !result.WasAlreadyActivated {
			winners++
		}
		if activatedAt.IsZero() {
			activatedAt = *result.ActivatedAt
		}
		require.True(t, activatedAt.Equal(*result.ActivatedAt), "caller %d saw activatedAt=%s want %s", i, result.ActivatedAt, activatedAt)
	}
	require.Equal(t, 1, winners)

	status, err := service.GetStatus(context.Background(), 2025)
	require.NoError(t, err)
	require.True(t, status.IsActivated)
	require.True(t, activatedAt.Equal(*status.ActivatedAt))
}

func TestCupActivationService_AlreadyActivatedSkipsWriteUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seasonRepo := seasonmock.NewRepository(t)
	service := NewCupActivationService(seasonRepo, logging.NewNop())

	activatedAt := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	seasonRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(2025)).
		Return(season.Season{ID: 2025, Name: "2025/26", CupActivated: true, CupActivatedAt: &activatedAt}, true, nil).
		Once()

	result, err := service.Activate(ctx, 2025, season.ActivationDetails{})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !result.Success || !result.WasAlreadyActivated {
		t.Fatalf("expected already activated success, got %+v", result)
	}
	if result.ActivatedAt == nil || !result.ActivatedAt.Equal(activatedAt) {
		t.Fatalf("unexpected activatedAt: %v", result.ActivatedAt)
	}
	seasonRepo.AssertNotCalled(t, "ActivateCup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCupActivationService_LostRaceReportsWinnerTimestampUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seasonRepo := seasonmock.NewRepository(t)
	service := NewCupActivationService(seasonRepo, logging.NewNop())

	winnerAt := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	seasonRepo.
		On("GetByID", mock.Anything, int64(2025)).
		Return(season.Season{ID: 2025, Name: "2025/26"}, true, nil).
		Once()
	seasonRepo.
		On("ActivateCup", mock.Anything, int64(2025), mock.AnythingOfType("time.Time"), season.ActivationDetails{TriggeredBy: "cron"}).
		Return(season.ActivationOutcome{Won: false, ActivatedAt: winnerAt}, nil).
		Once()

	result, err := service.Activate(ctx, 2025, season.ActivationDetails{TriggeredBy: "cron"})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !result.Success || !result.WasAlreadyActivated {
		t.Fatalf("expected success with wasAlreadyActivated, got %+v", result)
	}
	if !result.ActivatedAt.Equal(winnerAt) {
		t.Fatalf("expected winner timestamp %s, got %s", winnerAt, result.ActivatedAt)
	}
}

func TestCupActivationService_MissingSeasonFailsWithoutWriteUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seasonRepo := seasonmock.NewRepository(t)
	service := NewCupActivationService(seasonRepo, logging.NewNop())

	seasonRepo.On("GetCurrent", mock.Anything).Return(season.Season{}, false, nil).Once()
	seasonRepo.On("GetByID", mock.Anything, int64(99)).Return(season.Season{}, false, nil).Once()

	current := service.ActivateCurrent(ctx, season.ActivationDetails{})
	if current.Success || current.Error != "no current season found" {
		t.Fatalf("unexpected result for missing current season: %+v", current)
	}

	byID, err := service.Activate(ctx, 99, season.ActivationDetails{})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if byID.Success || byID.Error != "season not found" {
		t.Fatalf("unexpected result for missing season: %+v", byID)
	}
	seasonRepo.AssertNotCalled(t, "ActivateCup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCupActivationService_InfrastructureFailureSurfacesMessageUsingMockery(t *testing.T) {
	t.Parallel()

	seasonRepo := seasonmock.NewRepository(t)
	service := NewCupActivationService(seasonRepo, logging.NewNop())

	seasonRepo.On("GetByID", mock.Anything, int64(2025)).Return(season.Season{ID: 2025, Name: "2025/26"}, true, nil).Once()
	seasonRepo.
		On("ActivateCup", mock.Anything, int64(2025), mock.Anything, mock.Anything).
		Return(season.ActivationOutcome{}, errors.New("connection refused")).
		Once()

	result, err := service.Activate(context.Background(), 2025, season.ActivationDetails{})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if result.Success || result.Error != "connection refused" {
		t.Fatalf("expected failed result with underlying message, got %+v", result)
	}
}

func TestCupActivationService_PanicBecomesFailedResultUsingMockery(t *testing.T) {
	t.Parallel()

	seasonRepo := seasonmock.NewRepository(t)
	service := NewCupActivationService(seasonRepo, logging.NewNop())

	var calls atomic.Int32
	seasonRepo.On("GetByID", mock.Anything, int64(2025)).Return(season.Season{ID: 2025, Name: "2025/26"}, true, nil).Once()
	seasonRepo.
		On("ActivateCup", mock.Anything, int64(2025), mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			calls.Add(1)
			panic("driver exploded")
		}).
		Return(season.ActivationOutcome{}, nil).
		Once()

	result, err := service.Activate(context.Background(), 2025, season.ActivationDetails{})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if result.Success || result.Error == "" {
		t.Fatalf("expected failed result, got %+v", result)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one activation attempt, got %d", calls.Load())
	}
}

func TestCupActivationService_CancelledCallerDoesNotAbortSharedActivationUsingMockery(t *testing.T) {
	t.Parallel()

	seasonRepo := seasonmock.NewRepository(t)
	service := NewCupActivationService(seasonRepo, logging.NewNop())
	activatedAt := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seasonRepo.On("GetByID", mock.Anything, int64(2025)).Return(season.Season{ID: 2025, Name: "2025/26"}, true, nil).Once()
	seasonRepo.
		On("ActivateCup", mock.MatchedBy(func(v context.Context) bool { return v.Err() == nil }), int64(2025), mock.Anything, mock.Anything).
		Return(season.ActivationOutcome{Won: true, ActivatedAt: activatedAt}, nil).
		Once()

	result, err := service.Activate(ctx, 2025, season.ActivationDetails{TriggeredBy: "ops"})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	require.False(t, result.WasAlreadyActivated)
	require.NotNil(t, result.ActivatedAt)
	require.True(t, result.ActivatedAt.Equal(activatedAt))
}

func TestCupActivationService_StatusReads(t *testing.T) {
	t.Parallel()

	data := memory.NewDataset()
	service := NewCupActivationService(memory.NewSeasonRepository(data), logging.NewNop())

	status, err := service.GetCurrentStatus(context.Background())
	if err != nil {
		t.Fatalf("get current status: %v", err)
	}
	if status.IsActivated || status.SeasonID != nil || status.SeasonName != nil || status.ActivatedAt != nil {
		t.Fatalf("expected empty status without a current season, got %+v", status)
	}

	data.PutSeason(season.Season{ID: 2025, Name: "2025/26", IsCurrent: true})
	status, err = service.GetCurrentStatus(context.Background())
	if err != nil {
		t.Fatalf("get current status: %v", err)
	}
	if status.IsActivated || status.SeasonID == nil || *status.SeasonID != 2025 || *status.SeasonName != "2025/26" {
		t.Fatalf("unexpected current status: %+v", status)
	}

	if _, err := service.GetStatus(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.Activate(context.Background(), -1, season.ActivationDetails{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
