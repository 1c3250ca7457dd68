package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/domain/season"
	cupmock "github.com/riskibarqy/prediction-cup/internal/mocks/domain/cup"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCorrectionFixture(t *testing.T, cfg CorrectionServiceConfig) (*cupFixture, *cupmock.Notifier) {
	t.Helper()

	notifier := cupmock.NewNotifier(t)
	f := newCupFixture(notifier, cfg)
	f.activatedSeason(2025, cupTestNow.Add(-30*24*time.Hour))
	f.data.PutRound(season.BettingRound{ID: 11, SeasonID: 2025, CreatedAt: cupTestNow.Add(-7 * 24 * time.Hour)})
	return f, notifier
}

func (f *cupFixture) storePoints(t *testing.T, userID string, points int, lastUpdated time.Time) {
	t.Helper()
	err := f.points.UpsertPointsBatch(context.Background(), []cup.PointsRecord{{
		UserID:         userID,
		BettingRoundID: 11,
		SeasonID:       2025,
		Points:         points,
		LastUpdated:    lastUpdated,
	}})
	require.NoError(t, err)
}

func (f *cupFixture) storedPoints(t *testing.T, userID string) int {
	t.Helper()
	record, found, err := f.points.GetPoints(context.Background(), userID, 11)
	require.NoError(t, err)
	require.True(t, found)
	return record.Points
}

func expectNotification(notifier *cupmock.Notifier, severity cup.Severity, applied bool, err error) {
	notifier.
		On("NotifyPointChange", mock.Anything, mock.MatchedBy(func(n cup.PointChangeNotification) bool {
			return n.Severity == severity && n.Applied == applied
		})).
		Return(err).
		Once()
}

func TestCupCorrectionService_AppliesNonConflictingCorrection(t *testing.T) {
	t.Parallel()

	f, notifier := newCorrectionFixture(t, defaultCorrectionConfig())
	f.storePoints(t, "u1", 5, cupTestNow.Add(-time.Hour))
	expectNotification(notifier, cup.SeverityInfo, true, nil)

	result := f.corrections.ApplyCorrections(context.Background(), []cup.CorrectionRequest{{
		UserID: "u1", BettingRoundID: 11, OldPoints: 5, NewPoints: 8, Reason: "fixture result updated", Type: cup.CorrectionResultUpdate,
	}}, f.corrections.DefaultOptions())

	require.True(t, result.Success, result.Errors)
	require.Equal(t, 1, result.CorrectionsApplied)
	require.Equal(t, 3, result.PointsChanged)
	require.Equal(t, 1, result.UsersAffected)
	require.Empty(t, result.Conflicts)
	require.Equal(t, 8, f.storedPoints(t, "u1"))
}

func TestCupCorrectionService_ConflictResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		stored         int
		storedAge      time.Duration
		req            cup.CorrectionRequest
		wantConflict   cup.ConflictType
		wantResolution cup.Resolution
		wantApplied    bool
		wantSeverity   cup.Severity
		wantStored     int
	}{
		{
			name:           "recent concurrent write resolves latest wins",
			stored:         7,
			storedAge:      time.Minute,
			req:            cup.CorrectionRequest{UserID: "u1", BettingRoundID: 11, OldPoints: 5, NewPoints: 6, Reason: "regrade", Type: cup.CorrectionResultUpdate},
			wantConflict:   cup.ConflictConcurrentUpdate,
			wantResolution: cup.ResolutionLatestWins,
			wantApplied:    true,
			wantSeverity:   cup.SeverityWarning,
			wantStored:     6,
		},
		{
			name:           "admin override on recent write",
			stored:         7,
			storedAge:      2 * time.Minute,
			req:            cup.CorrectionRequest{UserID: "u1", BettingRoundID: 11, OldPoints: 5, NewPoints: 9, Reason: "appeal", Type: cup.CorrectionManualOverride, AdminUserID: "admin-1"},
			wantConflict:   cup.ConflictManualOverrideConflict,
			wantResolution: cup.ResolutionAdminOverride,
			wantApplied:    true,
			wantSeverity:   cup.SeverityWarning,
			wantStored:     9,
		},
		{
			name:           "large delta needs manual review",
			stored:         3,
			storedAge:      time.Minute,
			req:            cup.CorrectionRequest{UserID: "u1", BettingRoundID: 11, OldPoints: 0, NewPoints: 20, Reason: "bulk fix", Type: cup.CorrectionResultUpdate},
			wantConflict:   cup.ConflictConcurrentUpdate,
			wantResolution: cup.ResolutionManualReviewRequired,
			wantApplied:    false,
			wantSeverity:   cup.SeverityError,
			wantStored:     3,
		},
		{
			name:         "stale stored value is not a conflict",
			stored:       7,
			storedAge:    time.Hour,
			req:          cup.CorrectionRequest{UserID: "u1", BettingRoundID: 11, OldPoints: 5, NewPoints: 6, Reason: "regrade", Type: cup.CorrectionResultUpdate},
			wantApplied:  true,
			wantSeverity: cup.SeverityInfo,
			wantStored:   6,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f, notifier := newCorrectionFixture(t, defaultCorrectionConfig())
			f.storePoints(t, "u1", tc.stored, cupTestNow.Add(-tc.storedAge))
			expectNotification(notifier, tc.wantSeverity, tc.wantApplied, nil)

			result := f.corrections.ApplyCorrections(context.Background(), []cup.CorrectionRequest{tc.req}, f.corrections.DefaultOptions())
			require.True(t, result.Success, result.Errors)
			if tc.wantApplied {
				require.Equal(t, 1, result.CorrectionsApplied)
			} else {
				require.Equal(t, 1, result.CorrectionsSkipped)
			}

			if tc.wantConflict == "" {
				require.Empty(t, result.Conflicts)
			} else {
				require.Len(t, result.Conflicts, 1)
				require.Equal(t, tc.wantConflict, result.Conflicts[0].ConflictType)
				require.Equal(t, tc.wantResolution, result.Conflicts[0].Resolution)
				require.Equal(t, tc.stored, result.Conflicts[0].ExistingValue)
				require.Equal(t, tc.req.NewPoints, result.Conflicts[0].AttemptedValue)
			}
			require.Equal(t, tc.wantStored, f.storedPoints(t, "u1"))
		})
	}
}

func TestCupCorrectionService_ManualOverrideRequiresAdmin(t *testing.T) {
	t.Parallel()

	f, notifier := newCorrectionFixture(t, defaultCorrectionConfig())
	f.storePoints(t, "u1", 5, cupTestNow.Add(-time.Hour))
	expectNotification(notifier, cup.SeverityError, false, nil)

	result := f.corrections.ApplyManualOverride(context.Background(), cup.CorrectionRequest{
		UserID: "u1", BettingRoundID: 11, OldPoints: 5, NewPoints: 6, Reason: "goodwill",
	}, f.corrections.DefaultOptions())

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "admin approval")
	require.Equal(t, 5, f.storedPoints(t, "u1"))
}

func TestCupCorrectionService_NotificationFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	f, notifier := newCorrectionFixture(t, defaultCorrectionConfig())
	f.storePoints(t, "u1", 5, cupTestNow.Add(-time.Hour))
	expectNotification(notifier, cup.SeverityInfo, true, errors.New("webhook unavailable"))

	result := f.corrections.ApplyCorrections(context.Background(), []cup.CorrectionRequest{{
		UserID: "u1", BettingRoundID: 11, OldPoints: 5, NewPoints: 4, Reason: "regrade", Type: cup.CorrectionResultUpdate,
	}}, f.corrections.DefaultOptions())

	require.True(t, result.Success, result.Errors)
	require.Equal(t, 4, f.storedPoints(t, "u1"))
}

func TestCupCorrectionService_InvalidCorrectionIsRejected(t *testing.T) {
	t.Parallel()

	f, notifier := newCorrectionFixture(t, defaultCorrectionConfig())
	opts := f.corrections.DefaultOptions()
	opts.NotifyOnPointChanges = false

	result := f.corrections.ApplyCorrections(context.Background(), []cup.CorrectionRequest{
		{UserID: "", BettingRoundID: 11, NewPoints: 1, Reason: "x", Type: cup.CorrectionResultUpdate},
		{UserID: "u1", BettingRoundID: 404, NewPoints: 1, Reason: "x", Type: cup.CorrectionResultUpdate},
	}, opts)

	require.False(t, result.Success)
	require.Len(t, result.Errors, 2)
	require.Equal(t, 2, result.CorrectionsSkipped)
	notifier.AssertNotCalled(t, "NotifyPointChange", mock.Anything, mock.Anything)
}

func TestCupCorrectionService_ProcessLateSubmissions(t *testing.T) {
	t.Parallel()

	f, notifier := newCorrectionFixture(t, defaultCorrectionConfig())
	kickoff := cupTestNow.Add(-3 * time.Hour)
	f.data.PutFixture(1, kickoff)
	f.data.PutFixture(2, kickoff.Add(2*time.Hour))
	f.data.PutBet("u1", 1, 11, intPtr(2), kickoff.Add(-time.Hour))
	f.data.PutBet("u1", 2, 11, intPtr(3), kickoff.Add(2*time.Hour+10*time.Minute))
	f.data.PutBet("u2", 1, 11, intPtr(1), kickoff.Add(-time.Hour))
	f.storePoints(t, "u1", 5, cupTestNow.Add(-time.Hour))
	f.storePoints(t, "u2", 1, cupTestNow.Add(-time.Hour))

	lenient, err := f.corrections.ProcessLateSubmissions(context.Background(), 11, LateSubmissionOptions{GracePeriodMinutes: 15}, f.corrections.DefaultOptions())
	require.NoError(t, err)
	require.True(t, lenient.Success)
	require.Equal(t, 0, lenient.CorrectionsApplied)

	expectNotification(notifier, cup.SeverityInfo, true, nil)
	strict, err := f.corrections.ProcessLateSubmissions(context.Background(), 11, LateSubmissionOptions{}, f.corrections.DefaultOptions())
	require.NoError(t, err)
	require.True(t, strict.Success, strict.Errors)
	require.Equal(t, 1, strict.CorrectionsApplied)
	require.Equal(t, 3, strict.PointsChanged)
	require.Equal(t, 2, f.storedPoints(t, "u1"))
	require.Equal(t, 1, f.storedPoints(t, "u2"))

	rerun, err := f.corrections.ProcessLateSubmissions(context.Background(), 11, LateSubmissionOptions{}, f.corrections.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 0, rerun.CorrectionsApplied)
	require.Equal(t, 2, f.storedPoints(t, "u1"))

	late, err := f.corrections.DetectLateSubmissions(context.Background(), 11, LateSubmissionOptions{})
	require.NoError(t, err)
	lateCount := 0
	for _, row := range late {
		if row.IsLate {
			lateCount++
			require.Equal(t, 10, row.MinutesLate)
		}
	}
	require.Equal(t, 1, lateCount)
}

func TestCupCorrectionService_LateCorrectionsDisabledIsNoop(t *testing.T) {
	t.Parallel()

	cfg := defaultCorrectionConfig()
	cfg.LateCorrectionsEnabled = false
	f, _ := newCorrectionFixture(t, cfg)

	result, err := f.corrections.ProcessLateSubmissions(context.Background(), 11, LateSubmissionOptions{}, f.corrections.DefaultOptions())
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "late submission corrections are disabled", result.Message)

	_, err = f.corrections.ProcessLateSubmissions(context.Background(), 0, LateSubmissionOptions{}, f.corrections.DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidInput)
}
