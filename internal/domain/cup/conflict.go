package cup

import "time"

// ConflictPolicy holds the tunables of correction conflict handling.
type ConflictPolicy struct {
	// RecencyWindow is how recently a stored value must have been written for a
	// mismatch to count as an in-flight race.
	RecencyWindow time.Duration
	// ManualReviewThreshold is the largest |new-old| delta that may be auto-applied
	// when a conflict is detected.
	ManualReviewThreshold int
}

func DefaultConflictPolicy() ConflictPolicy {
	return ConflictPolicy{
		RecencyWindow:         5 * time.Minute,
		ManualReviewThreshold: 10,
	}
}

// DetectConflict compares the caller's assumed old value with what is stored.
// Detection is best-effort: only mismatches written inside the recency window count.
func DetectConflict(req CorrectionRequest, stored PointsRecord, exists bool, now time.Time, window time.Duration) (ConflictType, bool) {
	if !exists {
		return "", false
	}
	if stored.Points == req.OldPoints {
		return "", false
	}
	if window <= 0 || now.Sub(stored.LastUpdated) > window {
		return "", false
	}

	if req.Type == CorrectionManualOverride && req.IsAdminSourced() {
		return ConflictManualOverrideConflict, true
	}
	return ConflictConcurrentUpdate, true
}

func ResolveConflict(req CorrectionRequest, threshold int) Resolution {
	if req.Delta() > threshold {
		return ResolutionManualReviewRequired
	}
	if req.IsAdminSourced() {
		return ResolutionAdminOverride
	}
	return ResolutionLatestWins
}
