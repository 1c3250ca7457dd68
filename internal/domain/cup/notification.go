package cup

import (
	"context"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// PointChangeNotification describes one processed correction, applied or not.
type PointChangeNotification struct {
	UserID         string          `json:"userId"`
	BettingRoundID int64           `json:"bettingRoundId"`
	SeasonID       int64           `json:"seasonId,omitempty"`
	OldPoints      int             `json:"oldPoints"`
	NewPoints      int             `json:"newPoints"`
	Reason         string          `json:"reason"`
	CorrectionType CorrectionType  `json:"correctionType"`
	AdminUserID    string          `json:"adminUserId,omitempty"`
	Applied        bool            `json:"applied"`
	Severity       Severity        `json:"severity"`
	Message        string          `json:"message,omitempty"`
	Conflict       *ConflictRecord `json:"conflict,omitempty"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

// Notifier delivers point change notifications. Callers log and drop delivery errors.
type Notifier interface {
	NotifyPointChange(ctx context.Context, notification PointChangeNotification) error
}
