package notification

import (
	"context"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
)

// LogNotifier writes notifications to the service log. Used when no webhook is configured.
type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger.Named("notify_log")}
}

func (n *LogNotifier) NotifyPointChange(ctx context.Context, notification cup.PointChangeNotification) error {
	args := []any{
		"user_id", notification.UserID,
		"betting_round_id", notification.BettingRoundID,
		"season_id", notification.SeasonID,
		"old_points", notification.OldPoints,
		"new_points", notification.NewPoints,
		"correction_type", notification.CorrectionType,
		"applied", notification.Applied,
		"reason", notification.Reason,
	}
	if notification.Conflict != nil {
		args = append(args, "conflict_type", notification.Conflict.ConflictType, "resolution", notification.Conflict.Resolution)
	}

	switch notification.Severity {
	case cup.SeverityError:
		n.logger.ErrorContext(ctx, "cup points change: "+notification.Message, args...)
	case cup.SeverityWarning:
		n.logger.WarnContext(ctx, "cup points change: "+notification.Message, args...)
	default:
		n.logger.InfoContext(ctx, "cup points change: "+notification.Message, args...)
	}
	return nil
}
