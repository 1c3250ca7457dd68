package usecase

import (
	"context"

	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
)

type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) NotifyPointChange(context.Context, cup.PointChangeNotification) error {
	return nil
}
