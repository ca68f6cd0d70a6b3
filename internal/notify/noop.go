package notify

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// NoOpNotifier accepts alerts without delivering them. Threshold alerts
// still show up in the server log, so a deployment without email or
// Discord loses nothing but the push.
type NoOpNotifier struct {
	log       *slog.Logger
	discarded atomic.Int64
}

// NewNoOpNotifier returns a notifier that only logs.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendAlert implements Notifier.
func (n *NoOpNotifier) SendAlert(_ context.Context, alert *AlertPayload) error {
	n.discarded.Add(1)
	n.log.Info("threshold alert not delivered, no notifier configured",
		"subject", alert.Subject(),
		"email", alert.Email,
	)
	return nil
}

// SendBatchAlert implements Notifier.
func (n *NoOpNotifier) SendBatchAlert(ctx context.Context, alerts []AlertPayload) error {
	for i := range alerts {
		_ = n.SendAlert(ctx, &alerts[i])
	}
	return nil
}

// Discarded reports how many alerts have been dropped.
func (n *NoOpNotifier) Discarded() int64 {
	return n.discarded.Load()
}
