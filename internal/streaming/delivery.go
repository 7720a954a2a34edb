package streaming

import (
	"context"
	"fmt"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

// AlertSource streams alert-created events.
type AlertSource interface {
	SubscribeAlerts(ctx context.Context) (<-chan *AlertEvent, error)
}

// AlertStatusStore transitions an alert's delivery status.
type AlertStatusStore interface {
	UpdateStatus(ctx context.Context, id int64, status models.AlertStatus) error
}

// DeliveryWorker consumes alert events and marks the corresponding
// ledger rows SENT once they have been handed off. A failed status
// write leaves the row PENDING so the alert is never lost.
type DeliveryWorker struct {
	source AlertSource
	store  AlertStatusStore
	logger *logger.Logger
}

// NewDeliveryWorker creates a delivery worker.
func NewDeliveryWorker(source AlertSource, store AlertStatusStore, log *logger.Logger) *DeliveryWorker {
	return &DeliveryWorker{
		source: source,
		store:  store,
		logger: log.WithComponent("delivery"),
	}
}

// Run consumes events until the source channel closes or the context
// is done. Returns nil on a clean drain.
func (w *DeliveryWorker) Run(ctx context.Context) error {
	events, err := w.source.SubscribeAlerts(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to alerts: %w", err)
	}

	for event := range events {
		if err := w.store.UpdateStatus(ctx, event.AlertID, models.AlertSent); err != nil {
			w.logger.Error().Err(err).
				Int64("alert_id", event.AlertID).
				Str("user_id", event.UserID).
				Msg("failed to mark alert sent")
			continue
		}

		w.logger.Info().
			Int64("alert_id", event.AlertID).
			Str("user_id", event.UserID).
			Msg("alert delivered")
	}

	return nil
}
