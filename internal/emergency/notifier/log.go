package notifier

import (
	"context"
	"log/slog"

	"bloodlink/internal/emergency/models"
)

// LogNotifier records events in the service log. Used when no broker is
// configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyCreated(ctx context.Context, event models.Created) error {
	n.logger.InfoContext(ctx, "emergency notification",
		"event_type", EventCreated,
		"emergency_id", event.ID,
		"organization_id", event.OrganizationID,
		"blood_type", event.BloodType,
		"units_required", event.UnitsRequired,
		"urgency", event.Urgency,
	)
	return nil
}
