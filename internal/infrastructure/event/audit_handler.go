package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/domain/shared"
)

// AuditLogHandler writes every published domain event to the structured
// log as serialized JSON, giving operators a flat trail of stock changes.
type AuditLogHandler struct {
	logger     *zap.Logger
	serializer *EventSerializer
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger, serializer *EventSerializer) *AuditLogHandler {
	return &AuditLogHandler{
		logger:     logger,
		serializer: serializer,
	}
}

// EventTypes returns an empty slice: the audit log receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle serializes the event and logs it. Serialization failures are
// logged but never fail the publish path.
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	payload, err := h.serializer.Serialize(event)
	if err != nil {
		h.logger.Warn("failed to serialize event for audit log",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("store_id", event.StoreID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
		zap.ByteString("payload", payload),
	)
	return nil
}
