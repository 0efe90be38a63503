package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLogHandler_ReceivesAllEvents(t *testing.T) {
	h := NewAuditLogHandler(zap.NewNop(), NewEventSerializer())
	assert.Empty(t, h.EventTypes())
}

func TestAuditLogHandler_LogsSerializedEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	serializer := NewEventSerializer()
	h := NewAuditLogHandler(zap.New(core), serializer)

	storeID := uuid.New()
	event := newTestEvent("AuditedEvent", storeID)

	err := h.Handle(context.Background(), event)
	require.NoError(t, err)

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "AuditedEvent", fields["event_type"])
	assert.Equal(t, storeID.String(), fields["store_id"])
	payload, ok := fields["payload"].(string)
	require.True(t, ok)
	assert.Contains(t, payload, "test data")
}

func TestAuditLogHandler_WildcardDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer func() { _ = bus.Stop(context.Background()) }()

	core, logs := observer.New(zap.InfoLevel)
	h := NewAuditLogHandler(zap.New(core), NewEventSerializer())
	bus.Subscribe(h)

	storeID := uuid.New()
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("FirstEvent", storeID)))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("SecondEvent", storeID)))

	assert.Len(t, logs.FilterMessage("domain event").All(), 2)
}
