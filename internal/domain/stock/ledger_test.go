package stock

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backend/internal/domain/shared"
)

func newLocation(t *testing.T) *StockLocation {
	t.Helper()
	location, err := NewStockLocation(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return location
}

func TestLedgerApplyInbound(t *testing.T) {
	ledger := NewLedger()

	t.Run("increases quantity and clears out-of-stock", func(t *testing.T) {
		location := newLocation(t)
		location.OutOfStock = true

		require.NoError(t, ledger.ApplyInbound(location, 20))

		assert.Equal(t, int64(20), location.Quantity)
		assert.False(t, location.OutOfStock)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		location := newLocation(t)

		err := ledger.ApplyInbound(location, 0)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)

		err = ledger.ApplyInbound(location, -5)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
		assert.Equal(t, int64(0), location.Quantity)
	})
}

func TestLedgerApplyOutbound(t *testing.T) {
	ledger := NewLedger()

	t.Run("decreases quantity", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 10))

		require.NoError(t, ledger.ApplyOutbound(location, 4))

		assert.Equal(t, int64(6), location.Quantity)
		assert.False(t, location.OutOfStock)
	})

	t.Run("flags out-of-stock at zero", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 3))

		require.NoError(t, ledger.ApplyOutbound(location, 3))

		assert.Equal(t, int64(0), location.Quantity)
		assert.True(t, location.OutOfStock)
	})

	t.Run("fails when quantity would go negative", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 3))

		err := ledger.ApplyOutbound(location, 4)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(3), location.Quantity)
		assert.False(t, location.OutOfStock)
	})
}

func TestLedgerApplyAdjustment(t *testing.T) {
	ledger := NewLedger()

	t.Run("positive delta behaves like inbound", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyAdjustment(location, 7))
		assert.Equal(t, int64(7), location.Quantity)
	})

	t.Run("negative delta behaves like outbound", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 7))

		require.NoError(t, ledger.ApplyAdjustment(location, -2))
		assert.Equal(t, int64(5), location.Quantity)

		err := ledger.ApplyAdjustment(location, -6)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(5), location.Quantity)
	})

	t.Run("zero is a no-op", func(t *testing.T) {
		location := newLocation(t)
		versionBefore := location.GetVersion()

		require.NoError(t, ledger.ApplyAdjustment(location, 0))

		assert.Equal(t, int64(0), location.Quantity)
		assert.Equal(t, versionBefore, location.GetVersion())
	})
}

func TestLedgerReserve(t *testing.T) {
	ledger := NewLedger()

	t.Run("strict reservation caps at sellable stock", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 10))

		require.NoError(t, ledger.Reserve(location, 4, true))
		assert.Equal(t, int64(4), location.Pending)
		assert.Equal(t, int64(6), location.Sellable())

		err := ledger.Reserve(location, 7, true)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(4), location.Pending)
	})

	t.Run("loose reservation oversells without a ceiling", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 2))

		require.NoError(t, ledger.Reserve(location, 50, false))

		assert.Equal(t, int64(50), location.Pending)
		assert.Equal(t, int64(-48), location.Sellable())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		location := newLocation(t)
		err := ledger.Reserve(location, 0, false)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestLedgerRelease(t *testing.T) {
	ledger := NewLedger()

	t.Run("drops the reservation", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 10))
		require.NoError(t, ledger.Reserve(location, 4, true))

		require.NoError(t, ledger.Release(location, 4))

		assert.Equal(t, int64(0), location.Pending)
		assert.Equal(t, int64(10), location.Quantity)
	})

	t.Run("clamps pending at zero", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 10))
		require.NoError(t, ledger.Reserve(location, 2, true))

		require.NoError(t, ledger.Release(location, 5))

		assert.Equal(t, int64(0), location.Pending)
	})
}

func TestLedgerPinCounted(t *testing.T) {
	ledger := NewLedger()

	t.Run("converges quantity to the counted value", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 6))

		diff, err := ledger.PinCounted(location, 5)
		require.NoError(t, err)

		assert.Equal(t, int64(-1), diff)
		assert.Equal(t, int64(5), location.Quantity)
		assert.False(t, location.OutOfStock)
	})

	t.Run("counted above book behaves like inbound", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 3))

		diff, err := ledger.PinCounted(location, 9)
		require.NoError(t, err)

		assert.Equal(t, int64(6), diff)
		assert.Equal(t, int64(9), location.Quantity)
	})

	t.Run("counted zero flags out-of-stock", func(t *testing.T) {
		location := newLocation(t)
		require.NoError(t, ledger.ApplyInbound(location, 3))

		diff, err := ledger.PinCounted(location, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(-3), diff)
		assert.True(t, location.OutOfStock)
	})

	t.Run("rejects negative counts", func(t *testing.T) {
		location := newLocation(t)
		_, err := ledger.PinCounted(location, -1)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestStockLocationEvents(t *testing.T) {
	ledger := NewLedger()
	location := newLocation(t)

	require.NoError(t, ledger.ApplyInbound(location, 5))
	require.NoError(t, ledger.Reserve(location, 2, true))
	require.NoError(t, ledger.Release(location, 2))
	require.NoError(t, ledger.ApplyOutbound(location, 5))

	events := location.GetDomainEvents()
	require.Len(t, events, 5)
	assert.Equal(t, EventTypeStockReceived, events[0].EventType())
	assert.Equal(t, EventTypeStockReserved, events[1].EventType())
	assert.Equal(t, EventTypeStockReleased, events[2].EventType())
	assert.Equal(t, EventTypeStockRemoved, events[3].EventType())
	assert.Equal(t, EventTypeStockDepleted, events[4].EventType())

	location.ClearDomainEvents()
	assert.Empty(t, location.GetDomainEvents())
}

func TestDomainErrorCodes(t *testing.T) {
	var domainErr *shared.DomainError

	err := NewLedger().ApplyOutbound(newLocation(t), 1)
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
}
