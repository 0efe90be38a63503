package stock

import (
	"github.com/shopcore/backend/internal/domain/shared"
)

// Ledger is the single choke point that mutates quantity and pending on a
// StockLocation. Services never touch the counters directly; every path —
// movement documents, reconciliation, order hooks — converges here so the
// non-negativity rules are enforced in one place.
//
// The ledger itself is stateless. Callers are responsible for loading the
// location under a row-level lock and saving it within the same transaction.
type Ledger struct{}

// NewLedger creates a new stock ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// ApplyInbound adds received stock. Never fails the non-negativity
// invariant; clears the out-of-stock flag once quantity is positive.
func (g *Ledger) ApplyInbound(location *StockLocation, amount int64) error {
	return location.addStock(amount)
}

// ApplyOutbound removes shipped stock. Fails with INSUFFICIENT_STOCK when
// on-hand quantity is lower than the requested amount.
func (g *Ledger) ApplyOutbound(location *StockLocation, amount int64) error {
	return location.removeStock(amount)
}

// ApplyAdjustment routes a signed delta to inbound or outbound. Zero is a
// no-op.
func (g *Ledger) ApplyAdjustment(location *StockLocation, signedAmount int64) error {
	switch {
	case signedAmount > 0:
		return location.addStock(signedAmount)
	case signedAmount < 0:
		return location.removeStock(-signedAmount)
	default:
		return nil
	}
}

// Reserve claims stock for an open order. Strict products fail with
// INSUFFICIENT_STOCK when the amount exceeds sellable stock; loose
// products may oversell without a ceiling.
func (g *Ledger) Reserve(location *StockLocation, amount int64, strict bool) error {
	return location.reserve(amount, strict)
}

// Release drops an order reservation, clamping pending at zero.
func (g *Ledger) Release(location *StockLocation, amount int64) error {
	return location.release(amount)
}

// PinCounted reconciles book quantity to a physically counted value.
// The signed difference is pushed through ApplyAdjustment so the usual
// guards and events fire, then the counted figure is pinned as the
// authoritative post-state. Returns the applied difference.
func (g *Ledger) PinCounted(location *StockLocation, counted int64) (int64, error) {
	if counted < 0 {
		return 0, shared.ErrInvalidQuantity
	}

	diff := counted - location.Quantity
	if diff != 0 {
		if err := g.ApplyAdjustment(location, diff); err != nil {
			return 0, err
		}
	}
	if err := location.pinQuantity(counted); err != nil {
		return 0, err
	}
	return diff, nil
}
