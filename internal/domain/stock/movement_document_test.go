package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backend/internal/domain/shared"
)

func newInboundDoc(t *testing.T, lines []LineInput) *MovementDocument {
	t.Helper()
	doc, err := NewMovementDocument(uuid.New(), MovementInbound, SourceManual, uuid.New(), "IMP-20260901-0001", uuid.New(), lines)
	require.NoError(t, err)
	return doc
}

func TestNewMovementDocument(t *testing.T) {
	storeID := uuid.New()
	depotID := uuid.New()
	actor := uuid.New()

	t.Run("creates pending document with lines", func(t *testing.T) {
		productID := uuid.New()
		doc, err := NewMovementDocument(storeID, MovementInbound, SourceManual, depotID, "IMP-20260901-0001", actor,
			[]LineInput{{ProductID: productID, Quantity: 20}})
		require.NoError(t, err)

		assert.Equal(t, MovementPending, doc.Status)
		assert.Equal(t, "IMP-20260901-0001", doc.Code)
		require.Len(t, doc.Lines, 1)
		assert.Equal(t, DirectionIn, doc.Lines[0].Direction)
		assert.Equal(t, doc.ID, doc.Lines[0].DocumentID)
		assert.True(t, doc.IsPending())
	})

	t.Run("outbound lines default to out direction", func(t *testing.T) {
		doc, err := NewMovementDocument(storeID, MovementOutbound, SourceManual, depotID, "EXP-20260901-0001", actor,
			[]LineInput{{ProductID: uuid.New(), Quantity: 5}})
		require.NoError(t, err)
		assert.Equal(t, DirectionOut, doc.Lines[0].Direction)
	})

	t.Run("rejects non-positive line quantity", func(t *testing.T) {
		_, err := NewMovementDocument(storeID, MovementInbound, SourceManual, depotID, "IMP-20260901-0002", actor,
			[]LineInput{{ProductID: uuid.New(), Quantity: 0}})
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)

		_, err = NewMovementDocument(storeID, MovementInbound, SourceManual, depotID, "IMP-20260901-0002", actor,
			[]LineInput{{ProductID: uuid.New(), Quantity: -3}})
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("rejects empty line set", func(t *testing.T) {
		_, err := NewMovementDocument(storeID, MovementInbound, SourceManual, depotID, "IMP-20260901-0003", actor, nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewMovementDocument(storeID, MovementKind("TRANSFER"), SourceManual, depotID, "X-1", actor,
			[]LineInput{{ProductID: uuid.New(), Quantity: 1}})
		assert.Error(t, err)
	})
}

func TestMovementDocumentReplaceLines(t *testing.T) {
	t.Run("supersedes the previous line set", func(t *testing.T) {
		doc := newInboundDoc(t, []LineInput{{ProductID: uuid.New(), Quantity: 20}})

		p1, p2 := uuid.New(), uuid.New()
		require.NoError(t, doc.ReplaceLines([]LineInput{
			{ProductID: p1, Quantity: 3},
			{ProductID: p2, Quantity: 4},
		}))

		require.Len(t, doc.Lines, 2)
		assert.Equal(t, p1, doc.Lines[0].ProductID)
		assert.Equal(t, p2, doc.Lines[1].ProductID)
	})

	t.Run("fails once complete", func(t *testing.T) {
		doc := newInboundDoc(t, []LineInput{{ProductID: uuid.New(), Quantity: 20}})
		require.NoError(t, doc.Complete(MovementInbound, uuid.New(), time.Now()))

		err := doc.ReplaceLines([]LineInput{{ProductID: uuid.New(), Quantity: 1}})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestMovementDocumentComplete(t *testing.T) {
	actor := uuid.New()

	t.Run("flips to complete and records actor", func(t *testing.T) {
		doc := newInboundDoc(t, []LineInput{{ProductID: uuid.New(), Quantity: 20}})
		at := time.Now()

		require.NoError(t, doc.Complete(MovementInbound, actor, at))

		assert.Equal(t, MovementComplete, doc.Status)
		require.NotNil(t, doc.CompletedBy)
		assert.Equal(t, actor, *doc.CompletedBy)
		require.NotNil(t, doc.CompletedAt)
		assert.Equal(t, at, *doc.CompletedAt)
	})

	t.Run("second completion fails with invalid state", func(t *testing.T) {
		doc := newInboundDoc(t, []LineInput{{ProductID: uuid.New(), Quantity: 20}})
		require.NoError(t, doc.Complete(MovementInbound, actor, time.Now()))

		err := doc.Complete(MovementInbound, actor, time.Now())
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("kind mismatch fails with invalid state", func(t *testing.T) {
		doc := newInboundDoc(t, []LineInput{{ProductID: uuid.New(), Quantity: 20}})

		err := doc.Complete(MovementOutbound, actor, time.Now())

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Equal(t, MovementPending, doc.Status)
	})

	t.Run("emits completion event", func(t *testing.T) {
		doc := newInboundDoc(t, []LineInput{{ProductID: uuid.New(), Quantity: 20}})
		doc.ClearDomainEvents()

		require.NoError(t, doc.Complete(MovementInbound, actor, time.Now()))

		events := doc.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeMovementCompleted, events[0].EventType())
	})
}

func TestMovementDocumentSortedLines(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")
	c := uuid.MustParse("cccccccc-0000-0000-0000-000000000000")

	doc := newInboundDoc(t, []LineInput{
		{ProductID: c, Quantity: 1},
		{ProductID: a, Quantity: 1},
		{ProductID: b, Quantity: 1},
	})

	sorted := doc.SortedLines()
	require.Len(t, sorted, 3)
	assert.Equal(t, a, sorted[0].ProductID)
	assert.Equal(t, b, sorted[1].ProductID)
	assert.Equal(t, c, sorted[2].ProductID)

	// original order untouched
	assert.Equal(t, c, doc.Lines[0].ProductID)
}

func TestMovementDocumentSignedDelta(t *testing.T) {
	storeID := uuid.New()
	depotID := uuid.New()
	actor := uuid.New()

	inbound := newInboundDoc(t, []LineInput{{ProductID: uuid.New(), Quantity: 4}})
	assert.Equal(t, int64(4), inbound.SignedDelta(inbound.Lines[0]))

	outbound, err := NewMovementDocument(storeID, MovementOutbound, SourceManual, depotID, "EXP-20260901-0009", actor,
		[]LineInput{{ProductID: uuid.New(), Quantity: 4}})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), outbound.SignedDelta(outbound.Lines[0]))

	adjustment, err := NewMovementDocument(storeID, MovementAdjustment, SourceManual, depotID, "ADJ-20260901-0001", actor,
		[]LineInput{
			{ProductID: uuid.New(), Quantity: 2, Direction: DirectionIn},
			{ProductID: uuid.New(), Quantity: 3, Direction: DirectionOut},
		})
	require.NoError(t, err)
	assert.Equal(t, int64(2), adjustment.SignedDelta(adjustment.Lines[0]))
	assert.Equal(t, int64(-3), adjustment.SignedDelta(adjustment.Lines[1]))
}

func TestMovementDocumentSnapshotStock(t *testing.T) {
	productID := uuid.New()
	doc := newInboundDoc(t, []LineInput{{ProductID: productID, Quantity: 4}})

	doc.SnapshotStock(productID, 17)

	assert.Equal(t, int64(17), doc.Lines[0].StockAtCreation)
}

func TestMovementKindCodePrefix(t *testing.T) {
	assert.Equal(t, "IMP", MovementInbound.CodePrefix())
	assert.Equal(t, "EXP", MovementOutbound.CodePrefix())
	assert.Equal(t, "ADJ", MovementAdjustment.CodePrefix())
}

func TestFormatDocumentCode(t *testing.T) {
	day := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "IMP-20260901-0007", FormatDocumentCode("IMP", day, 7))
}
