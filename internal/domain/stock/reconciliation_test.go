package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backend/internal/domain/shared"
)

func newCountDoc(t *testing.T, counts []CountInput) *ReconciliationDocument {
	t.Helper()
	doc, err := NewReconciliationDocument(uuid.New(), uuid.New(), "CNT-20260901-0001", uuid.New(), counts)
	require.NoError(t, err)
	return doc
}

func TestNewReconciliationDocument(t *testing.T) {
	t.Run("creates pending document", func(t *testing.T) {
		doc := newCountDoc(t, []CountInput{{ProductID: uuid.New(), CountedQuantity: 5}})

		assert.Equal(t, ReconciliationPending, doc.Status)
		assert.True(t, doc.IsPending())
		require.Len(t, doc.Lines, 1)
		assert.Equal(t, int64(5), doc.Lines[0].CountedQuantity)
	})

	t.Run("counted zero is a valid line", func(t *testing.T) {
		doc := newCountDoc(t, []CountInput{{ProductID: uuid.New(), CountedQuantity: 0}})
		assert.Equal(t, int64(0), doc.Lines[0].CountedQuantity)
	})

	t.Run("rejects negative counts", func(t *testing.T) {
		_, err := NewReconciliationDocument(uuid.New(), uuid.New(), "CNT-20260901-0002", uuid.New(),
			[]CountInput{{ProductID: uuid.New(), CountedQuantity: -1}})
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("rejects empty line set", func(t *testing.T) {
		_, err := NewReconciliationDocument(uuid.New(), uuid.New(), "CNT-20260901-0003", uuid.New(), nil)
		assert.Error(t, err)
	})
}

func TestReconciliationRecordResultAndTotals(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	doc := newCountDoc(t, []CountInput{
		{ProductID: p1, CountedQuantity: 5},
		{ProductID: p2, CountedQuantity: 12},
	})

	doc.RecordResult(p1, 6, -1, decimal.NewFromInt(-3))
	doc.RecordResult(p2, 10, 2, decimal.NewFromInt(8))

	require.NoError(t, doc.Complete(uuid.New(), time.Now()))

	assert.Equal(t, int64(16), doc.TotalStock)
	assert.Equal(t, int64(17), doc.TotalReal)
	assert.True(t, doc.TotalMoneyDiff.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, ReconciliationComplete, doc.Status)
}

func TestReconciliationComplete(t *testing.T) {
	t.Run("second completion fails with invalid state", func(t *testing.T) {
		doc := newCountDoc(t, []CountInput{{ProductID: uuid.New(), CountedQuantity: 5}})
		require.NoError(t, doc.Complete(uuid.New(), time.Now()))

		err := doc.Complete(uuid.New(), time.Now())
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("lines frozen once complete", func(t *testing.T) {
		doc := newCountDoc(t, []CountInput{{ProductID: uuid.New(), CountedQuantity: 5}})
		require.NoError(t, doc.Complete(uuid.New(), time.Now()))

		err := doc.ReplaceLines([]CountInput{{ProductID: uuid.New(), CountedQuantity: 1}})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("emits completion event", func(t *testing.T) {
		doc := newCountDoc(t, []CountInput{{ProductID: uuid.New(), CountedQuantity: 5}})
		doc.ClearDomainEvents()

		require.NoError(t, doc.Complete(uuid.New(), time.Now()))

		events := doc.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeReconciliationCompleted, events[0].EventType())
	})
}

func TestReconciliationSortedLines(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")

	doc := newCountDoc(t, []CountInput{
		{ProductID: b, CountedQuantity: 1},
		{ProductID: a, CountedQuantity: 2},
	})

	sorted := doc.SortedLines()
	assert.Equal(t, a, sorted[0].ProductID)
	assert.Equal(t, b, sorted[1].ProductID)
}
