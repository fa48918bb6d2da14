package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func newItem(t *testing.T, name string, quantity int) *item.Item {
	t.Helper()

	i, err := item.NewItem(kernel.NewUUID(), name, quantity, now)
	require.NoError(t, err)
	return i
}

func TestInventoryLedger_ReserveAll(t *testing.T) {
	ledger := services.NewInventoryLedger()

	t.Run("should reserve every line", func(t *testing.T) {
		flour, sugar := newItem(t, "Flour", 10), newItem(t, "Sugar", 20)

		err := ledger.ReserveAll([]*item.Item{flour, sugar}, []order.LineRequest{
			{ItemID: flour.ID(), Quantity: 4},
			{ItemID: sugar.ID(), Quantity: 20},
		}, now)

		require.NoError(t, err)
		assert.Equal(t, 6, flour.AvailableQuantity())
		assert.Equal(t, 0, sugar.AvailableQuantity())
	})

	t.Run("should reserve nothing when one line does not fit", func(t *testing.T) {
		flour, sugar := newItem(t, "Flour", 10), newItem(t, "Sugar", 5)

		err := ledger.ReserveAll([]*item.Item{flour, sugar}, []order.LineRequest{
			{ItemID: flour.ID(), Quantity: 4},
			{ItemID: sugar.ID(), Quantity: 6},
		}, now)

		require.ErrorIs(t, err, item.ErrInsufficientStock)
		assert.Equal(t, 10, flour.AvailableQuantity())
		assert.Equal(t, 5, sugar.AvailableQuantity())
	})

	t.Run("should sum quantities requested for the same item", func(t *testing.T) {
		flour := newItem(t, "Flour", 10)

		err := ledger.ReserveAll([]*item.Item{flour}, []order.LineRequest{
			{ItemID: flour.ID(), Quantity: 6},
			{ItemID: flour.ID(), Quantity: 6},
		}, now)

		require.ErrorIs(t, err, item.ErrInsufficientStock)
		assert.Equal(t, 10, flour.AvailableQuantity())
	})

	t.Run("should reject unknown items without mutation", func(t *testing.T) {
		flour := newItem(t, "Flour", 10)

		err := ledger.ReserveAll([]*item.Item{flour}, []order.LineRequest{
			{ItemID: flour.ID(), Quantity: 1},
			{ItemID: kernel.NewUUID(), Quantity: 1},
		}, now)

		require.ErrorIs(t, err, item.ErrUnknownItem)
		assert.Equal(t, 10, flour.AvailableQuantity())
	})

	t.Run("should reject negative quantity without mutation", func(t *testing.T) {
		flour, sugar := newItem(t, "Flour", 10), newItem(t, "Sugar", 10)

		err := ledger.ReserveAll([]*item.Item{flour, sugar}, []order.LineRequest{
			{ItemID: flour.ID(), Quantity: 1},
			{ItemID: sugar.ID(), Quantity: -1},
		}, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, 10, flour.AvailableQuantity())
	})

	t.Run("should reject items not built by constructor", func(t *testing.T) {
		err := ledger.ReserveAll([]*item.Item{{}}, nil, now)

		require.ErrorIs(t, err, item.ErrItemIsNotConstructed)
	})

	t.Run("available quantity never becomes negative", func(t *testing.T) {
		flour := newItem(t, "Flour", 7)
		request := []order.LineRequest{{ItemID: flour.ID(), Quantity: 3}}

		for range 5 {
			_ = ledger.ReserveAll([]*item.Item{flour}, request, now)
			assert.GreaterOrEqual(t, flour.AvailableQuantity(), 0)
		}
		assert.Equal(t, 1, flour.AvailableQuantity())
	})
}

func TestInventoryLedger_RecordLoad(t *testing.T) {
	ledger := services.NewInventoryLedger()

	t.Run("should restock loaded quantity", func(t *testing.T) {
		flour := newItem(t, "Flour", 10)
		require.NoError(t, ledger.ReserveAll([]*item.Item{flour}, []order.LineRequest{{ItemID: flour.ID(), Quantity: 10}}, now))

		require.NoError(t, ledger.RecordLoad(flour, 3, now))

		assert.Equal(t, 3, flour.LoadedQuantity())
		assert.Equal(t, 3, flour.AvailableQuantity())
	})

	t.Run("should reject missing item", func(t *testing.T) {
		require.ErrorIs(t, ledger.RecordLoad(nil, 3, now), item.ErrUnknownItem)
	})

	t.Run("should reject non positive delta", func(t *testing.T) {
		flour := newItem(t, "Flour", 10)

		require.ErrorIs(t, ledger.RecordLoad(flour, 0, now), errs.ErrValueIsInvalid)
		assert.Equal(t, 0, flour.LoadedQuantity())
	})
}
