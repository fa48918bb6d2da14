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

type loadingFixture struct {
	order *order.Order
	items []*item.Item
}

// newLoadingFixture creates one item per quantity, reserves them by a new
// order and takes the order in charge.
func newLoadingFixture(t *testing.T, quantities ...int) loadingFixture {
	t.Helper()

	f := loadingFixture{}
	requests := make([]order.LineRequest, 0, len(quantities))
	for _, q := range quantities {
		i := newItem(t, "Item", q)
		f.items = append(f.items, i)
		requests = append(requests, order.LineRequest{ItemID: i.ID(), Quantity: q})
	}

	require.NoError(t, services.NewInventoryLedger().ReserveAll(f.items, requests, now))

	o, err := order.NewOrder(kernel.NewUUID(), requests, now)
	require.NoError(t, err)
	require.NoError(t, o.TakeCharge(now))
	f.order = o
	return f
}

func newReconciler(t *testing.T, tolerance string) services.LoadingReconciler {
	t.Helper()

	p, err := kernel.PercentFromString(tolerance)
	require.NoError(t, err)
	r, err := services.NewLoadingReconciler(p)
	require.NoError(t, err)
	return r
}

func TestNewLoadingReconciler(t *testing.T) {
	_, err := services.NewLoadingReconciler(kernel.Percent{})

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestLoadingReconciler_Tolerance(t *testing.T) {
	reconciler := newReconciler(t, services.DefaultTolerance)

	t.Run("deviation within tolerance is accepted", func(t *testing.T) {
		f := newLoadingFixture(t, 100, 10)

		result, err := reconciler.Reconcile(f.order, f.items[0], 104, now)

		require.NoError(t, err)
		assert.Equal(t, services.Accepted, result.Outcome)
		assert.True(t, result.Applied)
		assert.Equal(t, order.InProgress, f.order.Status())
		assert.Equal(t, 104, f.order.Lines()[0].LoadedQuantity())
	})

	t.Run("deviation equal to tolerance is accepted", func(t *testing.T) {
		f := newLoadingFixture(t, 100, 10)

		result, err := reconciler.Reconcile(f.order, f.items[0], 95, now)

		require.NoError(t, err)
		assert.Equal(t, services.Accepted, result.Outcome)
	})

	t.Run("deviation above tolerance fails the order and keeps the load", func(t *testing.T) {
		f := newLoadingFixture(t, 100)

		result, err := reconciler.Reconcile(f.order, f.items[0], 106, now)

		require.NoError(t, err)
		assert.Equal(t, services.Rejected, result.Outcome)
		require.ErrorIs(t, result.Reason, services.ErrToleranceExceeded)
		assert.True(t, result.Applied)
		assert.Equal(t, order.Failed, f.order.Status())
		assert.Equal(t, 106, f.order.Lines()[0].LoadedQuantity())
		assert.Equal(t, 106, f.items[0].LoadedQuantity())
		assert.Equal(t, 106, f.items[0].AvailableQuantity())
	})

	t.Run("partial load far below request is rejected", func(t *testing.T) {
		f := newLoadingFixture(t, 100)

		result, err := reconciler.Reconcile(f.order, f.items[0], 50, now)

		require.NoError(t, err)
		require.ErrorIs(t, result.Reason, services.ErrToleranceExceeded)
	})

	t.Run("zero tolerance requires exact loads", func(t *testing.T) {
		f := newLoadingFixture(t, 100)

		result, err := newReconciler(t, "0").Reconcile(f.order, f.items[0], 101, now)

		require.NoError(t, err)
		require.ErrorIs(t, result.Reason, services.ErrToleranceExceeded)
	})

	t.Run("line requesting nothing never exceeds tolerance", func(t *testing.T) {
		f := newLoadingFixture(t, 0, 10)

		result, err := reconciler.Reconcile(f.order, f.items[0], 1000, now)

		require.NoError(t, err)
		assert.Equal(t, services.Accepted, result.Outcome)
		assert.Equal(t, order.InProgress, f.order.Status())
	})
}

func TestLoadingReconciler_Sequence(t *testing.T) {
	reconciler := newReconciler(t, services.DefaultTolerance)

	t.Run("item outside the order fails the order", func(t *testing.T) {
		f := newLoadingFixture(t, 10)
		stranger := newItem(t, "Stranger", 10)

		result, err := reconciler.Reconcile(f.order, stranger, 1, now)

		require.NoError(t, err)
		assert.Equal(t, services.Rejected, result.Outcome)
		require.ErrorIs(t, result.Reason, services.ErrOutOfOrder)
		assert.False(t, result.Applied)
		assert.Equal(t, order.Failed, f.order.Status())
		assert.Equal(t, 0, stranger.LoadedQuantity())
	})

	t.Run("going backward fails the order regardless of deviation", func(t *testing.T) {
		f := newLoadingFixture(t, 10, 20)
		_, err := reconciler.Reconcile(f.order, f.items[1], 20, now)
		require.NoError(t, err)
		require.Equal(t, order.InProgress, f.order.Status())

		// the late load would complete the order exactly
		result, err := reconciler.Reconcile(f.order, f.items[0], 10, now)

		require.NoError(t, err)
		assert.Equal(t, services.Rejected, result.Outcome)
		require.ErrorIs(t, result.Reason, services.ErrSequenceViolation)
		assert.False(t, result.Applied)
		assert.Equal(t, order.Failed, f.order.Status())
		assert.Equal(t, 0, f.order.Lines()[0].LoadedQuantity())
		assert.Equal(t, 0, f.items[0].LoadedQuantity())
	})

	t.Run("repeating the current position is allowed", func(t *testing.T) {
		f := newLoadingFixture(t, 100, 20)
		_, err := reconciler.Reconcile(f.order, f.items[0], 98, now)
		require.NoError(t, err)

		result, err := reconciler.Reconcile(f.order, f.items[0], 2, now)

		require.NoError(t, err)
		assert.Equal(t, services.Accepted, result.Outcome)
		assert.Equal(t, 100, f.order.Lines()[0].LoadedQuantity())
		assert.Equal(t, 0, f.order.HighestLoadedPosition())
	})
}

func TestLoadingReconciler_Completion(t *testing.T) {
	reconciler := newReconciler(t, services.DefaultTolerance)

	t.Run("two lines complete once both are loaded exactly", func(t *testing.T) {
		f := newLoadingFixture(t, 10, 20)

		first, err := reconciler.Reconcile(f.order, f.items[0], 10, now.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, services.Accepted, first.Outcome)
		assert.Equal(t, order.InProgress, f.order.Status())

		second, err := reconciler.Reconcile(f.order, f.items[1], 20, now.Add(3*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, services.Completed, second.Outcome)
		assert.Equal(t, order.Completed, f.order.Status())

		require.Len(t, second.Report, 2)
		assert.Equal(t, 0, second.Report[0].Deviation)
		assert.Equal(t, time.Minute, second.Report[0].Elapsed)
		assert.Equal(t, 0, second.Report[1].Deviation)
		assert.Equal(t, 3*time.Minute, second.Report[1].Elapsed)
	})

	t.Run("line within tolerance but not exact keeps the order open", func(t *testing.T) {
		f := newLoadingFixture(t, 100)

		result, err := reconciler.Reconcile(f.order, f.items[0], 104, now)

		require.NoError(t, err)
		assert.Equal(t, services.Accepted, result.Outcome)
		assert.Nil(t, result.Report)
	})

	t.Run("lines requesting nothing do not block completion", func(t *testing.T) {
		f := newLoadingFixture(t, 10, 0)

		result, err := reconciler.Reconcile(f.order, f.items[0], 10, now)

		require.NoError(t, err)
		assert.Equal(t, services.Completed, result.Outcome)
	})
}

func TestLoadingReconciler_Errors(t *testing.T) {
	reconciler := newReconciler(t, services.DefaultTolerance)

	t.Run("order not in progress", func(t *testing.T) {
		i := newItem(t, "Flour", 10)
		o, err := order.NewOrder(kernel.NewUUID(), []order.LineRequest{{ItemID: i.ID(), Quantity: 10}}, now)
		require.NoError(t, err)

		_, err = reconciler.Reconcile(o, i, 1, now)

		require.ErrorIs(t, err, order.ErrIllegalTransition)
		assert.Equal(t, order.Created, o.Status())
		assert.Equal(t, 0, i.LoadedQuantity())
	})

	t.Run("terminal order is never mutated", func(t *testing.T) {
		f := newLoadingFixture(t, 10)
		_, err := reconciler.Reconcile(f.order, f.items[0], 10, now)
		require.NoError(t, err)
		require.Equal(t, order.Completed, f.order.Status())

		_, err = reconciler.Reconcile(f.order, f.items[0], 1, now)

		require.ErrorIs(t, err, order.ErrIllegalTransition)
		assert.Equal(t, 10, f.items[0].LoadedQuantity())
	})

	t.Run("missing item", func(t *testing.T) {
		f := newLoadingFixture(t, 10)

		_, err := reconciler.Reconcile(f.order, nil, 1, now)

		require.ErrorIs(t, err, item.ErrUnknownItem)
		assert.Equal(t, order.InProgress, f.order.Status())
	})

	t.Run("non positive delta", func(t *testing.T) {
		f := newLoadingFixture(t, 10)

		_, err := reconciler.Reconcile(f.order, f.items[0], 0, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.InProgress, f.order.Status())
	})
}
