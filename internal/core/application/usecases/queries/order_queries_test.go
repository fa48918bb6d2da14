package queries_test

import (
	"testing"
	"time"

	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrderStatusQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	items := seedItems(t, factory, "Flour", "Sugar")
	h := queries.NewGetOrderStatusQueryHandler(factory)

	t.Run("created order has no report", func(t *testing.T) {
		o := seedOrder(t, factory, now, items...)
		query, err := queries.NewGetOrderStatusQuery(o.ID())
		require.NoError(t, err)

		got, err := h.Handle(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, order.Created, got.Status)
		assert.Empty(t, got.Report)
	})

	t.Run("completed order carries the report", func(t *testing.T) {
		o := seedOrder(t, factory, now, items...)
		require.NoError(t, o.TakeCharge(now))
		require.NoError(t, o.ApplyLoad(0, 10, now.Add(time.Minute)))
		require.NoError(t, o.ApplyLoad(1, 10, now.Add(2*time.Minute)))
		require.NoError(t, o.Complete(now.Add(2*time.Minute)))
		require.NoError(t, factory.Create().OrderRepository().Update(ctx, o))

		query, err := queries.NewGetOrderStatusQuery(o.ID())
		require.NoError(t, err)

		got, err := h.Handle(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, order.Completed, got.Status)
		require.Len(t, got.Report, 2)
		assert.Equal(t, 10, got.Report[1].Loaded)
		assert.Equal(t, 0, got.Report[1].Deviation)
	})

	t.Run("unknown order", func(t *testing.T) {
		query, err := queries.NewGetOrderStatusQuery(kernel.NewUUID())
		require.NoError(t, err)

		_, err = h.Handle(ctx, query)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

type storedOrder struct {
	status    order.Status
	updatedAt time.Time
	cursor    int
	loaded    []int
	touched   []time.Time
}

func snapshotOrder(t *testing.T, factory *memory.UnitOfWorkFactory, id kernel.UUID) storedOrder {
	t.Helper()
	o, err := factory.Create().OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)

	s := storedOrder{status: o.Status(), updatedAt: o.UpdatedAt(), cursor: o.HighestLoadedPosition()}
	for _, l := range o.Lines() {
		s.loaded = append(s.loaded, l.LoadedQuantity())
		s.touched = append(s.touched, l.UpdatedAt())
	}
	return s
}

func TestGetOrderStatusQueryHandler_IdempotentOnTerminalOrders(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	items := seedItems(t, factory, "Flour", "Sugar")
	h := queries.NewGetOrderStatusQueryHandler(factory)

	tests := map[string]struct {
		finish func(o *order.Order) error
		status order.Status
	}{
		"completed": {
			finish: func(o *order.Order) error {
				if err := o.ApplyLoad(0, 10, now.Add(time.Minute)); err != nil {
					return err
				}
				if err := o.ApplyLoad(1, 10, now.Add(2*time.Minute)); err != nil {
					return err
				}
				return o.Complete(now.Add(2 * time.Minute))
			},
			status: order.Completed,
		},
		"failed": {
			finish: func(o *order.Order) error {
				if err := o.ApplyLoad(0, 12, now.Add(time.Minute)); err != nil {
					return err
				}
				return o.Fail(now.Add(time.Minute))
			},
			status: order.Failed,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			o := seedOrder(t, factory, now, items...)
			require.NoError(t, o.TakeCharge(now))
			require.NoError(t, tt.finish(o))
			require.NoError(t, factory.Create().OrderRepository().Update(ctx, o))

			query, err := queries.NewGetOrderStatusQuery(o.ID())
			require.NoError(t, err)
			before := snapshotOrder(t, factory, o.ID())

			first, err := h.Handle(ctx, query)
			require.NoError(t, err)
			second, err := h.Handle(ctx, query)
			require.NoError(t, err)
			third, err := h.Handle(ctx, query)
			require.NoError(t, err)

			assert.Equal(t, tt.status, first.Status)
			assert.Equal(t, first, second)
			assert.Equal(t, first, third)
			assert.Equal(t, before, snapshotOrder(t, factory, o.ID()))
		})
	}
}

func TestGetOrdersQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	items := seedItems(t, factory, "Flour", "Sugar")
	older := seedOrder(t, factory, now, items[0])
	newer := seedOrder(t, factory, now.Add(time.Hour), items...)
	h := queries.NewGetOrdersQueryHandler(factory)

	t.Run("all orders newest first", func(t *testing.T) {
		query, err := queries.NewGetOrdersQuery(time.Time{}, time.Time{}, nil)
		require.NoError(t, err)

		got, err := h.Handle(ctx, query)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID(), got[0].ID)
		assert.Equal(t, older.ID(), got[1].ID)
		assert.Len(t, got[0].Lines, 2)
	})

	t.Run("filtered by item", func(t *testing.T) {
		query, err := queries.NewGetOrdersQuery(time.Time{}, time.Time{}, []kernel.UUID{items[1].ID()})
		require.NoError(t, err)

		got, err := h.Handle(ctx, query)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, newer.ID(), got[0].ID)
	})

	t.Run("filtered by creation time", func(t *testing.T) {
		query, err := queries.NewGetOrdersQuery(now.Add(time.Minute), time.Time{}, nil)
		require.NoError(t, err)

		got, err := h.Handle(ctx, query)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, newer.ID(), got[0].ID)
	})
}

func TestGetActiveOrderQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	items := seedItems(t, factory, "Flour")
	h := queries.NewGetActiveOrderQueryHandler(factory)

	_, found, err := h.Handle(ctx, queries.NewGetActiveOrderQuery())
	require.NoError(t, err)
	assert.False(t, found)

	o := seedOrder(t, factory, now, items...)
	require.NoError(t, o.TakeCharge(now))
	require.NoError(t, factory.Create().OrderRepository().Update(ctx, o))

	got, found, err := h.Handle(ctx, queries.NewGetActiveOrderQuery())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, o.ID(), got.ID)
	assert.Equal(t, order.InProgress, got.Status)
	assert.Equal(t, order.NoPosition, got.HighestLoadedPosition)
}
