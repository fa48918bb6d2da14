package memory_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowFactory struct {
	factory *memory.UnitOfWorkFactory
}

func (f uowFactory) Create() commands.UoW { return f.factory.Create() }

type orderUoWFactory struct {
	factory *memory.UnitOfWorkFactory
}

func (f orderUoWFactory) Create() commands.OrderUoW { return f.factory.Create() }

type nopMetrics struct{}

func (nopMetrics) OrderCreated()                      {}
func (nopMetrics) OrderStatusChanged(string)          {}
func (nopMetrics) LoadReconciled(string, string, int) {}
func (nopMetrics) ReservationRejected(string)         {}
func (nopMetrics) ActiveOrderAge(time.Duration)       {}

func TestCreateOrder_ConcurrentReservationsNeverOverAllocate(t *testing.T) {
	ctx := t.Context()
	factory := newFactory()
	flour := mustItem(t, "Flour", 50)
	require.NoError(t, factory.Create().ItemRepository().Add(ctx, flour))

	handler := commands.NewCreateOrderCommandHandler(uowFactory{factory}, nopMetrics{})

	const attempts = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		refused  int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), []order.LineRequest{
				{ItemID: flour.ID(), Quantity: 10},
			})
			if !assert.NoError(t, err) {
				return
			}

			err = handler.Handle(ctx, cmd)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, item.ErrInsufficientStock):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, accepted)
	assert.Equal(t, attempts-5, refused)

	stored, err := factory.Create().ItemRepository().Get(ctx, flour.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableQuantity())
}

func TestTakeCharge_ConcurrentOrdersLeaveOneInProgress(t *testing.T) {
	ctx := t.Context()
	factory := newFactory()
	orders := factory.Create().OrderRepository()

	const candidates = 8
	ids := make([]kernel.UUID, 0, candidates)
	for range candidates {
		o := mustOrder(t, now, mustItem(t, "Item", 10))
		require.NoError(t, orders.Add(ctx, o))
		ids = append(ids, o.ID())
	}

	handler := commands.NewTakeChargeCommandHandler(orderUoWFactory{factory}, nopMetrics{})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewTakeChargeCommand(id)
			if !assert.NoError(t, err) {
				return
			}

			err = handler.Handle(ctx, cmd)
			if err != nil {
				assert.ErrorIs(t, err, order.ErrActiveOrderExists)
				return
			}
			mu.Lock()
			winners++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}
