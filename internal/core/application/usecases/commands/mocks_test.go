package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operation"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockItemRepository struct{ mock.Mock }

func (m *MockItemRepository) Add(ctx context.Context, i *item.Item) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, i *item.Item) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) Get(ctx context.Context, id kernel.UUID) (*item.Item, error) {
	args := m.Called(ctx, id)
	i, _ := args.Get(0).(*item.Item)
	return i, args.Error(1)
}

func (m *MockItemRepository) GetAll(ctx context.Context) ([]*item.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]*item.Item)
	return items, args.Error(1)
}

func (m *MockItemRepository) GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*item.Item, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]*item.Item)
	return items, args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetInProgress(ctx context.Context) (*order.Order, error) {
	args := m.Called(ctx)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) LockActiveSlot(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderRepository) ExistsWithItem(ctx context.Context, itemID kernel.UUID) (bool, error) {
	args := m.Called(ctx, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Find(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockOperationRepository struct{ mock.Mock }

func (m *MockOperationRepository) Add(ctx context.Context, operations ...*operation.Operation) error {
	args := m.Called(ctx, operations)
	return args.Error(0)
}

func (m *MockOperationRepository) FindByItem(
	ctx context.Context,
	itemID kernel.UUID,
	from, to time.Time,
) ([]*operation.Operation, error) {
	args := m.Called(ctx, itemID, from, to)
	ops, _ := args.Get(0).([]*operation.Operation)
	return ops, args.Error(1)
}

// MockUoW satisfies every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ItemRepository() ports.ItemRepository {
	args := m.Called()
	return args.Get(0).(ports.ItemRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) OperationRepository() ports.OperationRepository {
	args := m.Called()
	return args.Get(0).(ports.OperationRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCatalogUoWFactory struct{ mock.Mock }

func (m *MockCatalogUoWFactory) Create() commands.CatalogUoW {
	args := m.Called()
	return args.Get(0).(commands.CatalogUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) OrderCreated() {
	m.Called()
}

func (m *MockMetrics) OrderStatusChanged(status string) {
	m.Called(status)
}

func (m *MockMetrics) LoadReconciled(outcome string, reason string, delta int) {
	m.Called(outcome, reason, delta)
}

func (m *MockMetrics) ReservationRejected(reason string) {
	m.Called(reason)
}

func (m *MockMetrics) ActiveOrderAge(age time.Duration) {
	m.Called(age)
}

var created = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func mustItem(name string, quantity int) *item.Item {
	i, err := item.NewItem(kernel.NewUUID(), name, quantity, created)
	if err != nil {
		panic(err)
	}
	return i
}

func mustOrder(status order.Status, items ...*item.Item) *order.Order {
	requests := make([]order.LineRequest, 0, len(items))
	for _, i := range items {
		requests = append(requests, order.LineRequest{ItemID: i.ID(), Quantity: i.RequestedQuantity()})
	}

	o, err := order.NewOrder(kernel.NewUUID(), requests, created)
	if err != nil {
		panic(err)
	}
	if status == order.InProgress {
		if err = o.TakeCharge(created); err != nil {
			panic(err)
		}
	}
	return o
}
