package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTakeChargeMocks() (*MockOrderRepository, *MockUoW, *MockOrderUoWFactory, *MockMetrics) {
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()
	return repo, uow, factory, new(MockMetrics)
}

func TestTakeChargeCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o := mustOrder(order.Created, mustItem("Flour", 10))
	repo, uow, factory, metrics := newTakeChargeMocks()

	mock.InOrder(
		repo.On("LockActiveSlot", ctx).Return(nil).Once(),
		repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("GetInProgress", ctx).Return(nil, errs.NewObjectNotFoundError("order", "in progress")).Once(),
		repo.On("Update", ctx, o).Return(nil).Once(),
	)
	uow.On("Commit", ctx).Return(nil).Once()
	metrics.On("OrderStatusChanged", "IN_PROGRESS").Once()

	cmd, _ := commands.NewTakeChargeCommand(o.ID())
	h := commands.NewTakeChargeCommandHandler(factory, metrics)
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.InProgress, o.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestTakeChargeCommandHandler_Handle_ActiveOrderExists(t *testing.T) {
	ctx := t.Context()
	o := mustOrder(order.Created, mustItem("Flour", 10))
	active := mustOrder(order.InProgress, mustItem("Sugar", 10))
	repo, uow, factory, metrics := newTakeChargeMocks()

	repo.On("LockActiveSlot", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	repo.On("GetInProgress", ctx).Return(active, nil).Once()

	cmd, _ := commands.NewTakeChargeCommand(o.ID())
	h := commands.NewTakeChargeCommandHandler(factory, metrics)
	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrActiveOrderExists)
	assert.Equal(t, order.Created, o.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestTakeChargeCommandHandler_Handle_IllegalTransition(t *testing.T) {
	tests := []struct {
		name  string
		order *order.Order
	}{
		{"already in progress", mustOrder(order.InProgress, mustItem("Flour", 10))},
		{"without lines", mustOrder(order.Created)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			repo, _, factory, metrics := newTakeChargeMocks()
			repo.On("LockActiveSlot", ctx).Return(nil).Once()
			repo.On("GetForUpdate", ctx, tt.order.ID()).Return(tt.order, nil).Once()
			repo.On("GetInProgress", ctx).Return(nil, errs.NewObjectNotFoundError("order", "in progress")).Maybe()

			cmd, _ := commands.NewTakeChargeCommand(tt.order.ID())
			h := commands.NewTakeChargeCommandHandler(factory, metrics)
			err := h.Handle(ctx, cmd)

			require.ErrorIs(t, err, order.ErrIllegalTransition)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestTakeChargeCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	repo, _, factory, metrics := newTakeChargeMocks()
	repo.On("LockActiveSlot", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()

	cmd, _ := commands.NewTakeChargeCommand(id)
	h := commands.NewTakeChargeCommandHandler(factory, metrics)
	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestTakeChargeCommandHandler_Handle_LockError(t *testing.T) {
	ctx := t.Context()
	repo, _, factory, metrics := newTakeChargeMocks()
	repo.On("LockActiveSlot", ctx).Return(errors.New("lock timeout")).Once()

	cmd, _ := commands.NewTakeChargeCommand(kernel.NewUUID())
	h := commands.NewTakeChargeCommandHandler(factory, metrics)
	err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "lock timeout")
	repo.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}
