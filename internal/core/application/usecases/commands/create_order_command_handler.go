package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/operation"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// CreateOrderCommandHandler reserves stock and creates orders in CREATED status.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, metrics)
//	cmd, _ := NewCreateOrderCommand(kernel.NewUUID(), lines)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// every line is reserved and logged as an UNLOAD operation
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	ledger     services.InventoryLedger
	metrics    ports.FulfillmentMetrics
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, metrics ports.FulfillmentMetrics) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		ledger:     services.NewInventoryLedger(),
		metrics:    metrics,
	}
}

// Handle processes the order creation command in a single transaction.
// All referenced items are locked, the whole line set is reserved or nothing
// is, and one UNLOAD operation is logged per line.
//
// Returns an error wrapping item.ErrInsufficientStock or item.ErrUnknownItem
// when the reservation is refused. No state is changed in that case.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	o, err := order.NewOrder(cmd.OrderID(), cmd.Lines(), now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	itemRepo := uow.ItemRepository()
	items, err := itemRepo.GetForUpdate(ctx, cmd.ItemIDs())
	if err != nil {
		return err
	}

	if err = h.ledger.ReserveAll(items, cmd.Lines(), now); err != nil {
		h.recordRejection(err)
		return err
	}

	for _, i := range items {
		if err = itemRepo.Update(ctx, i); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	unloads := make([]*operation.Operation, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		op, opErr := operation.NewUnload(l.ItemID(), o.ID(), l.RequestedQuantity(), now)
		if opErr != nil {
			return opErr
		}
		unloads = append(unloads, op)
	}
	if len(unloads) > 0 {
		if err = uow.OperationRepository().Add(ctx, unloads...); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.metrics.OrderCreated()
	h.metrics.OrderStatusChanged(o.Status().String())
	return nil
}

func (h *CreateOrderCommandHandler) recordRejection(err error) {
	switch {
	case errors.Is(err, item.ErrInsufficientStock):
		h.metrics.ReservationRejected("insufficient_stock")
	case errors.Is(err, item.ErrUnknownItem):
		h.metrics.ReservationRejected("unknown_item")
	}
}
