package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ChangeOrderStatusCommandHandler applies manual status changes.
//
// Business rules:
//   - IN_PROGRESS goes through the take-charge admission of a single active order
//   - FAILED aborts an order in progress
//   - COMPLETED closes an order in progress whose lines are all within tolerance
//   - every other change is an illegal transition
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	tolerance  kernel.Percent
	metrics    ports.FulfillmentMetrics
}

// NewChangeOrderStatusCommandHandler creates a handler for manual status changes.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	tolerance kernel.Percent,
	metrics ports.FulfillmentMetrics,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		tolerance:  tolerance,
		metrics:    metrics,
	}
}

// Handle changes the order status and returns the resulting status.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	now := time.Now().UTC()

	if cmd.Target() == order.InProgress {
		if err := takeCharge(ctx, repo, cmd.OrderID(), now); err != nil {
			return order.Unknown, err
		}
	} else {
		o, err := repo.GetForUpdate(ctx, cmd.OrderID())
		if err != nil {
			return order.Unknown, err
		}

		if err = h.apply(o, cmd.Target(), now); err != nil {
			return o.Status(), err
		}

		if err = repo.Update(ctx, o); err != nil {
			return order.Unknown, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	h.metrics.OrderStatusChanged(cmd.Target().String())
	return cmd.Target(), nil
}

func (h *ChangeOrderStatusCommandHandler) apply(o *order.Order, target order.Status, now time.Time) error {
	switch target {
	case order.Failed:
		return o.Fail(now)
	case order.Completed:
		return o.CloseWithinTolerance(h.tolerance, now)
	default:
		_, err := order.Transition(o.Status(), target)
		return err
	}
}
