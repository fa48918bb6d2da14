package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// TakeChargeCommandHandler moves orders from CREATED to IN_PROGRESS while
// keeping at most one order in progress.
type TakeChargeCommandHandler struct {
	uowFactory OrderUoWFactory
	metrics    ports.FulfillmentMetrics
}

// NewTakeChargeCommandHandler creates a handler for take-charge operations.
func NewTakeChargeCommandHandler(uowFactory OrderUoWFactory, metrics ports.FulfillmentMetrics) TakeChargeCommandHandler {
	return TakeChargeCommandHandler{
		uowFactory: uowFactory,
		metrics:    metrics,
	}
}

// Handle takes the order in charge.
//
// The active-order slot is locked before the order itself, so two concurrent
// take-charge requests for different orders are serialised and the second
// one observes the first order IN_PROGRESS.
//
// Returns an error wrapping order.ErrIllegalTransition when the order is not
// CREATED or has no lines, order.ErrActiveOrderExists when another order is in
// progress, or errs.ErrObjectNotFound when the order does not exist.
func (h *TakeChargeCommandHandler) Handle(ctx context.Context, cmd TakeChargeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := takeCharge(ctx, uow.OrderRepository(), cmd.OrderID(), time.Now().UTC()); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.metrics.OrderStatusChanged(order.InProgress.String())
	return nil
}

func takeCharge(ctx context.Context, repo ports.OrderRepository, id kernel.UUID, now time.Time) error {
	if err := repo.LockActiveSlot(ctx); err != nil {
		return err
	}

	o, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return err
	}

	if o.Status() == order.Created {
		active, activeErr := repo.GetInProgress(ctx)
		switch {
		case activeErr == nil:
			return fmt.Errorf("%w: order %s is in progress", order.ErrActiveOrderExists, active.ID())
		case !errors.Is(activeErr, errs.ErrObjectNotFound):
			return activeErr
		}
	}

	if err = o.TakeCharge(now); err != nil {
		return err
	}

	return repo.Update(ctx, o)
}
