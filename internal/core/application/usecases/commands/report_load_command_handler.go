package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operation"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrNoActiveOrder is returned when a load names no order and none is in progress.
var ErrNoActiveOrder = errors.New("no order is in progress")

// ReportLoadResult is what a reported load did to its order.
type ReportLoadResult struct {
	OrderID kernel.UUID
	Outcome services.Outcome
	// Reason is set for rejected loads. It wraps services.ErrOutOfOrder,
	// services.ErrSequenceViolation or services.ErrToleranceExceeded.
	Reason error
	Status order.Status
	// Report is set when the load completed the order.
	Report []order.LineReport
}

// ReportLoadCommandHandler runs loading events through the reconciler.
//
// Example:
//
//	handler := NewReportLoadCommandHandler(uowFactory, reconciler, metrics)
//	cmd, _ := NewReportLoadCommand(nil, flourID, 10)
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err // nothing was changed
//	}
//	if result.Outcome == services.Rejected {
//	    // result.Status == order.Failed, the load is kept in the ledger
//	}
type ReportLoadCommandHandler struct {
	uowFactory UoWFactory
	reconciler services.LoadingReconciler
	metrics    ports.FulfillmentMetrics
}

// NewReportLoadCommandHandler creates a handler for loading events.
func NewReportLoadCommandHandler(
	uowFactory UoWFactory,
	reconciler services.LoadingReconciler,
	metrics ports.FulfillmentMetrics,
) ReportLoadCommandHandler {
	return ReportLoadCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
		metrics:    metrics,
	}
}

// Handle applies the load in one transaction: the order and the item are
// locked, reconciled, persisted, and a LOAD operation is appended whatever
// the outcome.
//
// A rejected load is not an error: the order failing is the committed result
// and is described by ReportLoadResult. Errors mean nothing was changed:
// ErrNoActiveOrder, errs.ErrObjectNotFound for an unknown order,
// item.ErrUnknownItem, or order.ErrIllegalTransition for an order that is not
// in progress.
func (h *ReportLoadCommandHandler) Handle(ctx context.Context, cmd ReportLoadCommand) (ReportLoadResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReportLoadResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ReportLoadResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := h.resolveOrder(ctx, orderRepo, cmd)
	if err != nil {
		return ReportLoadResult{}, err
	}

	itemRepo := uow.ItemRepository()
	i, err := lockItem(ctx, itemRepo, cmd.ItemID())
	if err != nil {
		return ReportLoadResult{}, err
	}

	now := time.Now().UTC()
	rec, err := h.reconciler.Reconcile(o, i, cmd.Delta(), now)
	if err != nil {
		return ReportLoadResult{}, err
	}

	if rec.Applied {
		if err = itemRepo.Update(ctx, i); err != nil {
			return ReportLoadResult{}, err
		}
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return ReportLoadResult{}, err
	}

	load, err := operation.NewLoad(i.ID(), o.ID(), cmd.Delta(), now)
	if err != nil {
		return ReportLoadResult{}, err
	}
	if err = uow.OperationRepository().Add(ctx, load); err != nil {
		return ReportLoadResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ReportLoadResult{}, err
	}

	h.metrics.LoadReconciled(rec.Outcome.String(), rejectionCode(rec.Reason), cmd.Delta())
	if o.Status() != order.InProgress {
		h.metrics.OrderStatusChanged(o.Status().String())
	}

	return ReportLoadResult{
		OrderID: o.ID(),
		Outcome: rec.Outcome,
		Reason:  rec.Reason,
		Status:  o.Status(),
		Report:  rec.Report,
	}, nil
}

func (h *ReportLoadCommandHandler) resolveOrder(
	ctx context.Context,
	repo ports.OrderRepository,
	cmd ReportLoadCommand,
) (*order.Order, error) {
	if id, ok := cmd.OrderID(); ok {
		return repo.GetForUpdate(ctx, id)
	}

	o, err := repo.GetInProgress(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, ErrNoActiveOrder
	}
	return o, err
}

func rejectionCode(reason error) string {
	switch {
	case reason == nil:
		return ""
	case errors.Is(reason, services.ErrOutOfOrder):
		return "out_of_order"
	case errors.Is(reason, services.ErrSequenceViolation):
		return "sequence_violation"
	case errors.Is(reason, services.ErrToleranceExceeded):
		return "tolerance_exceeded"
	default:
		return "other"
	}
}
