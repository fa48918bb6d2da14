package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderStatusQueryIsNotConstructed = errors.New(
	"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
)

// GetOrderStatusQuery reads the status of an order and, once completed, its
// fulfillment report.
//
// Example:
//
//	query, _ := NewGetOrderStatusQuery(orderID)
//	status, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	if status.Status == order.Completed {
//	    for _, line := range status.Report {
//	        fmt.Printf("%s deviated by %d in %s\n", line.ItemID, line.Deviation, line.Elapsed)
//	    }
//	}
type GetOrderStatusQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderStatusQuery creates a status query for orderID.
func NewGetOrderStatusQuery(orderID kernel.UUID) (GetOrderStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderStatusQuery{}, err
	}
	return GetOrderStatusQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

// GetOrderStatusQueryResponse carries the status and, for completed orders,
// the per-line report recomputed from the stored lines.
type GetOrderStatusQueryResponse struct {
	OrderID kernel.UUID
	Status  order.Status
	Report  []order.LineReport
}

// GetOrderStatusQueryHandler serves GetOrderStatusQuery.
type GetOrderStatusQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewGetOrderStatusQueryHandler creates a handler for order status queries.
func NewGetOrderStatusQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderStatusQueryHandler {
	return GetOrderStatusQueryHandler{uowFactory: uowFactory}
}

// Handle returns the order status. Returns errs.ErrObjectNotFound when the
// order does not exist.
func (h GetOrderStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatusQuery,
) (GetOrderStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, query.orderID)
	if err != nil {
		return GetOrderStatusQueryResponse{}, err
	}

	response := GetOrderStatusQueryResponse{
		OrderID: o.ID(),
		Status:  o.Status(),
	}
	if o.Status() == order.Completed {
		response.Report = o.Report()
	}
	return response, nil
}
