package queries

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

// GetOrdersQuery lists orders created within a time range and, optionally,
// referencing some items.
type GetOrdersQuery struct {
	filter ports.OrderFilter

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates a listing query. Zero times and an empty item
// list do not filter.
func NewGetOrdersQuery(from, to time.Time, itemIDs []kernel.UUID) (GetOrdersQuery, error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return GetOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("from", ErrRangeIsInvalid)
	}
	for _, id := range itemIDs {
		if err := id.Validate(); err != nil {
			return GetOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("itemId", err)
		}
	}

	ids := make([]kernel.UUID, len(itemIDs))
	copy(ids, itemIDs)
	return GetOrdersQuery{
		filter: ports.OrderFilter{CreatedFrom: from, CreatedTo: to, ItemIDs: ids},
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// GetOrdersQueryHandler serves GetOrdersQuery.
type GetOrdersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewGetOrdersQueryHandler creates a handler for order listings.
func NewGetOrdersQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{uowFactory: uowFactory}
}

// Handle returns the matching orders, newest first.
func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.uowFactory.Create().OrderRepository().Find(ctx, query.filter)
	if err != nil {
		return nil, err
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, orderResponse(o))
	}
	return response, nil
}
