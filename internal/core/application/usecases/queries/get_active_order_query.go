package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetActiveOrderQueryIsNotConstructed = errors.New(
	"GetActiveOrderQuery must be created via NewGetActiveOrderQuery constructor",
)

// GetActiveOrderQuery reads the order currently in progress, if any.
type GetActiveOrderQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveOrderQuery creates a parameterless active order query.
func NewGetActiveOrderQuery() GetActiveOrderQuery {
	return GetActiveOrderQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrderQueryIsNotConstructed)
}

// GetActiveOrderQueryHandler serves GetActiveOrderQuery.
type GetActiveOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewGetActiveOrderQueryHandler creates a handler for active order queries.
func NewGetActiveOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetActiveOrderQueryHandler {
	return GetActiveOrderQueryHandler{uowFactory: uowFactory}
}

// Handle returns the order in progress and true, or false when no order is
// in progress.
func (h GetActiveOrderQueryHandler) Handle(ctx context.Context, query GetActiveOrderQuery) (OrderResponse, bool, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, false, err
	}

	o, err := h.uowFactory.Create().OrderRepository().GetInProgress(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return OrderResponse{}, false, nil
	}
	if err != nil {
		return OrderResponse{}, false, err
	}

	return orderResponse(o), true, nil
}
