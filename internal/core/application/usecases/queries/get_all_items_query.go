package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/guard"
)

var ErrGetAllItemsQueryIsNotConstructed = errors.New(
	"GetAllItemsQuery must be created via NewGetAllItemsQuery constructor",
)

// GetAllItemsQuery lists the inventory.
//
// Example:
//
//	query := NewGetAllItemsQuery()
//	handler := NewGetAllItemsQueryHandler(uowFactory)
//
//	items, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list items: %w", err)
//	}
//	for _, i := range items {
//	    fmt.Printf("%s: %d available\n", i.Name, i.AvailableQuantity)
//	}
type GetAllItemsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllItemsQuery creates a parameterless listing query.
func NewGetAllItemsQuery() GetAllItemsQuery {
	return GetAllItemsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAllItemsQuery) Validate() error {
	return q.guard.Validate(ErrGetAllItemsQueryIsNotConstructed)
}

// GetAllItemsQueryHandler serves GetAllItemsQuery.
type GetAllItemsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewGetAllItemsQueryHandler creates a handler for item listings.
func NewGetAllItemsQueryHandler(uowFactory ports.UnitOfWorkFactory) GetAllItemsQueryHandler {
	return GetAllItemsQueryHandler{uowFactory: uowFactory}
}

// Handle returns every item ordered by name.
func (h GetAllItemsQueryHandler) Handle(ctx context.Context, query GetAllItemsQuery) ([]ItemResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	items, err := h.uowFactory.Create().ItemRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		response = append(response, itemResponse(i))
	}
	return response, nil
}
