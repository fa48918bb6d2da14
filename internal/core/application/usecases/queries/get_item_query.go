package queries

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetItemQueryIsNotConstructed = errors.New(
	"GetItemQuery must be created via NewGetItemQuery constructor",
)

// GetItemQuery reads the current snapshot of one item.
type GetItemQuery struct {
	itemID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetItemQuery creates a query for itemID.
func NewGetItemQuery(itemID kernel.UUID) (GetItemQuery, error) {
	if err := itemID.Validate(); err != nil {
		return GetItemQuery{}, err
	}
	return GetItemQuery{itemID: itemID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetItemQuery) Validate() error {
	return q.guard.Validate(ErrGetItemQueryIsNotConstructed)
}

// GetItemQueryHandler serves GetItemQuery.
type GetItemQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewGetItemQueryHandler creates a handler for item snapshots.
func NewGetItemQueryHandler(uowFactory ports.UnitOfWorkFactory) GetItemQueryHandler {
	return GetItemQueryHandler{uowFactory: uowFactory}
}

// Handle returns the item, or an error wrapping item.ErrUnknownItem.
func (h GetItemQueryHandler) Handle(ctx context.Context, query GetItemQuery) (ItemResponse, error) {
	if err := query.Validate(); err != nil {
		return ItemResponse{}, err
	}

	i, err := h.uowFactory.Create().ItemRepository().Get(ctx, query.itemID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ItemResponse{}, fmt.Errorf("%w: %s", item.ErrUnknownItem, query.itemID)
	}
	if err != nil {
		return ItemResponse{}, err
	}

	return itemResponse(i), nil
}
