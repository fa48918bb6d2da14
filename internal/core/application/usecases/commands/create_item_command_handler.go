package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/item"
)

// CreateItemCommandHandler registers new inventory items.
type CreateItemCommandHandler struct {
	uowFactory CatalogUoWFactory
}

// NewCreateItemCommandHandler creates a handler for item registration.
func NewCreateItemCommandHandler(uowFactory CatalogUoWFactory) CreateItemCommandHandler {
	return CreateItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle creates the item with stock equal to its quantity.
func (h *CreateItemCommandHandler) Handle(ctx context.Context, cmd CreateItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	i, err := item.NewItem(cmd.ItemID(), cmd.Name(), cmd.Quantity(), time.Now().UTC())
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

	if err = uow.ItemRepository().Add(ctx, i); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
