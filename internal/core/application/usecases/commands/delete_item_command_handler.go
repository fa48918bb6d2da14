package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/item"
)

// DeleteItemCommandHandler removes items from the catalog. Items referenced
// by an order line are kept, since their history belongs to that order.
type DeleteItemCommandHandler struct {
	uowFactory CatalogUoWFactory
}

// NewDeleteItemCommandHandler creates a handler for item deletion.
func NewDeleteItemCommandHandler(uowFactory CatalogUoWFactory) DeleteItemCommandHandler {
	return DeleteItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle deletes the item.
//
// Returns an error wrapping item.ErrUnknownItem when the item does not exist
// and item.ErrItemInUse when an order still references it.
func (h *DeleteItemCommandHandler) Handle(ctx context.Context, cmd DeleteItemCommand) error {
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

	repo := uow.ItemRepository()
	if _, err := lockItem(ctx, repo, cmd.ItemID()); err != nil {
		return err
	}

	inUse, err := uow.OrderRepository().ExistsWithItem(ctx, cmd.ItemID())
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: %s", item.ErrItemInUse, cmd.ItemID())
	}

	if err = repo.Delete(ctx, cmd.ItemID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
