package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
)

// UpdateItemCommandHandler changes the catalog data of an item.
type UpdateItemCommandHandler struct {
	uowFactory CatalogUoWFactory
}

// NewUpdateItemCommandHandler creates a handler for item updates.
func NewUpdateItemCommandHandler(uowFactory CatalogUoWFactory) UpdateItemCommandHandler {
	return UpdateItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle locks the item, applies the new name and reference quantity and
// persists it. Returns an error wrapping item.ErrUnknownItem when the item
// does not exist.
func (h *UpdateItemCommandHandler) Handle(ctx context.Context, cmd UpdateItemCommand) error {
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
	i, err := lockItem(ctx, repo, cmd.ItemID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = errors.Join(
		i.Rename(cmd.Name(), now),
		i.ChangeRequestedQuantity(cmd.Quantity(), now),
	); err != nil {
		return err
	}

	if err = repo.Update(ctx, i); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

type itemLocker interface {
	GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*item.Item, error)
}

func lockItem(ctx context.Context, repo itemLocker, id kernel.UUID) (*item.Item, error) {
	items, err := repo.GetForUpdate(ctx, []kernel.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", item.ErrUnknownItem, id)
	}
	return items[0], nil
}
