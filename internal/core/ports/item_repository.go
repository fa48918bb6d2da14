// Package ports defines the persistence and observability contracts of the
// fulfillment core. Adapters under internal/adapters/out implement them.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
)

// ItemRepository defines the persistence contract for inventory items.
type ItemRepository interface {
	// Add persists a new item.
	Add(ctx context.Context, aggregate *item.Item) error

	// Update persists the name, quantities and timestamps of an existing item.
	Update(ctx context.Context, aggregate *item.Item) error

	// Delete removes an item. Returns errs.ErrObjectNotFound when it does not exist.
	Delete(ctx context.Context, id kernel.UUID) error

	// Get retrieves an item by identifier.
	// Returns errs.ErrObjectNotFound when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*item.Item, error)

	// GetAll retrieves every item ordered by name.
	GetAll(ctx context.Context) ([]*item.Item, error)

	// GetForUpdate retrieves the items with the given identifiers and locks
	// them until the end of the unit of work. Rows are locked in ascending
	// identifier order so that concurrent reservations cannot deadlock.
	// Identifiers without an item are silently skipped.
	//
	// Example:
	//   items, err := repo.GetForUpdate(ctx, []kernel.UUID{flourID, sugarID})
	//   if err != nil {
	//       return err
	//   }
	//   err = services.NewInventoryLedger().ReserveAll(items, requests, now)
	GetForUpdate(ctx context.Context, ids []kernel.UUID) ([]*item.Item, error)
}
