package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderFilter narrows order listings. Zero values do not filter.
type OrderFilter struct {
	// CreatedFrom keeps orders created at or after this instant.
	CreatedFrom time.Time
	// CreatedTo keeps orders created at or before this instant.
	CreatedTo time.Time
	// ItemIDs keeps orders having a line for any of these items.
	ItemIDs []kernel.UUID
}

// OrderRepository defines the persistence contract for order aggregates.
// Lines are always read and written together with their order.
type OrderRepository interface {
	// Add persists a new order with its lines.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the status, the cursor and the loaded quantities of an
	// existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by identifier.
	// Returns errs.ErrObjectNotFound when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks it until the end of the unit
	// of work, serialising every mutation of the same order.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetInProgress retrieves the single IN_PROGRESS order, locked like
	// GetForUpdate. Returns errs.ErrObjectNotFound when no order is in progress.
	GetInProgress(ctx context.Context) (*order.Order, error)

	// LockActiveSlot takes the process-wide lock guarding the single
	// IN_PROGRESS order. The lock is released when the unit of work ends.
	//
	// Example:
	//   if err := repo.LockActiveSlot(ctx); err != nil {
	//       return err
	//   }
	//   active, err := repo.GetInProgress(ctx)
	//   // no other unit of work can take an order in charge until commit
	LockActiveSlot(ctx context.Context) error

	// ExistsWithItem reports whether any order has a line for itemID.
	ExistsWithItem(ctx context.Context, itemID kernel.UUID) (bool, error)

	// Find retrieves the orders matching filter, newest first.
	Find(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
