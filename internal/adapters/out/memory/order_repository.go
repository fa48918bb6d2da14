package memory

import (
	"context"
	"fmt"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// OrderRepository implements ports.OrderRepository on a Store.
type OrderRepository struct {
	uow *UnitOfWork
}

// Add saves a new order.
func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.uow.do(func(v view) error {
		if _, exists := v.order(aggregate.ID()); exists {
			return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("order %s already exists", aggregate.ID()))
		}
		return r.put(v, aggregate)
	})
}

// Update saves an existing order.
func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.uow.do(func(v view) error {
		if _, exists := v.order(aggregate.ID()); !exists {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return r.put(v, aggregate)
	})
}

// put enforces a single IN_PROGRESS order, as the unique index does in Postgres.
func (r *OrderRepository) put(v view, aggregate *order.Order) error {
	if aggregate.Status() == order.InProgress {
		for _, o := range v.allOrders() {
			if o.Status() == order.InProgress && !o.IsEqual(aggregate) {
				return fmt.Errorf("%w: order %s is in progress", order.ErrActiveOrderExists, o.ID())
			}
		}
	}

	stored, err := cloneOrder(aggregate)
	if err != nil {
		return err
	}
	v.putOrder(stored)
	return nil
}

// Get retrieves an order by ID.
func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var found *order.Order
	err := r.uow.do(func(v view) error {
		o, ok := v.order(id)
		if !ok {
			return errs.NewObjectNotFoundError("order", id.String())
		}
		var err error
		found, err = cloneOrder(o)
		return err
	})
	return found, err
}

// GetForUpdate is Get; the unit of work already holds the store lock.
func (r *OrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

// GetInProgress retrieves the order with IN_PROGRESS status.
func (r *OrderRepository) GetInProgress(_ context.Context) (*order.Order, error) {
	var found *order.Order
	err := r.uow.do(func(v view) error {
		for _, o := range v.allOrders() {
			if o.Status() == order.InProgress {
				var err error
				found, err = cloneOrder(o)
				return err
			}
		}
		return errs.NewObjectNotFoundError("order", "in progress")
	})
	return found, err
}

// LockActiveSlot is satisfied by the store lock of a begun unit of work.
func (r *OrderRepository) LockActiveSlot(_ context.Context) error {
	return nil
}

// ExistsWithItem reports whether any order has a line for itemID.
func (r *OrderRepository) ExistsWithItem(_ context.Context, itemID kernel.UUID) (bool, error) {
	var exists bool
	err := r.uow.do(func(v view) error {
		for _, o := range v.allOrders() {
			if _, ok := o.LineForItem(itemID); ok {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

// Find retrieves the orders matching filter, newest first.
func (r *OrderRepository) Find(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	var orders []*order.Order
	err := r.uow.do(func(v view) error {
		for _, o := range v.allOrders() {
			if !matches(o, filter) {
				continue
			}
			c, err := cloneOrder(o)
			if err != nil {
				return err
			}
			orders = append(orders, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(orders, func(a, b int) bool {
		if !orders[a].CreatedAt().Equal(orders[b].CreatedAt()) {
			return orders[a].CreatedAt().After(orders[b].CreatedAt())
		}
		return orders[a].ID().Compare(orders[b].ID()) < 0
	})
	return orders, nil
}

func matches(o *order.Order, filter ports.OrderFilter) bool {
	if !filter.CreatedFrom.IsZero() && o.CreatedAt().Before(filter.CreatedFrom) {
		return false
	}
	if !filter.CreatedTo.IsZero() && o.CreatedAt().After(filter.CreatedTo) {
		return false
	}
	if len(filter.ItemIDs) == 0 {
		return true
	}
	for _, id := range filter.ItemIDs {
		if _, ok := o.LineForItem(id); ok {
			return true
		}
	}
	return false
}
