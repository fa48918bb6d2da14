package memory

import (
	"context"
	"fmt"
	"sort"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ItemRepository implements ports.ItemRepository on a Store.
type ItemRepository struct {
	uow *UnitOfWork
}

// Add saves a new item. Adding an existing id fails.
func (r *ItemRepository) Add(_ context.Context, aggregate *item.Item) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.uow.do(func(v view) error {
		if _, exists := v.item(aggregate.ID()); exists {
			return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("item %s already exists", aggregate.ID()))
		}
		stored, err := cloneItem(aggregate)
		if err != nil {
			return err
		}
		v.putItem(stored)
		return nil
	})
}

// Update saves an existing item.
func (r *ItemRepository) Update(_ context.Context, aggregate *item.Item) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.uow.do(func(v view) error {
		if _, exists := v.item(aggregate.ID()); !exists {
			return errs.NewObjectNotFoundError("item", aggregate.ID().String())
		}
		stored, err := cloneItem(aggregate)
		if err != nil {
			return err
		}
		v.putItem(stored)
		return nil
	})
}

// Delete removes an item.
func (r *ItemRepository) Delete(_ context.Context, id kernel.UUID) error {
	return r.uow.do(func(v view) error {
		if _, exists := v.item(id); !exists {
			return errs.NewObjectNotFoundError("item", id.String())
		}
		v.deleteItem(id)
		return nil
	})
}

// Get retrieves an item by ID.
func (r *ItemRepository) Get(_ context.Context, id kernel.UUID) (*item.Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var found *item.Item
	err := r.uow.do(func(v view) error {
		i, ok := v.item(id)
		if !ok {
			return errs.NewObjectNotFoundError("item", id.String())
		}
		var err error
		found, err = cloneItem(i)
		return err
	})
	return found, err
}

// GetAll retrieves every item ordered by name.
func (r *ItemRepository) GetAll(_ context.Context) ([]*item.Item, error) {
	var items []*item.Item
	err := r.uow.do(func(v view) error {
		all := v.allItems()
		items = make([]*item.Item, 0, len(all))
		for _, i := range all {
			c, err := cloneItem(i)
			if err != nil {
				return err
			}
			items = append(items, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortItems(items)
	return items, nil
}

// GetForUpdate retrieves the given items in ascending id order. The store
// lock held by the unit of work already excludes concurrent writers.
func (r *ItemRepository) GetForUpdate(_ context.Context, ids []kernel.UUID) ([]*item.Item, error) {
	sorted := make([]kernel.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Compare(sorted[b]) < 0 })

	var items []*item.Item
	err := r.uow.do(func(v view) error {
		items = make([]*item.Item, 0, len(sorted))
		for n, id := range sorted {
			if n > 0 && id.IsEqual(sorted[n-1]) {
				continue
			}
			i, ok := v.item(id)
			if !ok {
				continue
			}
			c, err := cloneItem(i)
			if err != nil {
				return err
			}
			items = append(items, c)
		}
		return nil
	})
	return items, err
}
