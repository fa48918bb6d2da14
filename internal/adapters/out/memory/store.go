// Package memory provides an in-process implementation of the persistence
// ports, selected with STORAGE_DRIVER=memory and used by tests.
//
// A begun unit of work holds the store lock until Commit or Rollback, so units
// of work are fully serialised. Writes are staged and only reach the store on
// Commit. Repositories used without Begin take the lock for a single call,
// which is how queries read.
//
// Aggregates are copied on every read and write. Callers never share state
// with the store or with each other.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operation"
	"fulfillment/internal/core/domain/model/order"
)

// Store is the shared state behind every unit of work of a process.
type Store struct {
	mu         sync.Mutex
	items      map[kernel.UUID]*item.Item
	orders     map[kernel.UUID]*order.Order
	operations []*operation.Operation
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		items:  make(map[kernel.UUID]*item.Item),
		orders: make(map[kernel.UUID]*order.Order),
	}
}

// changes are the writes staged by a begun unit of work.
type changes struct {
	items        map[kernel.UUID]*item.Item
	deletedItems map[kernel.UUID]struct{}
	orders       map[kernel.UUID]*order.Order
	operations   []*operation.Operation
}

func newChanges() *changes {
	return &changes{
		items:        make(map[kernel.UUID]*item.Item),
		deletedItems: make(map[kernel.UUID]struct{}),
		orders:       make(map[kernel.UUID]*order.Order),
	}
}

func (c *changes) applyTo(s *Store) {
	for id := range c.deletedItems {
		delete(s.items, id)
	}
	for id, i := range c.items {
		s.items[id] = i
	}
	for id, o := range c.orders {
		s.orders[id] = o
	}
	s.operations = append(s.operations, c.operations...)
}

// view reads the store through staged changes. staged is nil outside of a
// transaction, in which case writes go straight to the store.
type view struct {
	store  *Store
	staged *changes
}

func (v view) item(id kernel.UUID) (*item.Item, bool) {
	if v.staged != nil {
		if _, deleted := v.staged.deletedItems[id]; deleted {
			return nil, false
		}
		if i, ok := v.staged.items[id]; ok {
			return i, true
		}
	}
	i, ok := v.store.items[id]
	return i, ok
}

func (v view) putItem(i *item.Item) {
	if v.staged == nil {
		v.store.items[i.ID()] = i
		return
	}
	delete(v.staged.deletedItems, i.ID())
	v.staged.items[i.ID()] = i
}

func (v view) deleteItem(id kernel.UUID) {
	if v.staged == nil {
		delete(v.store.items, id)
		return
	}
	delete(v.staged.items, id)
	v.staged.deletedItems[id] = struct{}{}
}

func (v view) allItems() []*item.Item {
	items := make([]*item.Item, 0, len(v.store.items))
	for id := range v.store.items {
		if i, ok := v.item(id); ok {
			items = append(items, i)
		}
	}
	if v.staged != nil {
		for id, i := range v.staged.items {
			if _, inStore := v.store.items[id]; !inStore {
				items = append(items, i)
			}
		}
	}
	return items
}

func (v view) order(id kernel.UUID) (*order.Order, bool) {
	if v.staged != nil {
		if o, ok := v.staged.orders[id]; ok {
			return o, true
		}
	}
	o, ok := v.store.orders[id]
	return o, ok
}

func (v view) putOrder(o *order.Order) {
	if v.staged == nil {
		v.store.orders[o.ID()] = o
		return
	}
	v.staged.orders[o.ID()] = o
}

func (v view) allOrders() []*order.Order {
	orders := make([]*order.Order, 0, len(v.store.orders))
	for id := range v.store.orders {
		o, _ := v.order(id)
		orders = append(orders, o)
	}
	if v.staged != nil {
		for id, o := range v.staged.orders {
			if _, inStore := v.store.orders[id]; !inStore {
				orders = append(orders, o)
			}
		}
	}
	return orders
}

func (v view) addOperations(ops ...*operation.Operation) {
	if v.staged == nil {
		v.store.operations = append(v.store.operations, ops...)
		return
	}
	v.staged.operations = append(v.staged.operations, ops...)
}

func (v view) allOperations() []*operation.Operation {
	if v.staged == nil {
		return v.store.operations
	}
	all := make([]*operation.Operation, 0, len(v.store.operations)+len(v.staged.operations))
	all = append(all, v.store.operations...)
	return append(all, v.staged.operations...)
}

func sortItems(items []*item.Item) {
	sort.Slice(items, func(a, b int) bool {
		if items[a].Name() != items[b].Name() {
			return items[a].Name() < items[b].Name()
		}
		return items[a].ID().Compare(items[b].ID()) < 0
	})
}

func cloneItem(i *item.Item) (*item.Item, error) {
	return item.RestoreItem(
		i.ID(),
		i.Name(),
		i.RequestedQuantity(),
		i.AvailableQuantity(),
		i.LoadedQuantity(),
		i.CreatedAt(),
		i.UpdatedAt(),
	)
}

func cloneOrder(o *order.Order) (*order.Order, error) {
	lines := make([]*order.Line, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		line, err := order.RestoreLine(l.ID(), l.ItemID(), l.Position(), l.RequestedQuantity(), l.LoadedQuantity(), l.UpdatedAt())
		if err != nil {
			return nil, fmt.Errorf("clone order %s: %w", o.ID(), err)
		}
		lines = append(lines, line)
	}
	return order.RestoreOrder(o.ID(), o.Status(), o.HighestLoadedPosition(), o.CreatedAt(), o.UpdatedAt(), lines)
}
