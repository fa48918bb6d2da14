package services

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// InventoryLedger reserves and restocks inventory items on behalf of orders.
//
// Business rules:
//   - A reservation covers every line of an order or none of them
//   - Available quantity never becomes negative because of a reservation
//   - Lines asking for the same item are summed before checking stock
//
// Example usage:
//
//	ledger := services.NewInventoryLedger()
//	if err := ledger.ReserveAll(lockedItems, requests, time.Now()); err != nil {
//	    // errors.Is(err, item.ErrInsufficientStock) or item.ErrUnknownItem,
//	    // lockedItems are unchanged
//	    return err
//	}
type InventoryLedger struct{}

// NewInventoryLedger creates a new InventoryLedger instance.
func NewInventoryLedger() InventoryLedger {
	return InventoryLedger{}
}

// ReserveAll checks every request against items and, only when all of them
// fit, decrements the available quantity of each referenced item.
//
// Parameters:
//   - items: the locked snapshots of every item referenced by requests
//   - requests: the order lines to reserve
//   - now: the mutation time recorded on touched items
//
// Returns:
//   - error: wrapping item.ErrUnknownItem for a request without a matching item,
//     item.ErrInsufficientStock when the summed quantity of an item exceeds its
//     stock, or a validation error. No item is mutated when an error is returned.
func (l InventoryLedger) ReserveAll(items []*item.Item, requests []order.LineRequest, now time.Time) error {
	byID := make(map[kernel.UUID]*item.Item, len(items))
	for _, i := range items {
		if err := i.Validate(); err != nil {
			return err
		}
		byID[i.ID()] = i
	}

	totals := make(map[kernel.UUID]int, len(requests))
	ids := make([]kernel.UUID, 0, len(requests))
	for _, r := range requests {
		if _, ok := byID[r.ItemID]; !ok {
			return fmt.Errorf("%w: %s", item.ErrUnknownItem, r.ItemID)
		}
		if _, seen := totals[r.ItemID]; !seen {
			ids = append(ids, r.ItemID)
		}
		totals[r.ItemID] += r.Quantity
	}

	for _, id := range ids {
		ok, err := byID[id].CanReserve(totals[id])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: item %s has %d available, %d requested",
				item.ErrInsufficientStock, id, byID[id].AvailableQuantity(), totals[id])
		}
	}

	for _, id := range ids {
		if err := byID[id].Reserve(totals[id], now); err != nil {
			return err
		}
	}

	return nil
}

// RecordLoad adds delta to the loaded and available quantity of i.
//
// Returns an error wrapping item.ErrUnknownItem when i is nil, or a validation
// error for a non positive delta.
func (l InventoryLedger) RecordLoad(i *item.Item, delta int, now time.Time) error {
	if i == nil {
		return item.ErrUnknownItem
	}
	if err := i.Validate(); err != nil {
		return err
	}
	return i.RecordLoad(delta, now)
}
