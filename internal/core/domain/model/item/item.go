package item

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrItemIsNotConstructed is returned when an Item was not created through
	// NewItem or RestoreItem.
	ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

	// ErrInsufficientStock is returned when a reservation asks for more than the
	// available quantity. Nothing is mutated when it is returned.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrUnknownItem is returned when an operation references an item that does
	// not exist in the inventory ledger.
	ErrUnknownItem = errors.New("unknown item")

	// ErrItemInUse is returned when deleting an item still referenced by an order.
	ErrItemInUse = errors.New("item is referenced by an order")
)

// Item is the aggregate root for one inventory entry.
//
// Item follows these invariants:
//   - Must have a valid identifier and a non-blank name
//   - Requested and loaded quantities are never negative
//   - Available quantity never goes below zero as the result of Reserve
//   - UpdatedAt is never before CreatedAt and never moves backwards
type Item struct {
	id                kernel.UUID
	name              string
	requestedQuantity int
	availableQuantity int
	loadedQuantity    int
	createdAt         time.Time
	updatedAt         time.Time

	guard guard.ConstructorGuard
}

// NewItem registers a catalog item. The initial stock equals the reference
// quantity, so a fresh item can be reserved up to quantity units.
//
// Example:
//
//	flour, err := item.NewItem(kernel.NewUUID(), "Flour", 120, time.Now())
//	if err != nil {
//	    return err
//	}
//	flour.AvailableQuantity() // 120
func NewItem(id kernel.UUID, name string, quantity int, now time.Time) (*Item, error) {
	i := &Item{
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		i.setID(id),
		i.setName(name),
		i.setRequestedQuantity(quantity),
	); err != nil {
		return nil, err
	}

	i.availableQuantity = quantity
	return i, nil
}

// RestoreItem rebuilds an Item from persisted state. Quantities are revalidated.
func RestoreItem(
	id kernel.UUID,
	name string,
	requestedQuantity int,
	availableQuantity int,
	loadedQuantity int,
	createdAt time.Time,
	updatedAt time.Time,
) (*Item, error) {
	i := &Item{
		availableQuantity: availableQuantity,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		i.setID(id),
		i.setName(name),
		i.setRequestedQuantity(requestedQuantity),
		i.setLoadedQuantity(loadedQuantity),
	); err != nil {
		return nil, err
	}

	if updatedAt.Before(createdAt) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"updatedAt",
			fmt.Errorf("%s is before creation time %s", updatedAt, createdAt),
		)
	}

	return i, nil
}

// Validate ensures the Item was built by one of its constructors.
func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ID returns the item identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// Name returns the display name.
func (i *Item) Name() string {
	return i.name
}

// RequestedQuantity returns the reference quantity set by the catalog.
func (i *Item) RequestedQuantity() int {
	return i.requestedQuantity
}

// AvailableQuantity returns the quantity that can still be reserved.
func (i *Item) AvailableQuantity() int {
	return i.availableQuantity
}

// LoadedQuantity returns the cumulative quantity loaded against orders.
func (i *Item) LoadedQuantity() int {
	return i.loadedQuantity
}

// CreatedAt returns the creation time.
func (i *Item) CreatedAt() time.Time {
	return i.createdAt
}

// UpdatedAt returns the time of the last mutation.
func (i *Item) UpdatedAt() time.Time {
	return i.updatedAt
}

// CanReserve reports whether quantity units can be reserved without mutating
// the item. It returns a validation error for a negative quantity.
func (i *Item) CanReserve(quantity int) (bool, error) {
	if quantity < 0 {
		return false, errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is less than 0", quantity),
		)
	}
	return i.availableQuantity >= quantity, nil
}

// Reserve withdraws quantity units from the available stock.
//
// Returns:
//   - nil on success
//   - ErrInsufficientStock (wrapped) when available < quantity; the item is unchanged
//   - a validation error for a negative quantity
func (i *Item) Reserve(quantity int, now time.Time) error {
	ok, err := i.CanReserve(quantity)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: item %s has %d available, %d requested",
			ErrInsufficientStock, i.id, i.availableQuantity, quantity)
	}

	i.availableQuantity -= quantity
	i.touch(now)
	return nil
}

// RecordLoad registers that delta units were physically loaded. Both the loaded
// and the available quantities grow by delta. delta must be positive.
func (i *Item) RecordLoad(delta int, now time.Time) error {
	if delta <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"delta",
			fmt.Errorf("%d is not greater than 0", delta),
		)
	}

	i.loadedQuantity += delta
	i.availableQuantity += delta
	i.touch(now)
	return nil
}

// Rename changes the display name.
func (i *Item) Rename(name string, now time.Time) error {
	if err := i.setName(name); err != nil {
		return err
	}
	i.touch(now)
	return nil
}

// ChangeRequestedQuantity updates the catalog reference quantity. It does not
// affect reservations already made or the available stock.
func (i *Item) ChangeRequestedQuantity(quantity int, now time.Time) error {
	if err := i.setRequestedQuantity(quantity); err != nil {
		return err
	}
	i.touch(now)
	return nil
}

func (i *Item) touch(now time.Time) {
	if now.After(i.updatedAt) {
		i.updatedAt = now
	}
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = name
	return nil
}

func (i *Item) setRequestedQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is less than 0", quantity))
	}
	i.requestedQuantity = quantity
	return nil
}

func (i *Item) setLoadedQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("loadedQuantity", fmt.Errorf("%d is less than 0", quantity))
	}
	i.loadedQuantity = quantity
	return nil
}
