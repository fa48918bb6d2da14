package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrLineIsNotConstructed is returned when a Line was not created through
// NewLine or RestoreLine.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Line is one item-quantity pair of an order. Lines are owned by the Order
// aggregate and only mutated through it.
type Line struct {
	id                kernel.UUID
	itemID            kernel.UUID
	position          int
	requestedQuantity int
	loadedQuantity    int
	updatedAt         time.Time

	guard guard.ConstructorGuard
}

// NewLine creates an untouched line at position with the requested quantity snapshot.
func NewLine(id kernel.UUID, itemID kernel.UUID, position int, requestedQuantity int, now time.Time) (*Line, error) {
	return RestoreLine(id, itemID, position, requestedQuantity, 0, now)
}

// RestoreLine rebuilds a Line from persisted state.
func RestoreLine(
	id kernel.UUID,
	itemID kernel.UUID,
	position int,
	requestedQuantity int,
	loadedQuantity int,
	updatedAt time.Time,
) (*Line, error) {
	l := &Line{
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		l.setID(id),
		l.setItemID(itemID),
		l.setPosition(position),
		l.setRequestedQuantity(requestedQuantity),
		l.setLoadedQuantity(loadedQuantity),
	); err != nil {
		return nil, err
	}

	return l, nil
}

// Validate ensures the Line was built by one of its constructors.
func (l *Line) Validate() error {
	if l == nil {
		return ErrLineIsNotConstructed
	}
	return l.guard.Validate(ErrLineIsNotConstructed)
}

// ID returns the line identifier.
func (l *Line) ID() kernel.UUID {
	return l.id
}

// ItemID returns the referenced inventory item.
func (l *Line) ItemID() kernel.UUID {
	return l.itemID
}

// Position returns the 0-based place of the line in the loading sequence.
func (l *Line) Position() int {
	return l.position
}

// RequestedQuantity returns the quantity fixed when the order was created.
func (l *Line) RequestedQuantity() int {
	return l.requestedQuantity
}

// LoadedQuantity returns the quantity loaded so far.
func (l *Line) LoadedQuantity() int {
	return l.loadedQuantity
}

// UpdatedAt returns the time of the last load, or the order creation time.
func (l *Line) UpdatedAt() time.Time {
	return l.updatedAt
}

// IsSatisfied reports whether the loaded quantity matches the request exactly.
// A line requesting nothing is satisfied by definition.
func (l *Line) IsSatisfied() bool {
	return l.requestedQuantity == 0 || l.loadedQuantity == l.requestedQuantity
}

// Deviation returns loaded minus requested quantity.
func (l *Line) Deviation() int {
	return l.loadedQuantity - l.requestedQuantity
}

// DeviationPercent returns |loaded - requested| / requested * 100, 0 for a
// line requesting nothing.
func (l *Line) DeviationPercent() kernel.Percent {
	return kernel.RelativeDeviation(l.loadedQuantity, l.requestedQuantity)
}

func (l *Line) load(delta int, now time.Time) {
	l.loadedQuantity += delta
	if now.After(l.updatedAt) {
		l.updatedAt = now
	}
}

func (l *Line) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Line) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("itemId", err)
	}
	l.itemID = itemID
	return nil
}

func (l *Line) setPosition(position int) error {
	if position < 0 {
		return errs.NewValueIsInvalidErrorWithCause("position", fmt.Errorf("%d is less than 0", position))
	}
	l.position = position
	return nil
}

func (l *Line) setRequestedQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is less than 0", quantity))
	}
	l.requestedQuantity = quantity
	return nil
}

func (l *Line) setLoadedQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("loadedQuantity", fmt.Errorf("%d is less than 0", quantity))
	}
	l.loadedQuantity = quantity
	return nil
}
