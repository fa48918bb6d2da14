package operation

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrOperationIsNotConstructed is returned when an Operation was not created
// through one of its constructors.
var ErrOperationIsNotConstructed = errors.New("Operation must be created via NewOperation constructor")

// Kind tells whether stock left the warehouse or was loaded back into the ledger.
type Kind int

const (
	// KindUnknown is the zero value and is never persisted.
	KindUnknown Kind = iota
	// Load is a quantity reported by an operator for an order line.
	Load
	// Unload is a quantity reserved from stock by an order.
	Unload
)

var kindNames = map[Kind]string{
	Load:   "LOAD",
	Unload: "UNLOAD",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Validate rejects KindUnknown and values outside the enum.
func (k Kind) Validate() error {
	if _, ok := kindNames[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid operation kind", k))
	}
	return nil
}

// ParseKind converts a wire name back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a valid operation kind", s))
}

// Operation is an immutable entry of the stock movement log.
type Operation struct {
	id        kernel.UUID
	itemID    kernel.UUID
	orderID   kernel.UUID
	kind      Kind
	quantity  int
	timestamp time.Time

	guard guard.ConstructorGuard
}

// NewLoad records delta units loaded for itemID within orderID.
func NewLoad(itemID kernel.UUID, orderID kernel.UUID, delta int, now time.Time) (*Operation, error) {
	return RestoreOperation(kernel.NewUUID(), itemID, orderID, Load, delta, now)
}

// NewUnload records quantity units reserved from itemID by orderID.
func NewUnload(itemID kernel.UUID, orderID kernel.UUID, quantity int, now time.Time) (*Operation, error) {
	return RestoreOperation(kernel.NewUUID(), itemID, orderID, Unload, quantity, now)
}

// RestoreOperation rebuilds an Operation from persisted state.
func RestoreOperation(
	id kernel.UUID,
	itemID kernel.UUID,
	orderID kernel.UUID,
	kind Kind,
	quantity int,
	timestamp time.Time,
) (*Operation, error) {
	op := &Operation{
		timestamp: timestamp,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		op.setID(id),
		op.setItemID(itemID),
		op.setOrderID(orderID),
		op.setKind(kind),
		op.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return op, nil
}

// Validate ensures the Operation was built by one of its constructors.
func (o *Operation) Validate() error {
	if o == nil {
		return ErrOperationIsNotConstructed
	}
	return o.guard.Validate(ErrOperationIsNotConstructed)
}

func (o *Operation) ID() kernel.UUID {
	return o.id
}

func (o *Operation) ItemID() kernel.UUID {
	return o.itemID
}

// OrderID returns the order that caused the movement.
func (o *Operation) OrderID() kernel.UUID {
	return o.orderID
}

func (o *Operation) Kind() Kind {
	return o.kind
}

func (o *Operation) Quantity() int {
	return o.quantity
}

func (o *Operation) Timestamp() time.Time {
	return o.timestamp
}

func (o *Operation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Operation) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("itemId", err)
	}
	o.itemID = itemID
	return nil
}

func (o *Operation) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	o.orderID = orderID
	return nil
}

func (o *Operation) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	o.kind = kind
	return nil
}

func (o *Operation) setQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is less than 0", quantity))
	}
	o.quantity = quantity
	return nil
}
