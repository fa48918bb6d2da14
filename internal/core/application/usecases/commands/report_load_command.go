package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrReportLoadCommandIsNotConstructed = errors.New(
		"ReportLoadCommand must be created via NewReportLoadCommand constructor",
	)
	ErrDeltaIsInvalid = errors.New("loaded quantity must be greater than 0")
)

// ReportLoadCommand carries one loading event reported by an operator.
//
// The order is optional: without it the single order currently in progress
// receives the load.
//
// Example:
//
//	active, _ := NewReportLoadCommand(nil, flourID, 10)
//	explicit, _ := NewReportLoadCommand(&orderID, flourID, 10)
type ReportLoadCommand struct { //nolint:recvcheck //using for validation
	orderID *kernel.UUID
	itemID  kernel.UUID
	delta   int

	guard guard.ConstructorGuard
}

// NewReportLoadCommand creates a command reporting delta loaded units of itemID.
func NewReportLoadCommand(orderID *kernel.UUID, itemID kernel.UUID, delta int) (ReportLoadCommand, error) {
	var errs []error
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := itemID.Validate(); err != nil {
		errs = append(errs, ErrItemIsRequired)
	}
	if delta <= 0 {
		errs = append(errs, ErrDeltaIsInvalid)
	}
	if err := errors.Join(errs...); err != nil {
		return ReportLoadCommand{}, err
	}

	cmd := ReportLoadCommand{
		itemID: itemID,
		delta:  delta,
		guard:  guard.NewConstructorGuard(),
	}
	if orderID != nil {
		id := *orderID
		cmd.orderID = &id
	}
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportLoadCommand) Validate() error {
	return c.guard.Validate(ErrReportLoadCommandIsNotConstructed)
}

// OrderID returns the targeted order and whether one was given.
func (c ReportLoadCommand) OrderID() (kernel.UUID, bool) {
	if c.orderID == nil {
		return kernel.UUID{}, false
	}
	return *c.orderID, true
}

// ItemID returns the loaded item.
func (c ReportLoadCommand) ItemID() kernel.UUID {
	return c.itemID
}

// Delta returns the quantity loaded by this event.
func (c ReportLoadCommand) Delta() int {
	return c.delta
}
