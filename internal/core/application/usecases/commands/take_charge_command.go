package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrTakeChargeCommandIsNotConstructed = errors.New(
	"TakeChargeCommand must be created via NewTakeChargeCommand constructor",
)

// TakeChargeCommand starts the loading of a CREATED order.
//
// Example:
//
//	cmd, err := NewTakeChargeCommand(orderID)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); errors.Is(err, order.ErrActiveOrderExists) {
//	    // another order is being loaded
//	}
type TakeChargeCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewTakeChargeCommand creates a command to take orderID in charge.
func NewTakeChargeCommand(orderID kernel.UUID) (TakeChargeCommand, error) {
	if err := orderID.Validate(); err != nil {
		return TakeChargeCommand{}, err
	}

	return TakeChargeCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TakeChargeCommand) Validate() error {
	return c.guard.Validate(ErrTakeChargeCommandIsNotConstructed)
}

// OrderID returns the order to take in charge.
func (c TakeChargeCommand) OrderID() kernel.UUID {
	return c.orderID
}
