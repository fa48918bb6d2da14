package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemIsRequired = errors.New("item is required")
)

// CreateOrderCommand represents a request to reserve items for a new order.
// The line order is the mandatory loading sequence.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, []order.LineRequest{
//	    {ItemID: flourID, Quantity: 10},
//	    {ItemID: sugarID, Quantity: 20},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, metrics)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    // errors.Is(err, item.ErrInsufficientStock): nothing was reserved
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	lines   []order.LineRequest

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates the order ID and every line. Duplicate items are refused when the
// order is built.
func NewCreateOrderCommand(orderID kernel.UUID, lines []order.LineRequest) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Lines returns a copy of the requested lines in sequence order.
func (c CreateOrderCommand) Lines() []order.LineRequest {
	lines := make([]order.LineRequest, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// ItemIDs returns the distinct items referenced by the lines.
func (c CreateOrderCommand) ItemIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(c.lines))
	ids := make([]kernel.UUID, 0, len(c.lines))
	for _, l := range c.lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		ids = append(ids, l.ItemID)
	}
	return ids
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []order.LineRequest) error {
	var lineErrs []error
	for n, l := range lines {
		if l.ItemID.Validate() != nil {
			lineErrs = append(lineErrs, fmt.Errorf("line %d: %w", n, ErrItemIsRequired))
		}
		if l.Quantity < 0 {
			lineErrs = append(lineErrs, fmt.Errorf("line %d: %w", n, ErrQuantityIsNegative))
		}
	}
	if err := errors.Join(lineErrs...); err != nil {
		return err
	}

	c.lines = lines
	return nil
}
