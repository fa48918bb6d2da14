package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateItemCommandIsNotConstructed = errors.New(
		"CreateItemCommand must be created via NewCreateItemCommand constructor",
	)
	ErrNameIsRequired     = errors.New("name is required")
	ErrQuantityIsNegative = errors.New("quantity must not be negative")
)

// CreateItemCommand represents a request to register an inventory item.
// The quantity becomes both the reference quantity and the initial stock.
//
// Example:
//
//	itemID := kernel.NewUUID()
//	cmd, err := NewCreateItemCommand(itemID, "Flour", 120)
//	if err != nil {
//	    return fmt.Errorf("invalid item data: %w", err)
//	}
//
//	handler := NewCreateItemCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create item: %w", err)
//	}
type CreateItemCommand struct { //nolint:recvcheck //using for validation
	itemID   kernel.UUID
	name     string
	quantity int

	guard guard.ConstructorGuard
}

// NewCreateItemCommand creates a command to register a new item.
// Validates that the ID is valid, the name is not blank and the quantity is not negative.
func NewCreateItemCommand(itemID kernel.UUID, name string, quantity int) (CreateItemCommand, error) {
	cmd := CreateItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItemID(itemID),
		cmd.setName(name),
		cmd.setQuantity(quantity),
	); err != nil {
		return CreateItemCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateItemCommand) Validate() error {
	return c.guard.Validate(ErrCreateItemCommandIsNotConstructed)
}

func (c CreateItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

func (c CreateItemCommand) Name() string {
	return c.name
}

func (c CreateItemCommand) Quantity() int {
	return c.quantity
}

func (c *CreateItemCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	c.itemID = itemID
	return nil
}

func (c *CreateItemCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateItemCommand) setQuantity(quantity int) error {
	if quantity < 0 {
		return ErrQuantityIsNegative
	}

	c.quantity = quantity
	return nil
}
