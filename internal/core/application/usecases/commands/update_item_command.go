package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateItemCommandIsNotConstructed = errors.New(
	"UpdateItemCommand must be created via NewUpdateItemCommand constructor",
)

// UpdateItemCommand renames an item and changes its reference quantity.
// The available stock is not affected; it only moves through reservations and loads.
type UpdateItemCommand struct { //nolint:recvcheck //using for validation
	itemID   kernel.UUID
	name     string
	quantity int

	guard guard.ConstructorGuard
}

// NewUpdateItemCommand creates a command replacing the catalog data of an item.
func NewUpdateItemCommand(itemID kernel.UUID, name string, quantity int) (UpdateItemCommand, error) {
	cmd := UpdateItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	var errs []error
	if err := itemID.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(name) == "" {
		errs = append(errs, ErrNameIsRequired)
	}
	if quantity < 0 {
		errs = append(errs, ErrQuantityIsNegative)
	}
	if err := errors.Join(errs...); err != nil {
		return UpdateItemCommand{}, err
	}

	cmd.itemID = itemID
	cmd.name = name
	cmd.quantity = quantity
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateItemCommand) Validate() error {
	return c.guard.Validate(ErrUpdateItemCommandIsNotConstructed)
}

func (c UpdateItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

func (c UpdateItemCommand) Name() string {
	return c.name
}

func (c UpdateItemCommand) Quantity() int {
	return c.quantity
}
