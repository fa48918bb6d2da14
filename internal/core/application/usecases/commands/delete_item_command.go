package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrDeleteItemCommandIsNotConstructed = errors.New(
	"DeleteItemCommand must be created via NewDeleteItemCommand constructor",
)

// DeleteItemCommand removes an item that no order references.
type DeleteItemCommand struct { //nolint:recvcheck //using for validation
	itemID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteItemCommand creates a command to delete an item.
func NewDeleteItemCommand(itemID kernel.UUID) (DeleteItemCommand, error) {
	if err := itemID.Validate(); err != nil {
		return DeleteItemCommand{}, err
	}

	return DeleteItemCommand{
		itemID: itemID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteItemCommand) Validate() error {
	return c.guard.Validate(ErrDeleteItemCommandIsNotConstructed)
}

func (c DeleteItemCommand) ItemID() kernel.UUID {
	return c.itemID
}
