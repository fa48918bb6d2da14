package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operation"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetItemOperationsQueryIsNotConstructed = errors.New(
		"GetItemOperationsQuery must be created via NewGetItemOperationsQuery constructor",
	)
	ErrRangeIsInvalid = errors.New("range start is after range end")
)

// GetItemOperationsQuery reads the stock movements of an item within a time range.
// Zero bounds leave the range open on that side.
type GetItemOperationsQuery struct {
	itemID kernel.UUID
	from   time.Time
	to     time.Time

	guard guard.ConstructorGuard
}

// NewGetItemOperationsQuery creates a history query for itemID in [from, to].
func NewGetItemOperationsQuery(itemID kernel.UUID, from, to time.Time) (GetItemOperationsQuery, error) {
	if err := itemID.Validate(); err != nil {
		return GetItemOperationsQuery{}, err
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return GetItemOperationsQuery{}, errs.NewValueIsInvalidErrorWithCause("from", ErrRangeIsInvalid)
	}

	return GetItemOperationsQuery{
		itemID: itemID,
		from:   from,
		to:     to,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetItemOperationsQuery) Validate() error {
	return q.guard.Validate(ErrGetItemOperationsQueryIsNotConstructed)
}

// OperationResponse is one entry of an item history.
type OperationResponse struct {
	ID        kernel.UUID
	ItemID    kernel.UUID
	OrderID   kernel.UUID
	Kind      operation.Kind
	Quantity  int
	Timestamp time.Time
}

// GetItemOperationsQueryHandler serves GetItemOperationsQuery.
type GetItemOperationsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewGetItemOperationsQueryHandler creates a handler for item histories.
func NewGetItemOperationsQueryHandler(uowFactory ports.UnitOfWorkFactory) GetItemOperationsQueryHandler {
	return GetItemOperationsQueryHandler{uowFactory: uowFactory}
}

// Handle returns the operations of the item, oldest first. Returns an error
// wrapping item.ErrUnknownItem when the item does not exist.
func (h GetItemOperationsQueryHandler) Handle(
	ctx context.Context,
	query GetItemOperationsQuery,
) ([]OperationResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if _, err := uow.ItemRepository().Get(ctx, query.itemID); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", item.ErrUnknownItem, query.itemID)
		}
		return nil, err
	}

	ops, err := uow.OperationRepository().FindByItem(ctx, query.itemID, query.from, query.to)
	if err != nil {
		return nil, err
	}

	response := make([]OperationResponse, 0, len(ops))
	for _, op := range ops {
		response = append(response, OperationResponse{
			ID:        op.ID(),
			ItemID:    op.ItemID(),
			OrderID:   op.OrderID(),
			Kind:      op.Kind(),
			Quantity:  op.Quantity(),
			Timestamp: op.Timestamp(),
		})
	}
	return response, nil
}
