package queries

import (
	"time"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// ItemResponse is the snapshot of an inventory item.
type ItemResponse struct {
	ID                kernel.UUID
	Name              string
	RequestedQuantity int
	AvailableQuantity int
	LoadedQuantity    int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func itemResponse(i *item.Item) ItemResponse {
	return ItemResponse{
		ID:                i.ID(),
		Name:              i.Name(),
		RequestedQuantity: i.RequestedQuantity(),
		AvailableQuantity: i.AvailableQuantity(),
		LoadedQuantity:    i.LoadedQuantity(),
		CreatedAt:         i.CreatedAt(),
		UpdatedAt:         i.UpdatedAt(),
	}
}

// OrderLineResponse is one line of an order.
type OrderLineResponse struct {
	ItemID            kernel.UUID
	Position          int
	RequestedQuantity int
	LoadedQuantity    int
}

// OrderResponse is the snapshot of an order with its lines in sequence order.
type OrderResponse struct {
	ID                    kernel.UUID
	Status                order.Status
	HighestLoadedPosition int
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Lines                 []OrderLineResponse
}

func orderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, OrderLineResponse{
			ItemID:            l.ItemID(),
			Position:          l.Position(),
			RequestedQuantity: l.RequestedQuantity(),
			LoadedQuantity:    l.LoadedQuantity(),
		})
	}

	return OrderResponse{
		ID:                    o.ID(),
		Status:                o.Status(),
		HighestLoadedPosition: o.HighestLoadedPosition(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
		Lines:                 lines,
	}
}
