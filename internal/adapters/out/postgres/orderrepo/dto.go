// Package orderrepo maps fulfillment orders to the orders and order_lines
// tables. At most one row of orders may hold the IN_PROGRESS status, which
// a partial unique index enforces.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored as its integer value.
type OrderDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Status    int            `gorm:"not null;index:idx_orders_single_in_progress,unique,where:status = 2"`
	Cursor    int            `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime:false"`
	Lines     []OrderLineDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO is one line of an order, unique per order and position.
type OrderLineDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_lines_position,priority:1"`
	ItemID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Position          int       `gorm:"not null;uniqueIndex:idx_order_lines_position,priority:2"`
	RequestedQuantity int       `gorm:"not null"`
	LoadedQuantity    int       `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the database table name for order lines.
func (OrderLineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(o *order.Order) OrderDTO {
	lines := make([]OrderLineDTO, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, OrderLineDTO{
			ID:                l.ID().Bytes(),
			OrderID:           o.ID().Bytes(),
			ItemID:            l.ItemID().Bytes(),
			Position:          l.Position(),
			RequestedQuantity: l.RequestedQuantity(),
			LoadedQuantity:    l.LoadedQuantity(),
			UpdatedAt:         l.UpdatedAt(),
		})
	}

	return OrderDTO{
		ID:        o.ID().Bytes(),
		Status:    int(o.Status()),
		Cursor:    o.HighestLoadedPosition(),
		CreatedAt: o.CreatedAt(),
		UpdatedAt: o.UpdatedAt(),
		Lines:     lines,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	lines := make([]*order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		lineID, lineErr := kernel.UUIDFromBytes(l.ID[:])
		if lineErr != nil {
			return nil, lineErr
		}
		itemID, lineErr := kernel.UUIDFromBytes(l.ItemID[:])
		if lineErr != nil {
			return nil, lineErr
		}

		line, lineErr := order.RestoreLine(
			lineID,
			itemID,
			l.Position,
			l.RequestedQuantity,
			l.LoadedQuantity,
			l.UpdatedAt.UTC(),
		)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(
		id,
		order.Status(dto.Status),
		dto.Cursor,
		dto.CreatedAt.UTC(),
		dto.UpdatedAt.UTC(),
		lines,
	)
}
