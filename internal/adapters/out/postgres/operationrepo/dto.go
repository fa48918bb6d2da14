// Package operationrepo maps the append-only stock movement log to the
// operations table.
package operationrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operation"

	"github.com/google/uuid"
)

// OperationDTO is one row of the stock movement log.
type OperationDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index:idx_operations_item_timestamp,priority:1"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:varchar(16);not null"`
	Quantity  int       `gorm:"not null"`
	Timestamp time.Time `gorm:"column:occurred_at;not null;index:idx_operations_item_timestamp,priority:2"`
}

// TableName specifies the database table name for operations.
func (OperationDTO) TableName() string {
	return "operations"
}

func fromDomain(op *operation.Operation) OperationDTO {
	return OperationDTO{
		ID:        op.ID().Bytes(),
		ItemID:    op.ItemID().Bytes(),
		OrderID:   op.OrderID().Bytes(),
		Kind:      op.Kind().String(),
		Quantity:  op.Quantity(),
		Timestamp: op.Timestamp(),
	}
}

func toDomain(dto OperationDTO) (*operation.Operation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	kind, err := operation.ParseKind(dto.Kind)
	if err != nil {
		return nil, err
	}

	return operation.RestoreOperation(id, itemID, orderID, kind, dto.Quantity, dto.Timestamp.UTC())
}
