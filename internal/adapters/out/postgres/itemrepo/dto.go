// Package itemrepo maps inventory items to the items table.
package itemrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/item"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ItemDTO is the row of an inventory item. Timestamps are owned by the domain.
type ItemDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string    `gorm:"not null;index"`
	RequestedQuantity int       `gorm:"not null"`
	AvailableQuantity int       `gorm:"not null;check:available_quantity >= 0"`
	LoadedQuantity    int       `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the database table name for items.
func (ItemDTO) TableName() string {
	return "items"
}

var updatableColumns = []string{
	"name",
	"requested_quantity",
	"available_quantity",
	"loaded_quantity",
	"updated_at",
}

func fromDomain(i *item.Item) ItemDTO {
	return ItemDTO{
		ID:                i.ID().Bytes(),
		Name:              i.Name(),
		RequestedQuantity: i.RequestedQuantity(),
		AvailableQuantity: i.AvailableQuantity(),
		LoadedQuantity:    i.LoadedQuantity(),
		CreatedAt:         i.CreatedAt(),
		UpdatedAt:         i.UpdatedAt(),
	}
}

func toDomain(dto ItemDTO) (*item.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return item.RestoreItem(
		id,
		dto.Name,
		dto.RequestedQuantity,
		dto.AvailableQuantity,
		dto.LoadedQuantity,
		dto.CreatedAt.UTC(),
		dto.UpdatedAt.UTC(),
	)
}
