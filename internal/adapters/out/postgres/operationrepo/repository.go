package operationrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operation"

	"gorm.io/gorm"
)

// GormOperationRepository implements ports.OperationRepository using GORM.
type GormOperationRepository struct {
	db *gorm.DB
}

// NewGormOperationRepository creates a new GORM operation repository.
func NewGormOperationRepository(db *gorm.DB) *GormOperationRepository {
	return &GormOperationRepository{db: db}
}

// Add inserts operations in a single statement.
func (r *GormOperationRepository) Add(ctx context.Context, operations ...*operation.Operation) error {
	if len(operations) == 0 {
		return nil
	}

	dtos := make([]OperationDTO, 0, len(operations))
	for _, op := range operations {
		if err := op.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(op))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// FindByItem retrieves the operations of itemID in [from, to], oldest first.
func (r *GormOperationRepository) FindByItem(
	ctx context.Context,
	itemID kernel.UUID,
	from, to time.Time,
) ([]*operation.Operation, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("item_id = ?", itemID.Bytes())
	if !from.IsZero() {
		query = query.Where("occurred_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("occurred_at <= ?", to)
	}

	var dtos []OperationDTO
	if err := query.Order("occurred_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	ops := make([]*operation.Operation, 0, len(dtos))
	for _, dto := range dtos {
		op, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
