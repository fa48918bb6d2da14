package memory

import (
	"context"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operation"
)

// OperationRepository implements ports.OperationRepository on a Store.
// Operations are immutable and are shared rather than copied.
type OperationRepository struct {
	uow *UnitOfWork
}

// Add appends operations.
func (r *OperationRepository) Add(_ context.Context, operations ...*operation.Operation) error {
	for _, op := range operations {
		if err := op.Validate(); err != nil {
			return err
		}
	}

	return r.uow.do(func(v view) error {
		v.addOperations(operations...)
		return nil
	})
}

// FindByItem retrieves the operations of itemID in [from, to], oldest first.
func (r *OperationRepository) FindByItem(
	_ context.Context,
	itemID kernel.UUID,
	from, to time.Time,
) ([]*operation.Operation, error) {
	var found []*operation.Operation
	err := r.uow.do(func(v view) error {
		for _, op := range v.allOperations() {
			if !op.ItemID().IsEqual(itemID) {
				continue
			}
			if !from.IsZero() && op.Timestamp().Before(from) {
				continue
			}
			if !to.IsZero() && op.Timestamp().After(to) {
				continue
			}
			found = append(found, op)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(found, func(a, b int) bool {
		return found[a].Timestamp().Before(found[b].Timestamp())
	})
	return found, nil
}
