package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operation"
)

// OperationRepository stores the append-only stock movement log.
type OperationRepository interface {
	// Add appends operations. Existing operations are never changed.
	Add(ctx context.Context, operations ...*operation.Operation) error

	// FindByItem retrieves the operations of itemID with a timestamp in
	// [from, to], oldest first. A zero bound is open.
	FindByItem(ctx context.Context, itemID kernel.UUID, from, to time.Time) ([]*operation.Operation, error)
}
