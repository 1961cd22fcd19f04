package workorder

import (
	"context"
	"time"
)

// Repository port (persistence interface).
type Repository interface {
	Get(ctx context.Context, id ID) (*WorkOrder, error)
	ListByOperator(ctx context.Context, operatorID string) ([]*WorkOrder, error)

	// CompleteByOwner marks the listed orders completed with the given
	// timestamp, scoped to the owning operator. Idempotent.
	CompleteByOwner(ctx context.Context, operatorID string, ids []ID, completedAt time.Time) error
}
