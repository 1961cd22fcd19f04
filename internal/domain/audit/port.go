package audit

import "context"

// Repository port. Append is the only mutation; the trail is immutable.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*Entry, error)
}
