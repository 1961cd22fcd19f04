package nca

import (
	"context"
	"time"
)

// Filter narrows List results.
type Filter struct {
	Status       Status
	NCType       NCType
	SupplierName string
	RaisedBy     string
	Since        time.Time
	Limit        int
}

// Repository port (persistence interface).
type Repository interface {
	Save(ctx context.Context, n *NCA) error
	Get(ctx context.Context, id ID) (*NCA, error)
	List(ctx context.Context, f Filter) ([]*NCA, error)
	ListByYear(ctx context.Context, year int) ([]*NCA, error)

	// StatusesByIDs returns the current status of each listed id.
	StatusesByIDs(ctx context.Context, ids []ID) (map[ID]Status, error)

	// SetStatusByOwner updates status for the listed ids scoped to the
	// owning user. Idempotent.
	SetStatusByOwner(ctx context.Context, ownerID string, ids []ID, status Status) error
}
