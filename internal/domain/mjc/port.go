package mjc

import "context"

// Filter narrows List results.
type Filter struct {
	Status   Status
	RaisedBy string
	Limit    int
}

// Repository port (persistence interface).
type Repository interface {
	Save(ctx context.Context, m *MJC) error
	Get(ctx context.Context, id ID) (*MJC, error)
	List(ctx context.Context, f Filter) ([]*MJC, error)
	StatusesByIDs(ctx context.Context, ids []ID) (map[ID]Status, error)
	SetStatusByOwner(ctx context.Context, ownerID string, ids []ID, status Status) error
}
