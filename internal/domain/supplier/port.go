package supplier

import "context"

// Repository port (persistence interface).
type Repository interface {
	Get(ctx context.Context, id ID) (*Supplier, error)
	FindByName(ctx context.Context, name string) (*Supplier, error)
	List(ctx context.Context) ([]*Supplier, error)
	Save(ctx context.Context, s *Supplier) error
}
