package waste

import "context"
import "time"

// ID type for a waste manifest row.
type ID string

// Manifest documents physically discarded product, linked to the NCA
// whose discard disposition produced it.
type Manifest struct {
	ID               ID        `json:"id"`
	NCAID            string    `json:"nca_id"`
	WasteType        string    `json:"waste_type"`
	PhysicalQuantity float64   `json:"physical_quantity"`
	QuantityUnit     string    `json:"quantity_unit"`
	DisposalMethod   string    `json:"disposal_method"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// Repository port (persistence interface).
type Repository interface {
	Save(ctx context.Context, m *Manifest) error
	GetByNCA(ctx context.Context, ncaID string) (*Manifest, error)
}
