package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/kangopak/ohisee-api/internal/domain/waste"
)

type WasteRepository struct{ db *sql.DB }

func NewWasteRepository(db *sql.DB) *WasteRepository { return &WasteRepository{db: db} }

// Save insert/update waste manifest
func (r *WasteRepository) Save(ctx context.Context, m *domain.Manifest) error {
	const q = `
INSERT INTO waste_manifests
(id, nca_id, waste_type, physical_quantity, quantity_unit,
 disposal_method, created_by, created_at)
VALUES ($1,$2,$3,$4,$5,
        $6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
 waste_type = EXCLUDED.waste_type,
 physical_quantity = EXCLUDED.physical_quantity,
 quantity_unit = EXCLUDED.quantity_unit,
 disposal_method = EXCLUDED.disposal_method;`

	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		m.ID, m.NCAID, m.WasteType, m.PhysicalQuantity, m.QuantityUnit,
		m.DisposalMethod, stringOrDash(m.CreatedBy), created,
	)
	return err
}

// GetByNCA returns the manifest linked to the NCA.
func (r *WasteRepository) GetByNCA(ctx context.Context, ncaID string) (*domain.Manifest, error) {
	const q = `
SELECT id, nca_id, waste_type, physical_quantity, quantity_unit,
       disposal_method, created_by, created_at
FROM waste_manifests
WHERE nca_id=$1
LIMIT 1;`
	var m domain.Manifest
	if err := r.db.QueryRowContext(ctx, q, ncaID).Scan(
		&m.ID, &m.NCAID, &m.WasteType, &m.PhysicalQuantity, &m.QuantityUnit,
		&m.DisposalMethod, &m.CreatedBy, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
