package postgres

import (
	"context"
	"database/sql"

	domain "github.com/kangopak/ohisee-api/internal/domain/supplier"
)

type SupplierRepository struct{ db *sql.DB }

func NewSupplierRepository(db *sql.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

const supplierColumns = `
id, supplier_name, nca_count_ytd, nca_count_last_12mo, avg_closure_days,
quality_rating, on_time_delivery_pct, risk_level, last_nca_date`

func scanSupplier(row interface{ Scan(...any) error }) (*domain.Supplier, error) {
	var s domain.Supplier
	var closure, rating, delivery sql.NullFloat64
	var risk sql.NullString
	var lastNCA sql.NullTime
	if err := row.Scan(
		&s.ID, &s.Name, &s.NCACountYTD, &s.NCACountLast12Mo, &closure,
		&rating, &delivery, &risk, &lastNCA,
	); err != nil {
		return nil, err
	}
	s.AvgClosureDays = floatOf(closure)
	s.QualityRating = floatOf(rating)
	s.OnTimeDeliveryPct = floatOf(delivery)
	s.RiskLevel = domain.RiskLevel(strOf(risk))
	s.LastNCADate = timeOf(lastNCA)
	return &s, nil
}

// Save insert/update supplier metrics
func (r *SupplierRepository) Save(ctx context.Context, s *domain.Supplier) error {
	const q = `
INSERT INTO suppliers
(id, supplier_name, nca_count_ytd, nca_count_last_12mo, avg_closure_days,
 quality_rating, on_time_delivery_pct, risk_level, last_nca_date)
VALUES ($1,$2,$3,$4,$5,
        $6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
 supplier_name = EXCLUDED.supplier_name,
 nca_count_ytd = EXCLUDED.nca_count_ytd,
 nca_count_last_12mo = EXCLUDED.nca_count_last_12mo,
 avg_closure_days = EXCLUDED.avg_closure_days,
 quality_rating = EXCLUDED.quality_rating,
 on_time_delivery_pct = EXCLUDED.on_time_delivery_pct,
 risk_level = EXCLUDED.risk_level,
 last_nca_date = EXCLUDED.last_nca_date;`
	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.Name, s.NCACountYTD, s.NCACountLast12Mo, nullFloat(s.AvgClosureDays),
		nullFloat(s.QualityRating), nullFloat(s.OnTimeDeliveryPct),
		nullStr(string(s.RiskLevel)), nullTime(s.LastNCADate),
	)
	return err
}

// Get by ID
func (r *SupplierRepository) Get(ctx context.Context, id domain.ID) (*domain.Supplier, error) {
	q := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id=$1 LIMIT 1;`
	return scanSupplier(r.db.QueryRowContext(ctx, q, id))
}

// FindByName matches case-insensitively on the exact name.
func (r *SupplierRepository) FindByName(ctx context.Context, name string) (*domain.Supplier, error) {
	q := `SELECT ` + supplierColumns + ` FROM suppliers WHERE supplier_name ILIKE $1 LIMIT 1;`
	return scanSupplier(r.db.QueryRowContext(ctx, q, name))
}

// List all suppliers ordered by name
func (r *SupplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	q := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY supplier_name ASC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
