package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	domain "github.com/kangopak/ohisee-api/internal/domain/nca"
)

type NCARepository struct{ db *sql.DB }

func NewNCARepository(db *sql.DB) *NCARepository { return &NCARepository{db: db} }

const ncaColumns = `
id, nca_number, raised_by_user_id, wo_id, nc_type, nc_type_other,
supplier_name, nc_product_description, supplier_wo_batch,
quantity, quantity_unit, carton_numbers, nc_description,
machine_status, machine_down_since, estimated_downtime,
root_cause_analysis, corrective_action, disposition_discard,
confidential, status, created_at, close_out_due_date, close_out_date`

// Save insert/update NCA record
func (r *NCARepository) Save(ctx context.Context, n *domain.NCA) error {
	const q = `
INSERT INTO ncas
(id, nca_number, raised_by_user_id, wo_id, nc_type, nc_type_other,
 supplier_name, nc_product_description, supplier_wo_batch,
 quantity, quantity_unit, carton_numbers, nc_description,
 machine_status, machine_down_since, estimated_downtime,
 root_cause_analysis, corrective_action, disposition_discard,
 confidential, status, created_at, close_out_due_date, close_out_date)
VALUES ($1,$2,$3,$4,$5,$6,
        $7,$8,$9,
        $10,$11,$12,$13,
        $14,$15,$16,
        $17,$18,$19,
        $20,$21,$22,$23,$24)
ON CONFLICT (id) DO UPDATE SET
 nc_type = EXCLUDED.nc_type,
 nc_type_other = EXCLUDED.nc_type_other,
 supplier_name = EXCLUDED.supplier_name,
 nc_product_description = EXCLUDED.nc_product_description,
 supplier_wo_batch = EXCLUDED.supplier_wo_batch,
 quantity = EXCLUDED.quantity,
 quantity_unit = EXCLUDED.quantity_unit,
 carton_numbers = EXCLUDED.carton_numbers,
 nc_description = EXCLUDED.nc_description,
 machine_status = EXCLUDED.machine_status,
 machine_down_since = EXCLUDED.machine_down_since,
 estimated_downtime = EXCLUDED.estimated_downtime,
 root_cause_analysis = EXCLUDED.root_cause_analysis,
 corrective_action = EXCLUDED.corrective_action,
 disposition_discard = EXCLUDED.disposition_discard,
 confidential = EXCLUDED.confidential,
 status = EXCLUDED.status,
 close_out_due_date = EXCLUDED.close_out_due_date,
 close_out_date = EXCLUDED.close_out_date;`

	created := n.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		n.ID, n.Number, stringOrDash(n.RaisedByUserID), nullStr(n.WorkOrderID),
		string(n.NCType), nullStr(n.NCTypeOther),
		nullStr(n.SupplierName), n.ProductDescription, nullStr(n.SupplierWOBatch),
		nullFloat(n.Quantity), nullStr(n.QuantityUnit), nullStr(n.CartonNumbers), n.Description,
		string(n.MachineStatus), nullTime(n.MachineDownSince), nullFloat(n.EstimatedDowntime),
		nullStr(n.RootCauseAnalysis), nullStr(n.CorrectiveAction), n.DispositionDiscard,
		n.Confidential, string(n.Status), created, nullTime(n.CloseOutDueDate), nullTime(n.CloseOutDate),
	)
	return err
}

func scanNCA(row interface{ Scan(...any) error }) (*domain.NCA, error) {
	var n domain.NCA
	var woID, typeOther, supplier, woBatch, unit, cartons, rootCause, corrective sql.NullString
	var qty, downtime sql.NullFloat64
	var downSince, dueDate, closeDate sql.NullTime
	if err := row.Scan(
		&n.ID, &n.Number, &n.RaisedByUserID, &woID, &n.NCType, &typeOther,
		&supplier, &n.ProductDescription, &woBatch,
		&qty, &unit, &cartons, &n.Description,
		&n.MachineStatus, &downSince, &downtime,
		&rootCause, &corrective, &n.DispositionDiscard,
		&n.Confidential, &n.Status, &n.CreatedAt, &dueDate, &closeDate,
	); err != nil {
		return nil, err
	}
	n.WorkOrderID = strOf(woID)
	n.NCTypeOther = strOf(typeOther)
	n.SupplierName = strOf(supplier)
	n.SupplierWOBatch = strOf(woBatch)
	n.Quantity = floatOf(qty)
	n.QuantityUnit = strOf(unit)
	n.CartonNumbers = strOf(cartons)
	n.RootCauseAnalysis = strOf(rootCause)
	n.CorrectiveAction = strOf(corrective)
	n.MachineDownSince = timeOf(downSince)
	n.EstimatedDowntime = floatOf(downtime)
	n.CloseOutDueDate = timeOf(dueDate)
	n.CloseOutDate = timeOf(closeDate)
	return &n, nil
}

// Get by ID
func (r *NCARepository) Get(ctx context.Context, id domain.ID) (*domain.NCA, error) {
	q := `SELECT ` + ncaColumns + ` FROM ncas WHERE id=$1 LIMIT 1;`
	return scanNCA(r.db.QueryRowContext(ctx, q, id))
}

// List with optional filters, newest first
func (r *NCARepository) List(ctx context.Context, f domain.Filter) ([]*domain.NCA, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + ncaColumns + ` FROM ncas WHERE 1=1`
	args := []any{}
	next := 1

	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", next)
		args = append(args, string(f.Status))
		next++
	}
	if f.NCType != "" {
		query += fmt.Sprintf(" AND nc_type = $%d", next)
		args = append(args, string(f.NCType))
		next++
	}
	if f.SupplierName != "" {
		query += fmt.Sprintf(" AND supplier_name ILIKE $%d", next)
		args = append(args, f.SupplierName)
		next++
	}
	if f.RaisedBy != "" {
		query += fmt.Sprintf(" AND raised_by_user_id = $%d", next)
		args = append(args, f.RaisedBy)
		next++
	}
	if !f.Since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", next)
		args = append(args, f.Since)
		next++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d;", next)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ncas: %w", err)
	}
	defer rows.Close()

	var out []*domain.NCA
	for rows.Next() {
		n, err := scanNCA(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListByYear returns every NCA created in the calendar year, oldest first.
func (r *NCARepository) ListByYear(ctx context.Context, year int) ([]*domain.NCA, error) {
	q := `SELECT ` + ncaColumns + `
FROM ncas
WHERE created_at >= $1 AND created_at < $2
ORDER BY created_at ASC;`
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.NCA
	for rows.Next() {
		n, err := scanNCA(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// StatusesByIDs returns id -> status for the given ids.
func (r *NCARepository) StatusesByIDs(ctx context.Context, ids []domain.ID) (map[domain.ID]domain.Status, error) {
	out := make(map[domain.ID]domain.Status, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	const q = `SELECT id, status FROM ncas WHERE id = ANY($1);`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(idStrings(ids)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		out[domain.ID(id)] = domain.Status(status)
	}
	return out, rows.Err()
}

// SetStatusByOwner transitions the listed ids, scoped to the owner.
func (r *NCARepository) SetStatusByOwner(ctx context.Context, ownerID string, ids []domain.ID, status domain.Status) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
UPDATE ncas
SET status = $1
WHERE raised_by_user_id = $2 AND id = ANY($3);`
	_, err := r.db.ExecContext(ctx, q, string(status), ownerID, pq.Array(idStrings(ids)))
	return err
}

func idStrings[T ~string](ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
