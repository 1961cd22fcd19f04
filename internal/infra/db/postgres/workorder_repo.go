package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	domain "github.com/kangopak/ohisee-api/internal/domain/workorder"
)

type WorkOrderRepository struct{ db *sql.DB }

func NewWorkOrderRepository(db *sql.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

const woColumns = `
id, wo_number, operator_id, product_code, quantity_produced,
status, created_at, completed_at`

func scanWO(row interface{ Scan(...any) error }) (*domain.WorkOrder, error) {
	var w domain.WorkOrder
	var qty sql.NullFloat64
	var completed sql.NullTime
	if err := row.Scan(
		&w.ID, &w.Number, &w.OperatorID, &w.ProductCode, &qty,
		&w.Status, &w.CreatedAt, &completed,
	); err != nil {
		return nil, err
	}
	w.QuantityProduced = floatOf(qty)
	w.CompletedAt = timeOf(completed)
	return &w, nil
}

// Get by ID
func (r *WorkOrderRepository) Get(ctx context.Context, id domain.ID) (*domain.WorkOrder, error) {
	q := `SELECT ` + woColumns + ` FROM work_orders WHERE id=$1 LIMIT 1;`
	return scanWO(r.db.QueryRowContext(ctx, q, id))
}

// ListByOperator returns the operator's work orders, newest first.
func (r *WorkOrderRepository) ListByOperator(ctx context.Context, operatorID string) ([]*domain.WorkOrder, error) {
	q := `SELECT ` + woColumns + `
FROM work_orders
WHERE operator_id=$1
ORDER BY created_at DESC;`
	rows, err := r.db.QueryContext(ctx, q, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.WorkOrder
	for rows.Next() {
		w, err := scanWO(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CompleteByOwner marks the listed orders completed, scoped to the operator.
func (r *WorkOrderRepository) CompleteByOwner(ctx context.Context, operatorID string, ids []domain.ID, completedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
UPDATE work_orders
SET status = 'completed', completed_at = $1
WHERE operator_id = $2 AND id = ANY($3);`
	_, err := r.db.ExecContext(ctx, q, completedAt, operatorID, pq.Array(idStrings(ids)))
	return err
}
