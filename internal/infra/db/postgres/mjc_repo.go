package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	domain "github.com/kangopak/ohisee-api/internal/domain/mjc"
)

type MJCRepository struct{ db *sql.DB }

func NewMJCRepository(db *sql.DB) *MJCRepository { return &MJCRepository{db: db} }

const mjcColumns = `
id, job_card_number, raised_by_user_id, machine_name, description,
work_carried_out, urgency, status, hygiene_checklist,
hygiene_cleared_by, hygiene_cleared_at, created_at,
close_out_due_date, closed_at`

// Save insert/update MJC record. The hygiene checklist is stored as a
// boolean array in checklist order.
func (r *MJCRepository) Save(ctx context.Context, m *domain.MJC) error {
	const q = `
INSERT INTO mjcs
(id, job_card_number, raised_by_user_id, machine_name, description,
 work_carried_out, urgency, status, hygiene_checklist,
 hygiene_cleared_by, hygiene_cleared_at, created_at,
 close_out_due_date, closed_at)
VALUES ($1,$2,$3,$4,$5,
        $6,$7,$8,$9,
        $10,$11,$12,
        $13,$14)
ON CONFLICT (id) DO UPDATE SET
 machine_name = EXCLUDED.machine_name,
 description = EXCLUDED.description,
 work_carried_out = EXCLUDED.work_carried_out,
 urgency = EXCLUDED.urgency,
 status = EXCLUDED.status,
 hygiene_checklist = EXCLUDED.hygiene_checklist,
 hygiene_cleared_by = EXCLUDED.hygiene_cleared_by,
 hygiene_cleared_at = EXCLUDED.hygiene_cleared_at,
 close_out_due_date = EXCLUDED.close_out_due_date,
 closed_at = EXCLUDED.closed_at;`

	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	hygiene := make(pq.BoolArray, domain.HygieneItemCount)
	copy(hygiene, m.Hygiene[:])

	_, err := r.db.ExecContext(ctx, q,
		m.ID, m.Number, stringOrDash(m.RaisedByUserID), m.MachineName, m.Description,
		nullStr(m.WorkCarriedOut), string(m.Urgency), string(m.Status), hygiene,
		nullStr(m.HygieneClearedBy), nullTime(m.HygieneClearedAt), created,
		m.CloseOutDueDate, nullTime(m.ClosedAt),
	)
	return err
}

func scanMJC(row interface{ Scan(...any) error }) (*domain.MJC, error) {
	var m domain.MJC
	var workDone, clearedBy sql.NullString
	var clearedAt, closedAt sql.NullTime
	var hygiene pq.BoolArray
	if err := row.Scan(
		&m.ID, &m.Number, &m.RaisedByUserID, &m.MachineName, &m.Description,
		&workDone, &m.Urgency, &m.Status, &hygiene,
		&clearedBy, &clearedAt, &m.CreatedAt,
		&m.CloseOutDueDate, &closedAt,
	); err != nil {
		return nil, err
	}
	m.WorkCarriedOut = strOf(workDone)
	m.HygieneClearedBy = strOf(clearedBy)
	m.HygieneClearedAt = timeOf(clearedAt)
	m.ClosedAt = timeOf(closedAt)
	for i := 0; i < domain.HygieneItemCount && i < len(hygiene); i++ {
		m.Hygiene[i] = hygiene[i]
	}
	return &m, nil
}

// Get by ID
func (r *MJCRepository) Get(ctx context.Context, id domain.ID) (*domain.MJC, error) {
	q := `SELECT ` + mjcColumns + ` FROM mjcs WHERE id=$1 LIMIT 1;`
	return scanMJC(r.db.QueryRowContext(ctx, q, id))
}

// List with optional filters, newest first
func (r *MJCRepository) List(ctx context.Context, f domain.Filter) ([]*domain.MJC, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + mjcColumns + ` FROM mjcs WHERE 1=1`
	args := []any{}
	next := 1

	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", next)
		args = append(args, string(f.Status))
		next++
	}
	if f.RaisedBy != "" {
		query += fmt.Sprintf(" AND raised_by_user_id = $%d", next)
		args = append(args, f.RaisedBy)
		next++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d;", next)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying mjcs: %w", err)
	}
	defer rows.Close()

	var out []*domain.MJC
	for rows.Next() {
		m, err := scanMJC(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// StatusesByIDs returns id -> status for the given ids.
func (r *MJCRepository) StatusesByIDs(ctx context.Context, ids []domain.ID) (map[domain.ID]domain.Status, error) {
	out := make(map[domain.ID]domain.Status, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	const q = `SELECT id, status FROM mjcs WHERE id = ANY($1);`
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
func (r *MJCRepository) SetStatusByOwner(ctx context.Context, ownerID string, ids []domain.ID, status domain.Status) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
UPDATE mjcs
SET status = $1
WHERE raised_by_user_id = $2 AND id = ANY($3);`
	_, err := r.db.ExecContext(ctx, q, string(status), ownerID, pq.Array(idStrings(ids)))
	return err
}
