package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/kangopak/ohisee-api/internal/domain/recall"
)

type RecallRepository struct{ db *sql.DB }

func NewRecallRepository(db *sql.DB) *RecallRepository { return &RecallRepository{db: db} }

const recallColumns = `
id, recall_number, kind, reason, product_code, batch_numbers,
nca_id, initiated_by, status, created_at`

func scanRecall(row interface{ Scan(...any) error }) (*domain.Recall, error) {
	var rec domain.Recall
	var batches, ncaID sql.NullString
	if err := row.Scan(
		&rec.ID, &rec.Number, &rec.Kind, &rec.Reason, &rec.ProductCode, &batches,
		&ncaID, &rec.InitiatedBy, &rec.Status, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	rec.BatchNumbers = strOf(batches)
	rec.NCAID = strOf(ncaID)
	return &rec, nil
}

// Save insert/update recall record
func (r *RecallRepository) Save(ctx context.Context, rec *domain.Recall) error {
	const q = `
INSERT INTO recalls
(id, recall_number, kind, reason, product_code, batch_numbers,
 nca_id, initiated_by, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,
        $7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
 reason = EXCLUDED.reason,
 batch_numbers = EXCLUDED.batch_numbers,
 status = EXCLUDED.status;`

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.Number, string(rec.Kind), rec.Reason, rec.ProductCode, nullStr(rec.BatchNumbers),
		nullStr(rec.NCAID), stringOrDash(rec.InitiatedBy), string(rec.Status), created,
	)
	return err
}

// Get by ID
func (r *RecallRepository) Get(ctx context.Context, id domain.ID) (*domain.Recall, error) {
	q := `SELECT ` + recallColumns + ` FROM recalls WHERE id=$1 LIMIT 1;`
	return scanRecall(r.db.QueryRowContext(ctx, q, id))
}

// List recent recalls, newest first
func (r *RecallRepository) List(ctx context.Context, limit int) ([]*domain.Recall, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + recallColumns + ` FROM recalls ORDER BY created_at DESC LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Recall
	for rows.Next() {
		rec, err := scanRecall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
