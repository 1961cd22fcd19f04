package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/kangopak/ohisee-api/internal/domain/audit"
)

type AuditRepository struct{ db *sql.DB }

func NewAuditRepository(db *sql.DB) *AuditRepository { return &AuditRepository{db: db} }

// Append writes one immutable trail entry. Detail is stored as JSONB.
func (r *AuditRepository) Append(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO audit_trail
(id, entity_type, entity_id, action, user_id, user_name, user_role,
 ip_address, detail, notes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,
        $8,$9,$10,$11);`

	var detail []byte
	if e.Detail != nil {
		b, err := json.Marshal(e.Detail)
		if err != nil {
			return err
		}
		detail = b
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.EntityType, e.EntityID, e.Action,
		stringOrDash(e.UserID), stringOrDash(e.UserName), stringOrDash(e.UserRole),
		stringOrDash(e.IPAddress), detail, nullStr(e.Notes), created,
	)
	return err
}

// ListByEntity returns the trail for one entity, oldest first.
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.Entry, error) {
	const q = `
SELECT id, entity_type, entity_id, action, user_id, user_name, user_role,
       ip_address, detail, notes, created_at
FROM audit_trail
WHERE entity_type=$1 AND entity_id=$2
ORDER BY created_at ASC;`
	rows, err := r.db.QueryContext(ctx, q, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		var detail []byte
		var notes sql.NullString
		if err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Action,
			&e.UserID, &e.UserName, &e.UserRole,
			&e.IPAddress, &detail, &notes, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &e.Detail); err != nil {
				return nil, err
			}
		}
		e.Notes = strOf(notes)
		out = append(out, &e)
	}
	return out, rows.Err()
}
