package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/kangopak/ohisee-api/internal/domain/complaint"
)

type ComplaintRepository struct{ db *sql.DB }

func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

const complaintColumns = `
id, complaint_number, customer_name, product_code, description,
received_at, linked_nca_id, status, created_by, created_at`

func scanComplaint(row interface{ Scan(...any) error }) (*domain.Complaint, error) {
	var c domain.Complaint
	var product, ncaID sql.NullString
	if err := row.Scan(
		&c.ID, &c.Number, &c.CustomerName, &product, &c.Description,
		&c.ReceivedAt, &ncaID, &c.Status, &c.CreatedBy, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.ProductCode = strOf(product)
	c.LinkedNCAID = strOf(ncaID)
	return &c, nil
}

// Save insert/update complaint record
func (r *ComplaintRepository) Save(ctx context.Context, c *domain.Complaint) error {
	const q = `
INSERT INTO complaints
(id, complaint_number, customer_name, product_code, description,
 received_at, linked_nca_id, status, created_by, created_at)
VALUES ($1,$2,$3,$4,$5,
        $6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
 customer_name = EXCLUDED.customer_name,
 product_code = EXCLUDED.product_code,
 description = EXCLUDED.description,
 linked_nca_id = EXCLUDED.linked_nca_id,
 status = EXCLUDED.status;`

	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.Number, c.CustomerName, nullStr(c.ProductCode), c.Description,
		c.ReceivedAt, nullStr(c.LinkedNCAID), string(c.Status), stringOrDash(c.CreatedBy), created,
	)
	return err
}

// Get by ID
func (r *ComplaintRepository) Get(ctx context.Context, id domain.ID) (*domain.Complaint, error) {
	q := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1 LIMIT 1;`
	return scanComplaint(r.db.QueryRowContext(ctx, q, id))
}

// GetByNCA finds the complaint escalated into the given NCA.
func (r *ComplaintRepository) GetByNCA(ctx context.Context, ncaID string) (*domain.Complaint, error) {
	q := `SELECT ` + complaintColumns + ` FROM complaints WHERE linked_nca_id=$1 LIMIT 1;`
	return scanComplaint(r.db.QueryRowContext(ctx, q, ncaID))
}

// LinkNCA records the escalation link.
func (r *ComplaintRepository) LinkNCA(ctx context.Context, id domain.ID, ncaID string) error {
	const q = `UPDATE complaints SET linked_nca_id = $1 WHERE id = $2;`
	_, err := r.db.ExecContext(ctx, q, ncaID, id)
	return err
}
