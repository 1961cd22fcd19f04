package complaint

import "context"
import "time"

// ID type for a complaint row.
type ID string

// Status enum
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Complaint is a customer quality complaint, optionally escalated to an NCA.
type Complaint struct {
	ID           ID        `json:"id"`
	Number       string    `json:"complaint_number"`
	CustomerName string    `json:"customer_name"`
	ProductCode  string    `json:"product_code,omitempty"`
	Description  string    `json:"description"`
	ReceivedAt   time.Time `json:"received_at"`
	LinkedNCAID  string    `json:"linked_nca_id,omitempty"`
	Status       Status    `json:"status"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository port (persistence interface).
type Repository interface {
	Save(ctx context.Context, c *Complaint) error
	Get(ctx context.Context, id ID) (*Complaint, error)
	GetByNCA(ctx context.Context, ncaID string) (*Complaint, error)
	LinkNCA(ctx context.Context, id ID, ncaID string) error
}
