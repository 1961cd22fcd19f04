package recall

import "context"
import "time"

// ID type for a recall row.
type ID string

// Kind enum: traceability exercises are mock, real withdrawals are actual.
type Kind string

const (
	KindMock   Kind = "mock"
	KindActual Kind = "actual"
)

// Status enum
type Status string

const (
	StatusInitiated Status = "initiated"
	StatusCompleted Status = "completed"
)

// Recall is a product recall or mock-recall traceability exercise.
type Recall struct {
	ID           ID        `json:"id"`
	Number       string    `json:"recall_number"`
	Kind         Kind      `json:"kind"`
	Reason       string    `json:"reason"`
	ProductCode  string    `json:"product_code"`
	BatchNumbers string    `json:"batch_numbers,omitempty"`
	NCAID        string    `json:"nca_id,omitempty"`
	InitiatedBy  string    `json:"initiated_by"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository port (persistence interface).
type Repository interface {
	Save(ctx context.Context, r *Recall) error
	Get(ctx context.Context, id ID) (*Recall, error)
	List(ctx context.Context, limit int) ([]*Recall, error)
}
