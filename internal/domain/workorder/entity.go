package workorder

import "time"

// ID type for a work order row.
type ID string

// Status enum
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// WorkOrder is a production run owned by one operator.
type WorkOrder struct {
	ID               ID         `json:"id"`
	Number           string     `json:"wo_number"`
	OperatorID       string     `json:"operator_id"`
	ProductCode      string     `json:"product_code"`
	QuantityProduced *float64   `json:"quantity_produced,omitempty"`
	Status           Status     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}
