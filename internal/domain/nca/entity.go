package nca

import "time"

// ID type for an NCA row.
type ID string

// Status enum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusClosed    Status = "closed"
)

// NCType enum
type NCType string

const (
	TypeRawMaterial   NCType = "raw-material"
	TypeFinishedGoods NCType = "finished-goods"
	TypeWIP           NCType = "wip"
	TypeIncident      NCType = "incident"
	TypeOther         NCType = "other"
)

// MachineStatus enum
type MachineStatus string

const (
	MachineOperational MachineStatus = "operational"
	MachineDown        MachineStatus = "down"
)

// Signature value object
type Signature struct {
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	Data      string    `json:"data,omitempty"`
}

// Aggregate root: non-conformance advice.
type NCA struct {
	ID                 ID            `json:"id"`
	Number             string        `json:"nca_number"`
	RaisedByUserID     string        `json:"raised_by_user_id"`
	WorkOrderID        string        `json:"wo_id,omitempty"`
	NCType             NCType        `json:"nc_type"`
	NCTypeOther        string        `json:"nc_type_other,omitempty"`
	SupplierName       string        `json:"supplier_name,omitempty"`
	ProductDescription string        `json:"nc_product_description"`
	SupplierWOBatch    string        `json:"supplier_wo_batch,omitempty"`
	Quantity           *float64      `json:"quantity,omitempty"`
	QuantityUnit       string        `json:"quantity_unit,omitempty"`
	CartonNumbers      string        `json:"carton_numbers,omitempty"`
	Description        string        `json:"nc_description"`
	MachineStatus      MachineStatus `json:"machine_status"`
	MachineDownSince   *time.Time    `json:"machine_down_since,omitempty"`
	EstimatedDowntime  *float64      `json:"estimated_downtime,omitempty"`
	RootCauseAnalysis  string        `json:"root_cause_analysis,omitempty"`
	CorrectiveAction   string        `json:"corrective_action,omitempty"`
	DispositionDiscard bool          `json:"disposition_discard"`
	Confidential       bool          `json:"confidential"`
	Status             Status        `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	CloseOutDueDate    *time.Time    `json:"close_out_due_date,omitempty"`
	CloseOutDate       *time.Time    `json:"close_out_date,omitempty"`
}

// SupplierOrigin reports whether the NCA counts against a supplier's
// performance record.
func (n *NCA) SupplierOrigin() bool {
	return n.NCType == TypeRawMaterial && n.SupplierName != ""
}
