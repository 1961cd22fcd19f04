package mjc

import "time"

// ID type for an MJC row.
type ID string

// Status enum
type Status string

const (
	StatusDraft  Status = "draft"
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Urgency enum
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// HygieneItemCount is fixed by the BRCGS clearance checklist.
const HygieneItemCount = 10

// HygieneItemLabels are the mandatory checks, in checklist order.
var HygieneItemLabels = [HygieneItemCount]string{
	"No loose objects, nuts, bolts, washers or tools left in machinery",
	"All guards, safety devices and protective covers properly secured",
	"Work area cleaned and free from debris/contamination",
	"All lubricants and maintenance fluids are food-grade approved",
	"Machine surfaces cleaned and sanitized as per BRCGS standards",
	"No foreign material risk identified in product contact areas",
	"Temporary repairs documented with permanent solution planned",
	"All electrical connections secure and properly insulated",
	"Machine test run completed successfully without issues",
	"Quality check performed on first production output",
}

// HygieneChecklist records which of the 10 items have been verified.
type HygieneChecklist [HygieneItemCount]bool

// AllVerified reports whether production may resume. Every item must be
// verified; 9 of 10 is a BRCGS violation.
func (h HygieneChecklist) AllVerified() bool {
	for _, v := range h {
		if !v {
			return false
		}
	}
	return true
}

// HygieneItem pairs a checklist label with its verified flag.
type HygieneItem struct {
	Label    string `json:"label"`
	Verified bool   `json:"verified"`
}

// Items expands the checklist into labelled entries.
func (h HygieneChecklist) Items() []HygieneItem {
	out := make([]HygieneItem, HygieneItemCount)
	for i, v := range h {
		out[i] = HygieneItem{Label: HygieneItemLabels[i], Verified: v}
	}
	return out
}

// Aggregate root: maintenance job card.
type MJC struct {
	ID               ID               `json:"id"`
	Number           string           `json:"job_card_number"`
	RaisedByUserID   string           `json:"raised_by_user_id"`
	MachineName      string           `json:"machine_name"`
	Description      string           `json:"description"`
	WorkCarriedOut   string           `json:"work_carried_out,omitempty"`
	Urgency          Urgency          `json:"urgency"`
	Status           Status           `json:"status"`
	Hygiene          HygieneChecklist `json:"hygiene_checklist"`
	HygieneClearedBy string           `json:"hygiene_cleared_by,omitempty"`
	HygieneClearedAt *time.Time       `json:"hygiene_cleared_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	CloseOutDueDate  time.Time        `json:"close_out_due_date"`
	ClosedAt         *time.Time       `json:"closed_at,omitempty"`
}
