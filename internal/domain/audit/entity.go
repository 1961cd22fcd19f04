package audit

import "time"

// Actor is the request-scoped identity threaded through every handler.
// It replaces any hardcoded user/IP placeholder.
type Actor struct {
	UserID string `json:"user_id"`
	Name   string `json:"user_name"`
	Role   string `json:"user_role"`
	IP     string `json:"ip_address"`
}

// Entry is one append-only audit trail row (BRCGS 3.9 traceability).
type Entry struct {
	ID         string         `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"`
	UserID     string         `json:"user_id"`
	UserName   string         `json:"user_name"`
	UserRole   string         `json:"user_role"`
	IPAddress  string         `json:"ip_address"`
	Detail     map[string]any `json:"detail,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
