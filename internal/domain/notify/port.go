package notify

import (
	"context"
	"time"
)

// MachineDownAlert is dispatched when an NCA reports a machine down.
type MachineDownAlert struct {
	NCANumber      string
	MachineName    string
	Description    string
	ReportedBy     string
	DownSince      time.Time
	EstimatedHours float64
}

// EndOfDaySummary is emailed to management after a shift closes.
type EndOfDaySummary struct {
	OperatorName   string
	Date           string
	ShiftNotes     string
	WorkOrderCount int
	NCACount       int
	MJCCount       int
	NCANumbers     []string
	MJCNumbers     []string
	ReportURL      string
}

// Notifier port. Dispatch is fire-and-forget from the caller's
// perspective; failures are logged, never propagated as operation failure.
type Notifier interface {
	SendMachineDownAlert(ctx context.Context, alert MachineDownAlert) error
	SendEndOfDaySummary(ctx context.Context, summary EndOfDaySummary) error
}
