package endofday

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kangopak/ohisee-api/internal/application"
	domaudit "github.com/kangopak/ohisee-api/internal/domain/audit"
	dommjc "github.com/kangopak/ohisee-api/internal/domain/mjc"
	domnca "github.com/kangopak/ohisee-api/internal/domain/nca"
	domnotify "github.com/kangopak/ohisee-api/internal/domain/notify"
	domreport "github.com/kangopak/ohisee-api/internal/domain/report"
	domwo "github.com/kangopak/ohisee-api/internal/domain/workorder"
)

// DraftBlockerError rejects a submission while listed records are still
// drafts. The caller must resolve or discard them first; no side effects
// have happened when this is returned.
type DraftBlockerError struct {
	Kind  string
	Count int
}

func (e *DraftBlockerError) Error() string {
	return fmt.Sprintf("cannot submit: %d %s draft(s) must be completed or discarded", e.Count, e.Kind)
}

// Service closes out a shift: locks the operator's records, writes the
// audit trail and produces the report. Safe for concurrent use.
type Service struct {
	NCAs       domnca.Repository
	MJCs       dommjc.Repository
	WorkOrders domwo.Repository
	Audit      domaudit.Repository
	Reports    domreport.Generator
	Artifacts  domreport.ArtifactStore
	Notifier   domnotify.Notifier
	Clock      application.Clock
	Log        *zap.SugaredLogger
}

// SubmitCommand lists the entries a shift closes out.
type SubmitCommand struct {
	ShiftNotes   string
	NCAIDs       []string
	MJCIDs       []string
	WorkOrderIDs []string
}

// SideEffect reports one best-effort step's outcome.
type SideEffect struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// SubmitResult separates the primary outcome (locks applied) from the
// best-effort outcomes (audit, report, email). Losing an audit record is
// tolerated; losing a lock is not.
type SubmitResult struct {
	SubmissionID string       `json:"submission_id"`
	NCAsLocked   int          `json:"ncas_locked"`
	MJCsLocked   int          `json:"mjcs_locked"`
	WorkOrders   int          `json:"work_orders_completed"`
	ReportURL    string       `json:"report_url,omitempty"`
	BestEffort   []SideEffect `json:"best_effort"`
}

// Submit closes out a shift.
//
// Draft checks are a hard precondition: if any listed NCA or MJC is
// still in draft the call fails with zero mutations. Once the locks in
// step 2 succeed the shift is closed; audit, report and email failures
// are logged and reported as best-effort outcomes, never as submission
// failure. Re-submitting the same ids re-applies the idempotent status
// sets but duplicates the side effects.
func (s *Service) Submit(ctx context.Context, actor domaudit.Actor, cmd SubmitCommand) (SubmitResult, error) {
	now := s.Clock.Now()

	// 1. Hard precondition: no listed drafts, checked before any mutation.
	if len(cmd.NCAIDs) > 0 {
		statuses, err := s.NCAs.StatusesByIDs(ctx, toNCAIDs(cmd.NCAIDs))
		if err != nil {
			return SubmitResult{}, fmt.Errorf("check nca drafts: %w", err)
		}
		if n := countStatus(statuses, domnca.StatusDraft); n > 0 {
			return SubmitResult{}, &DraftBlockerError{Kind: "NCA", Count: n}
		}
	}
	if len(cmd.MJCIDs) > 0 {
		statuses, err := s.MJCs.StatusesByIDs(ctx, toMJCIDs(cmd.MJCIDs))
		if err != nil {
			return SubmitResult{}, fmt.Errorf("check mjc drafts: %w", err)
		}
		if n := countMJCStatus(statuses, dommjc.StatusDraft); n > 0 {
			return SubmitResult{}, &DraftBlockerError{Kind: "MJC", Count: n}
		}
	}

	// 2. Lock entries, scoped to the submitting operator. These must succeed.
	if len(cmd.NCAIDs) > 0 {
		if err := s.NCAs.SetStatusByOwner(ctx, actor.UserID, toNCAIDs(cmd.NCAIDs), domnca.StatusSubmitted); err != nil {
			return SubmitResult{}, fmt.Errorf("lock nca entries: %w", err)
		}
	}
	if len(cmd.MJCIDs) > 0 {
		if err := s.MJCs.SetStatusByOwner(ctx, actor.UserID, toMJCIDs(cmd.MJCIDs), dommjc.StatusOpen); err != nil {
			return SubmitResult{}, fmt.Errorf("lock mjc entries: %w", err)
		}
	}
	if len(cmd.WorkOrderIDs) > 0 {
		if err := s.WorkOrders.CompleteByOwner(ctx, actor.UserID, toWOIDs(cmd.WorkOrderIDs), now); err != nil {
			return SubmitResult{}, fmt.Errorf("complete work orders: %w", err)
		}
	}

	result := SubmitResult{
		SubmissionID: fmt.Sprintf("eod-%d", now.UnixMilli()),
		NCAsLocked:   len(cmd.NCAIDs),
		MJCsLocked:   len(cmd.MJCIDs),
		WorkOrders:   len(cmd.WorkOrderIDs),
	}

	// 3. Audit trail: best-effort, deliberately not transactional with
	// the locks above.
	result.BestEffort = append(result.BestEffort, s.writeAudit(ctx, actor, cmd, now))

	// 4. Report artifact + management email: best-effort.
	reportURL, effects := s.produceReport(ctx, actor, cmd, now)
	result.ReportURL = reportURL
	result.BestEffort = append(result.BestEffort, effects...)

	return result, nil
}

func (s *Service) writeAudit(ctx context.Context, actor domaudit.Actor, cmd SubmitCommand, now time.Time) SideEffect {
	entry := &domaudit.Entry{
		ID:         uuid.New().String(),
		EntityType: "end_of_day_submission",
		EntityID:   fmt.Sprintf("eod-%s", uuid.New().String()),
		Action:     "end_of_day_submitted",
		UserID:     actor.UserID,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		IPAddress:  actor.IP,
		Detail: map[string]any{
			"nca_count":        len(cmd.NCAIDs),
			"mjc_count":        len(cmd.MJCIDs),
			"work_order_count": len(cmd.WorkOrderIDs),
			"shift_notes":      cmd.ShiftNotes,
		},
		Notes:     fmt.Sprintf("End-of-day submission: %d NCAs, %d MJCs, %d work orders", len(cmd.NCAIDs), len(cmd.MJCIDs), len(cmd.WorkOrderIDs)),
		CreatedAt: now,
	}
	if err := s.Audit.Append(ctx, entry); err != nil {
		s.Log.Errorw("end-of-day audit entry failed", "error", err, "user_id", actor.UserID)
		return SideEffect{Name: "audit_trail", Detail: err.Error()}
	}
	return SideEffect{Name: "audit_trail", OK: true}
}

func (s *Service) produceReport(ctx context.Context, actor domaudit.Actor, cmd SubmitCommand, now time.Time) (string, []SideEffect) {
	var effects []SideEffect

	ncaNumbers := s.fetchNCANumbers(ctx, cmd.NCAIDs)
	mjcNumbers := s.fetchMJCNumbers(ctx, cmd.MJCIDs)
	date := now.Format("02/01/2006")

	pdf, err := s.Reports.EndOfDayPDF(ctx, domreport.EndOfDayData{
		OperatorName:   actor.Name,
		Date:           date,
		ShiftNotes:     cmd.ShiftNotes,
		NCANumbers:     ncaNumbers,
		MJCNumbers:     mjcNumbers,
		WorkOrderCount: len(cmd.WorkOrderIDs),
	})
	var reportURL string
	if err != nil {
		s.Log.Errorw("end-of-day report generation failed", "error", err, "user_id", actor.UserID)
		effects = append(effects, SideEffect{Name: "report", Detail: err.Error()})
	} else {
		key := fmt.Sprintf("end-of-day/%s/%d.pdf", actor.UserID, now.UnixMilli())
		reportURL, err = s.Artifacts.Put(ctx, key, pdf, "application/pdf")
		if err != nil {
			s.Log.Errorw("end-of-day report upload failed", "error", err, "key", key)
			effects = append(effects, SideEffect{Name: "report", Detail: err.Error()})
		} else {
			effects = append(effects, SideEffect{Name: "report", OK: true, Detail: reportURL})
		}
	}

	if err := s.Notifier.SendEndOfDaySummary(ctx, domnotify.EndOfDaySummary{
		OperatorName:   actor.Name,
		Date:           date,
		ShiftNotes:     cmd.ShiftNotes,
		WorkOrderCount: len(cmd.WorkOrderIDs),
		NCACount:       len(cmd.NCAIDs),
		MJCCount:       len(cmd.MJCIDs),
		NCANumbers:     ncaNumbers,
		MJCNumbers:     mjcNumbers,
		ReportURL:      reportURL,
	}); err != nil {
		s.Log.Errorw("end-of-day summary email failed", "error", err, "user_id", actor.UserID)
		effects = append(effects, SideEffect{Name: "email", Detail: err.Error()})
	} else {
		effects = append(effects, SideEffect{Name: "email", OK: true})
	}

	return reportURL, effects
}

func (s *Service) fetchNCANumbers(ctx context.Context, ids []string) []string {
	var out []string
	for _, id := range ids {
		n, err := s.NCAs.Get(ctx, domnca.ID(id))
		if err != nil {
			s.Log.Warnw("nca lookup for report failed", "id", id, "error", err)
			continue
		}
		out = append(out, n.Number)
	}
	return out
}

func (s *Service) fetchMJCNumbers(ctx context.Context, ids []string) []string {
	var out []string
	for _, id := range ids {
		m, err := s.MJCs.Get(ctx, dommjc.ID(id))
		if err != nil {
			s.Log.Warnw("mjc lookup for report failed", "id", id, "error", err)
			continue
		}
		out = append(out, m.Number)
	}
	return out
}

func toNCAIDs(ids []string) []domnca.ID {
	out := make([]domnca.ID, len(ids))
	for i, id := range ids {
		out[i] = domnca.ID(id)
	}
	return out
}

func toMJCIDs(ids []string) []dommjc.ID {
	out := make([]dommjc.ID, len(ids))
	for i, id := range ids {
		out[i] = dommjc.ID(id)
	}
	return out
}

func toWOIDs(ids []string) []domwo.ID {
	out := make([]domwo.ID, len(ids))
	for i, id := range ids {
		out[i] = domwo.ID(id)
	}
	return out
}

func countStatus(m map[domnca.ID]domnca.Status, want domnca.Status) int {
	n := 0
	for _, st := range m {
		if st == want {
			n++
		}
	}
	return n
}

func countMJCStatus(m map[dommjc.ID]dommjc.Status, want dommjc.Status) int {
	n := 0
	for _, st := range m {
		if st == want {
			n++
		}
	}
	return n
}
