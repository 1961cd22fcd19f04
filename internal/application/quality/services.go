package quality

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kangopak/ohisee-api/internal/application"
	domaudit "github.com/kangopak/ohisee-api/internal/domain/audit"
	domain "github.com/kangopak/ohisee-api/internal/domain/quality"
)

// GateState of one submission attempt. The machine has exactly two
// states; pending -> resolved is terminal per attempt.
type GateState string

const (
	GatePending  GateState = "pending"
	GateResolved GateState = "resolved"
)

// MinOverrideReasonLen is the enforced minimum length of a supervisor
// override justification.
const MinOverrideReasonLen = 20

// Service implements the quality-gate use cases. Safe for concurrent use.
type Service struct {
	Scorer    domain.Scorer
	Suggester domain.Suggester
	Audit     domaudit.Repository
	Clock     application.Clock
	Log       *zap.SugaredLogger
}

// GateDecision is the resolved outcome of one validation attempt.
type GateDecision struct {
	State              GateState         `json:"state"`
	ReadyForSubmission bool              `json:"ready_for_submission"`
	Assessment         domain.Assessment `json:"quality_assessment"`
}

// ValidateSubmission decides, at the moment of submission, whether the
// record is good enough to accept without an explicit override.
//
// Confidential reports bypass scoring entirely: their content must not
// reach the scoring backend and they are never blocked. MJC records
// currently receive a synthesized pass because the scoring backend does
// not support them yet (Phase 1.1 gap).
func (s *Service) ValidateSubmission(ctx context.Context, formType domain.FormType, rec domain.Record, confidential bool) (GateDecision, error) {
	if confidential {
		return resolved(domain.ConfidentialPass()), nil
	}

	switch formType {
	case domain.FormMJC:
		return resolved(domain.MJCPlaceholder()), nil
	case domain.FormNCA:
		// fall through to scoring
	default:
		return GateDecision{State: GatePending}, fmt.Errorf("%w: %q", domain.ErrUnknownFormType, formType)
	}

	// Rule-based checks run first; obvious violations skip the scorer.
	if a, blocked := s.ruleGate(rec); blocked {
		return resolved(a), nil
	}

	assessment, err := s.Scorer.Score(ctx, domain.ScoreRequest{
		FormType:      formType,
		Record:        rec,
		LanguageLevel: defaultLanguageLevel,
		UserRole:      "operator",
	})
	if err != nil {
		// Never silently pass on scorer failure.
		return GateDecision{State: GatePending}, fmt.Errorf("%w: %v", domain.ErrScorerUnavailable, err)
	}

	// Merge advisory corrective-action findings into the scorer result.
	if res := domain.CheckCorrectiveActionSpecificity(rec.CorrectiveAction); len(res.Issues) > 0 {
		assessment.Warnings = append(assessment.Warnings, res.Issues...)
	}

	return resolved(assessment), nil
}

// CheckField scores a partial record for inline advisory feedback.
// Rule violations return a fixed degraded assessment without an AI call.
func (s *Service) CheckField(ctx context.Context, formType domain.FormType, rec domain.Record) (domain.Assessment, error) {
	if formType == domain.FormNCA {
		if a, blocked := s.ruleGate(rec); blocked {
			return a, nil
		}
	}
	a, err := s.Scorer.Score(ctx, domain.ScoreRequest{
		FormType:      formType,
		Record:        rec,
		LanguageLevel: defaultLanguageLevel,
		UserRole:      "operator",
	})
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: %v", domain.ErrScorerUnavailable, err)
	}
	return a, nil
}

// SuggestRewrite asks the writing-assistance backend to rework one field.
func (s *Service) SuggestRewrite(ctx context.Context, req domain.SuggestRequest) (domain.Suggestion, error) {
	return s.Suggester.Suggest(ctx, req)
}

// RecordOverride forces acceptance of a below-threshold submission. The
// audit row must be durably written before the override counts; a write
// failure rejects it.
func (s *Service) RecordOverride(ctx context.Context, actor domaudit.Actor, formType domain.FormType, recordID string, score int, reason string) error {
	if len(strings.TrimSpace(reason)) < MinOverrideReasonLen {
		return domain.ErrOverrideReasonTooShort
	}

	entry := &domaudit.Entry{
		ID:         uuid.New().String(),
		EntityType: string(formType),
		EntityID:   recordID,
		Action:     "quality_gate_override",
		UserID:     actor.UserID,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		IPAddress:  actor.IP,
		Detail: map[string]any{
			"quality_score": score,
			"reason":        reason,
		},
		Notes:     fmt.Sprintf("Supervisor override of quality gate at score %d", score),
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Audit.Append(ctx, entry); err != nil {
		return fmt.Errorf("override audit write failed: %w", err)
	}

	s.Log.Infow("quality gate overridden",
		"form_type", formType, "record_id", recordID, "score", score, "user_id", actor.UserID)
	return nil
}

const defaultLanguageLevel = 4

// ruleGate runs the blocking rule checks in order. The first failed
// check maps to its fixed degraded assessment, mirroring the scoring
// backend's early-return behavior.
func (s *Service) ruleGate(rec domain.Record) (domain.Assessment, bool) {
	if rec.Description != "" {
		if res := domain.CheckDescriptionCompleteness(rec.Description, rec.NCType); !res.Valid {
			return domain.DegradedDescription(res.Issues), true
		}
	}
	if rec.RootCauseAnalysis != "" {
		if res := domain.CheckRootCauseDepth(rec.RootCauseAnalysis); !res.Valid {
			return domain.DegradedRootCause(res.Issues), true
		}
	}
	if rec.CorrectiveAction != "" {
		if res := domain.CheckCorrectiveActionSpecificity(rec.CorrectiveAction); !res.Valid {
			return domain.DegradedCorrectiveAction(res.Issues), true
		}
	}
	return domain.Assessment{}, false
}

func resolved(a domain.Assessment) GateDecision {
	return GateDecision{
		State:              GateResolved,
		ReadyForSubmission: a.ThresholdMet,
		Assessment:         a,
	}
}
