package quality

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domaudit "github.com/kangopak/ohisee-api/internal/domain/audit"
	domain "github.com/kangopak/ohisee-api/internal/domain/quality"
)

type stubClock struct{ t time.Time }

func (c stubClock) Now() time.Time { return c.t }

type stubScorer struct {
	calls      int
	assessment domain.Assessment
	err        error
}

func (s *stubScorer) Score(_ context.Context, _ domain.ScoreRequest) (domain.Assessment, error) {
	s.calls++
	return s.assessment, s.err
}

type stubAudit struct {
	entries []*domaudit.Entry
	err     error
}

func (a *stubAudit) Append(_ context.Context, e *domaudit.Entry) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, e)
	return nil
}

func (a *stubAudit) ListByEntity(_ context.Context, _, _ string) ([]*domaudit.Entry, error) {
	return a.entries, nil
}

func newService(scorer *stubScorer, audit *stubAudit) *Service {
	return &Service{
		Scorer: scorer,
		Audit:  audit,
		Clock:  stubClock{t: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)},
		Log:    zap.NewNop().Sugar(),
	}
}

func TestValidateSubmissionConfidentialBypassesScorer(t *testing.T) {
	scorer := &stubScorer{}
	svc := newService(scorer, &stubAudit{})

	decision, err := svc.ValidateSubmission(context.Background(), domain.FormNCA, domain.Record{
		Description: "short and vague, would normally fail every check",
	}, true)

	require.NoError(t, err)
	assert.Equal(t, GateResolved, decision.State)
	assert.True(t, decision.ReadyForSubmission)
	assert.Equal(t, 100, decision.Assessment.Score)
	assert.Zero(t, scorer.calls, "confidential content must never reach the scorer")
}

func TestValidateSubmissionMJCPlaceholder(t *testing.T) {
	scorer := &stubScorer{}
	svc := newService(scorer, &stubAudit{})

	decision, err := svc.ValidateSubmission(context.Background(), domain.FormMJC, domain.Record{}, false)

	require.NoError(t, err)
	assert.True(t, decision.ReadyForSubmission)
	assert.Equal(t, 75, decision.Assessment.Score)
	assert.Zero(t, scorer.calls)
}

func TestValidateSubmissionRuleViolationSkipsScorer(t *testing.T) {
	scorer := &stubScorer{}
	svc := newService(scorer, &stubAudit{})

	decision, err := svc.ValidateSubmission(context.Background(), domain.FormNCA, domain.Record{
		NCType:      "finished-goods",
		Description: "Bad product. Found problem.",
	}, false)

	require.NoError(t, err)
	assert.Equal(t, GateResolved, decision.State)
	assert.False(t, decision.ReadyForSubmission)
	assert.Equal(t, 50, decision.Assessment.Score)
	assert.NotEmpty(t, decision.Assessment.Errors)
	assert.Zero(t, scorer.calls, "obvious rule failures must not spend an AI call")
}

func TestValidateSubmissionScorerFailureNeverPasses(t *testing.T) {
	scorer := &stubScorer{err: errors.New("upstream timeout")}
	svc := newService(scorer, &stubAudit{})

	_, err := svc.ValidateSubmission(context.Background(), domain.FormNCA, domain.Record{
		NCType:      "raw-material",
		Description: strings.Repeat("delamination observed on batch B-12 at 14:30 in area 2, 40 units ", 2),
	}, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrScorerUnavailable)
}

func TestValidateSubmissionMergesCorrectiveActionWarnings(t *testing.T) {
	scorer := &stubScorer{assessment: domain.NewAssessment(domain.Breakdown{Completeness: 28, Accuracy: 22, Clarity: 18, HazardIdentification: 13, Evidence: 9}, nil, nil)}
	svc := newService(scorer, &stubAudit{})

	decision, err := svc.ValidateSubmission(context.Background(), domain.FormNCA, domain.Record{
		NCType:           "raw-material",
		Description:      strings.Repeat("delamination observed on batch B-12 at 14:30 in area 2, 40 units ", 2),
		CorrectiveAction: "Supervisor to replace the part",
	}, false)

	require.NoError(t, err)
	assert.True(t, decision.ReadyForSubmission)
	assert.NotEmpty(t, decision.Assessment.Warnings, "missing deadline/verification should surface as warnings")
	assert.Equal(t, 1, scorer.calls)
}

func TestValidateSubmissionUnknownFormType(t *testing.T) {
	svc := newService(&stubScorer{}, &stubAudit{})
	_, err := svc.ValidateSubmission(context.Background(), domain.FormType("workorder"), domain.Record{}, false)
	assert.ErrorIs(t, err, domain.ErrUnknownFormType)
}

func TestRecordOverrideReasonLength(t *testing.T) {
	audit := &stubAudit{}
	svc := newService(&stubScorer{}, audit)
	actor := domaudit.Actor{UserID: "u-1", Name: "Dana", Role: "supervisor", IP: "10.0.0.5"}

	err := svc.RecordOverride(context.Background(), actor, domain.FormNCA, "nca-1", 60, "too short")
	assert.ErrorIs(t, err, domain.ErrOverrideReasonTooShort)
	assert.Empty(t, audit.entries, "a rejected override must write nothing")

	err = svc.RecordOverride(context.Background(), actor, domain.FormNCA, "nca-1", 60, "customer shipment deadline, QA manager approved by phone")
	require.NoError(t, err)
	require.Len(t, audit.entries, 1)
	e := audit.entries[0]
	assert.Equal(t, "quality_gate_override", e.Action)
	assert.Equal(t, "u-1", e.UserID)
	assert.Equal(t, "10.0.0.5", e.IPAddress)
	assert.Equal(t, 60, e.Detail["quality_score"])
}

func TestRecordOverrideAuditFailureRejects(t *testing.T) {
	audit := &stubAudit{err: errors.New("db unavailable")}
	svc := newService(&stubScorer{}, audit)

	err := svc.RecordOverride(context.Background(), domaudit.Actor{UserID: "u-1"}, domain.FormNCA, "nca-1", 60,
		"customer shipment deadline, QA manager approved by phone")

	require.Error(t, err, "an override without a durable audit row must not count")
}
