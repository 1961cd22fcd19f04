package endofday

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domaudit "github.com/kangopak/ohisee-api/internal/domain/audit"
	dommjc "github.com/kangopak/ohisee-api/internal/domain/mjc"
	domnca "github.com/kangopak/ohisee-api/internal/domain/nca"
	domnotify "github.com/kangopak/ohisee-api/internal/domain/notify"
	domreport "github.com/kangopak/ohisee-api/internal/domain/report"
	domwo "github.com/kangopak/ohisee-api/internal/domain/workorder"
)

type stubClock struct{ t time.Time }

func (c stubClock) Now() time.Time { return c.t }

type fakeNCARepo struct {
	statuses map[domnca.ID]domnca.Status
	numbers  map[domnca.ID]string
	lockErr  error
	locked   []domnca.ID
}

func (r *fakeNCARepo) Save(context.Context, *domnca.NCA) error { return nil }
func (r *fakeNCARepo) Get(_ context.Context, id domnca.ID) (*domnca.NCA, error) {
	num, ok := r.numbers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &domnca.NCA{ID: id, Number: num, Status: r.statuses[id]}, nil
}
func (r *fakeNCARepo) List(context.Context, domnca.Filter) ([]*domnca.NCA, error) { return nil, nil }
func (r *fakeNCARepo) ListByYear(context.Context, int) ([]*domnca.NCA, error)     { return nil, nil }
func (r *fakeNCARepo) StatusesByIDs(_ context.Context, ids []domnca.ID) (map[domnca.ID]domnca.Status, error) {
	out := make(map[domnca.ID]domnca.Status)
	for _, id := range ids {
		if st, ok := r.statuses[id]; ok {
			out[id] = st
		}
	}
	return out, nil
}
func (r *fakeNCARepo) SetStatusByOwner(_ context.Context, _ string, ids []domnca.ID, status domnca.Status) error {
	if r.lockErr != nil {
		return r.lockErr
	}
	for _, id := range ids {
		r.statuses[id] = status
	}
	r.locked = append(r.locked, ids...)
	return nil
}

type fakeMJCRepo struct {
	statuses map[dommjc.ID]dommjc.Status
	numbers  map[dommjc.ID]string
	locked   []dommjc.ID
}

func (r *fakeMJCRepo) Save(context.Context, *dommjc.MJC) error { return nil }
func (r *fakeMJCRepo) Get(_ context.Context, id dommjc.ID) (*dommjc.MJC, error) {
	num, ok := r.numbers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &dommjc.MJC{ID: id, Number: num, Status: r.statuses[id]}, nil
}
func (r *fakeMJCRepo) List(context.Context, dommjc.Filter) ([]*dommjc.MJC, error) { return nil, nil }
func (r *fakeMJCRepo) StatusesByIDs(_ context.Context, ids []dommjc.ID) (map[dommjc.ID]dommjc.Status, error) {
	out := make(map[dommjc.ID]dommjc.Status)
	for _, id := range ids {
		if st, ok := r.statuses[id]; ok {
			out[id] = st
		}
	}
	return out, nil
}
func (r *fakeMJCRepo) SetStatusByOwner(_ context.Context, _ string, ids []dommjc.ID, status dommjc.Status) error {
	for _, id := range ids {
		r.statuses[id] = status
	}
	r.locked = append(r.locked, ids...)
	return nil
}

type fakeWORepo struct{ completed []domwo.ID }

func (r *fakeWORepo) Get(context.Context, domwo.ID) (*domwo.WorkOrder, error) { return nil, nil }
func (r *fakeWORepo) ListByOperator(context.Context, string) ([]*domwo.WorkOrder, error) {
	return nil, nil
}
func (r *fakeWORepo) CompleteByOwner(_ context.Context, _ string, ids []domwo.ID, _ time.Time) error {
	r.completed = append(r.completed, ids...)
	return nil
}

type fakeAudit struct {
	entries []*domaudit.Entry
	err     error
}

func (a *fakeAudit) Append(_ context.Context, e *domaudit.Entry) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, e)
	return nil
}
func (a *fakeAudit) ListByEntity(context.Context, string, string) ([]*domaudit.Entry, error) {
	return a.entries, nil
}

type fakeReports struct {
	err  error
	data domreport.EndOfDayData
}

func (g *fakeReports) EndOfDayPDF(_ context.Context, data domreport.EndOfDayData) ([]byte, error) {
	g.data = data
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4 stub"), nil
}

type fakeArtifacts struct{ err error }

func (s *fakeArtifacts) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "http://minio.local/reports/" + key, nil
}

type fakeNotifier struct {
	err       error
	summaries []domnotify.EndOfDaySummary
}

func (n *fakeNotifier) SendMachineDownAlert(context.Context, domnotify.MachineDownAlert) error {
	return nil
}
func (n *fakeNotifier) SendEndOfDaySummary(_ context.Context, s domnotify.EndOfDaySummary) error {
	if n.err != nil {
		return n.err
	}
	n.summaries = append(n.summaries, s)
	return nil
}

type fixture struct {
	svc       *Service
	ncas      *fakeNCARepo
	mjcs      *fakeMJCRepo
	wos       *fakeWORepo
	audit     *fakeAudit
	reports   *fakeReports
	artifacts *fakeArtifacts
	notifier  *fakeNotifier
}

func newFixture() *fixture {
	f := &fixture{
		ncas: &fakeNCARepo{
			statuses: map[domnca.ID]domnca.Status{"nca-1": domnca.StatusSubmitted, "nca-2": domnca.StatusSubmitted},
			numbers:  map[domnca.ID]string{"nca-1": "NCA-2026-00000041", "nca-2": "NCA-2026-00000042"},
		},
		mjcs: &fakeMJCRepo{
			statuses: map[dommjc.ID]dommjc.Status{"mjc-1": dommjc.StatusOpen},
			numbers:  map[dommjc.ID]string{"mjc-1": "MJC-2026-00000007"},
		},
		wos:       &fakeWORepo{},
		audit:     &fakeAudit{},
		reports:   &fakeReports{},
		artifacts: &fakeArtifacts{},
		notifier:  &fakeNotifier{},
	}
	f.svc = &Service{
		NCAs:       f.ncas,
		MJCs:       f.mjcs,
		WorkOrders: f.wos,
		Audit:      f.audit,
		Reports:    f.reports,
		Artifacts:  f.artifacts,
		Notifier:   f.notifier,
		Clock:      stubClock{t: time.Date(2026, 8, 31, 18, 30, 0, 0, time.UTC)},
		Log:        zap.NewNop().Sugar(),
	}
	return f
}

var testActor = domaudit.Actor{UserID: "op-7", Name: "Sam Lee", Role: "operator", IP: "10.1.2.3"}

func TestSubmitBlocksOnDraftNCA(t *testing.T) {
	f := newFixture()
	f.ncas.statuses["nca-2"] = domnca.StatusDraft

	_, err := f.svc.Submit(context.Background(), testActor, SubmitCommand{
		NCAIDs: []string{"nca-1", "nca-2"},
		MJCIDs: []string{"mjc-1"},
	})

	var blocker *DraftBlockerError
	require.ErrorAs(t, err, &blocker)
	assert.Equal(t, "NCA", blocker.Kind)
	assert.Equal(t, 1, blocker.Count)
	assert.Empty(t, f.ncas.locked, "a blocked submission must mutate nothing")
	assert.Empty(t, f.mjcs.locked)
	assert.Empty(t, f.audit.entries)
	assert.Empty(t, f.notifier.summaries)
}

func TestSubmitBlocksOnDraftMJC(t *testing.T) {
	f := newFixture()
	f.mjcs.statuses["mjc-1"] = dommjc.StatusDraft

	_, err := f.svc.Submit(context.Background(), testActor, SubmitCommand{MJCIDs: []string{"mjc-1"}})

	var blocker *DraftBlockerError
	require.ErrorAs(t, err, &blocker)
	assert.Equal(t, "MJC", blocker.Kind)
	assert.Empty(t, f.mjcs.locked)
}

func TestSubmitLocksRecordsAndRunsSideEffects(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Submit(context.Background(), testActor, SubmitCommand{
		ShiftNotes:   "Line 2 ran slow after the 15:00 changeover.",
		NCAIDs:       []string{"nca-1", "nca-2"},
		MJCIDs:       []string{"mjc-1"},
		WorkOrderIDs: []string{"wo-1", "wo-2", "wo-3"},
	})

	require.NoError(t, err)
	assert.Equal(t, "eod-1788201000000", res.SubmissionID)
	assert.Equal(t, 2, res.NCAsLocked)
	assert.Equal(t, 1, res.MJCsLocked)
	assert.Equal(t, 3, res.WorkOrders)

	assert.Equal(t, []domnca.ID{"nca-1", "nca-2"}, f.ncas.locked)
	assert.Equal(t, domnca.StatusSubmitted, f.ncas.statuses["nca-1"])
	assert.Equal(t, []dommjc.ID{"mjc-1"}, f.mjcs.locked)
	assert.Equal(t, dommjc.StatusOpen, f.mjcs.statuses["mjc-1"])
	assert.Len(t, f.wos.completed, 3)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "end_of_day_submitted", f.audit.entries[0].Action)

	require.Len(t, f.notifier.summaries, 1)
	summary := f.notifier.summaries[0]
	assert.Equal(t, []string{"NCA-2026-00000041", "NCA-2026-00000042"}, summary.NCANumbers)
	assert.Equal(t, []string{"MJC-2026-00000007"}, summary.MJCNumbers)
	assert.Contains(t, summary.ReportURL, "end-of-day/op-7/")

	for _, e := range res.BestEffort {
		assert.True(t, e.OK, "side effect %s should have succeeded", e.Name)
	}
}

func TestSubmitToleratesBestEffortFailures(t *testing.T) {
	f := newFixture()
	f.audit.err = errors.New("audit store down")
	f.reports.err = errors.New("pdf render failed")
	f.notifier.err = errors.New("smtp refused")

	res, err := f.svc.Submit(context.Background(), testActor, SubmitCommand{NCAIDs: []string{"nca-1"}})

	require.NoError(t, err, "side-effect failures must not fail the submission")
	assert.Equal(t, []domnca.ID{"nca-1"}, f.ncas.locked, "locks still applied")
	assert.Empty(t, res.ReportURL)

	failed := map[string]bool{}
	for _, e := range res.BestEffort {
		if !e.OK {
			failed[e.Name] = true
			assert.NotEmpty(t, e.Detail)
		}
	}
	assert.Equal(t, map[string]bool{"audit_trail": true, "report": true, "email": true}, failed)
}

func TestSubmitFailsWhenLockFails(t *testing.T) {
	f := newFixture()
	f.ncas.lockErr = errors.New("deadlock")

	_, err := f.svc.Submit(context.Background(), testActor, SubmitCommand{NCAIDs: []string{"nca-1"}})

	require.Error(t, err)
	assert.Empty(t, f.audit.entries, "no side effects after a failed lock")
	assert.Empty(t, f.notifier.summaries)
}
