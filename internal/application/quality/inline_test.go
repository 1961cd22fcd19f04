package quality

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/kangopak/ohisee-api/internal/domain/quality"
)

func TestInlineCheckerDebouncesToLatestBurst(t *testing.T) {
	var mu sync.Mutex
	var checked []string
	var results []CheckResult
	done := make(chan struct{}, 4)

	c := &InlineChecker{
		Quiet: 30 * time.Millisecond,
		Check: func(_ context.Context, _ domain.FormType, rec domain.Record) (domain.Assessment, error) {
			mu.Lock()
			checked = append(checked, rec.Description)
			mu.Unlock()
			return domain.NewAssessment(domain.Breakdown{Completeness: 30, Accuracy: 25, Clarity: 20, HazardIdentification: 15, Evidence: 10}, nil, nil), nil
		},
		OnResult: func(r CheckResult) {
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			done <- struct{}{}
		},
	}

	// Three keystrokes in quick succession: only the last may fire.
	c.Schedule(domain.FormNCA, domain.Record{Description: "first"})
	c.Schedule(domain.FormNCA, domain.Record{Description: "second"})
	c.Schedule(domain.FormNCA, domain.Record{Description: "third"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("inline check never fired")
	}
	// A brief grace period to catch any extra (incorrect) deliveries.
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"third"}, checked)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 100, results[0].Assessment.Score)
}

func TestInlineCheckerStopCancelsPending(t *testing.T) {
	fired := make(chan struct{}, 1)

	c := &InlineChecker{
		Quiet: 30 * time.Millisecond,
		Check: func(_ context.Context, _ domain.FormType, _ domain.Record) (domain.Assessment, error) {
			return domain.Assessment{}, nil
		},
		OnResult: func(CheckResult) { fired <- struct{}{} },
	}

	c.Schedule(domain.FormNCA, domain.Record{Description: "typing"})
	c.Stop()

	select {
	case <-fired:
		t.Fatal("stopped checker must not deliver a result")
	case <-time.After(120 * time.Millisecond):
	}
}

func TestInlineCheckerSupersededInFlightIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var delivered []string
	done := make(chan struct{}, 2)

	c := &InlineChecker{
		Quiet: 10 * time.Millisecond,
		Check: func(ctx context.Context, _ domain.FormType, rec domain.Record) (domain.Assessment, error) {
			if rec.Description == "slow" {
				select {
				case <-release:
				case <-ctx.Done():
					return domain.Assessment{}, ctx.Err()
				}
			}
			return domain.Assessment{}, nil
		},
		OnResult: func(r CheckResult) {
			mu.Lock()
			delivered = append(delivered, "result")
			mu.Unlock()
			done <- struct{}{}
		},
	}

	c.Schedule(domain.FormNCA, domain.Record{Description: "slow"})
	// Wait until the slow check is in flight, then supersede it.
	time.Sleep(40 * time.Millisecond)
	c.Schedule(domain.FormNCA, domain.Record{Description: "fast"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("superseding check never fired")
	}
	close(release)
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, delivered, 1, "the superseded in-flight result must be discarded")
}
