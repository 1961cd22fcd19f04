package quality

import (
	"context"
	"sync"
	"time"

	domain "github.com/kangopak/ohisee-api/internal/domain/quality"
)

// DefaultQuietPeriod before an inline check fires.
const DefaultQuietPeriod = 3 * time.Second

// CheckResult is one inline scoring outcome. A non-nil Err is advisory
// only; it never blocks typing or saving.
type CheckResult struct {
	Assessment domain.Assessment
	Err        error
}

// CheckFunc performs one scoring request.
type CheckFunc func(ctx context.Context, formType domain.FormType, rec domain.Record) (domain.Assessment, error)

// InlineChecker gives a running, non-blocking quality estimate while the
// user types. Each Schedule call resets the quiet timer and cancels any
// in-flight request from a previous keystroke burst (cancellation, not
// queuing): only the latest burst's result is ever delivered.
type InlineChecker struct {
	Quiet    time.Duration
	Check    CheckFunc
	OnResult func(CheckResult)

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	seq    uint64
}

// Schedule registers a fresh keystroke burst. The scoring request fires
// after the quiet period elapses with no further calls.
func (c *InlineChecker) Schedule(formType domain.FormType, rec domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	if c.cancel != nil {
		c.cancel() // supersede any in-flight request
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.seq++
	seq := c.seq

	quiet := c.Quiet
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}

	c.timer = time.AfterFunc(quiet, func() {
		assessment, err := c.Check(ctx, formType, rec)

		// A newer burst may have arrived while the scorer ran; its
		// result owns the UI state, ours is discarded.
		if ctx.Err() != nil {
			return
		}
		c.mu.Lock()
		stale := seq != c.seq
		c.mu.Unlock()
		if stale {
			return
		}
		c.OnResult(CheckResult{Assessment: assessment, Err: err})
	})
}

// Stop cancels any pending or in-flight check.
func (c *InlineChecker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++ // invalidate anything already past the timer
}
