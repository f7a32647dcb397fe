package schedule

import (
	"sync"
	"time"
)

// Throttler runs at most one function per interval. A call arriving while the
// interval is open is held back and runs when it closes; later calls in the
// same window replace it.
type Throttler struct {
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	last    time.Time
	timer   *time.Timer
	pending func()
	running sync.WaitGroup
}

func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{interval: interval, now: time.Now}
}

// Call runs fn immediately on the caller's goroutine when the interval has
// elapsed, otherwise schedules it as the trailing call.
func (t *Throttler) Call(fn func()) {
	t.mu.Lock()

	now := t.now()
	if t.timer == nil && (t.last.IsZero() || now.Sub(t.last) >= t.interval) {
		t.last = now
		t.mu.Unlock()
		fn()
		return
	}

	t.pending = fn
	if t.timer == nil {
		wait := t.interval - now.Sub(t.last)
		t.timer = time.AfterFunc(wait, t.trailing)
	}
	t.mu.Unlock()
}

func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = nil
}

// Wait blocks until a trailing call already taken by the timer goroutine has
// returned. Call Stop first so no new trailing call is scheduled.
func (t *Throttler) Wait() {
	t.running.Wait()
}

func (t *Throttler) trailing() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	t.timer = nil
	if fn == nil {
		t.mu.Unlock()
		return
	}
	t.last = t.now()
	t.running.Add(1)
	t.mu.Unlock()

	defer t.running.Done()
	fn()
}
