package schedule

import (
	"sync"
	"time"
)

// Debouncer delays a function until calls stop arriving for the configured
// delay. Every Call restarts the wait and replaces the pending function, so
// only the last one runs.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	fn      func()
	gen     uint64
	running sync.WaitGroup
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.fn = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Stop drops the pending call. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clear() != nil
}

// Flush runs the pending call now instead of waiting out the delay.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.clear()
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Wait blocks until every call already handed to a timer goroutine has
// returned. Pair it with Stop or Flush so no new call can start meanwhile.
func (d *Debouncer) Wait() {
	d.running.Wait()
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}

// fire runs fn only if no newer Call, Stop or Flush happened since gen was issued.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.fn == nil {
		d.mu.Unlock()
		return
	}
	fn := d.clear()
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	fn()
}

// clear must be called with mu held.
func (d *Debouncer) clear() func() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.fn
	d.fn = nil
	d.gen++
	return fn
}
