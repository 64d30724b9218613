package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single fire. It is a
// two-state scheduler: idle until the first Trigger arms the timer,
// pending while armed. Every further Trigger re-arms the timer, so the
// fire happens one window after the last trigger, not the first.
type Debouncer struct {
	window time.Duration
	fire   func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a Debouncer that calls fire one quiet window
// after the most recent Trigger. The fire function runs on the timer's
// goroutine.
func NewDebouncer(window time.Duration, fire func()) *Debouncer {
	return &Debouncer{window: window, fire: fire}
}

// Trigger arms the timer, canceling any previously armed one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.expire)
}

func (d *Debouncer) expire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fire()
}

// Stop cancels any pending fire. Further Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
