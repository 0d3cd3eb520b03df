// Package debounce provides a quiet-period trigger: a timer that restarts on
// every poke and fires its function only after the input has gone quiet.
package debounce

import (
	"sync"
	"time"
)

// Trigger fires fn once per quiet gap after the last Poke.
type Trigger struct {
	quiet time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New creates a trigger. fn runs on the timer goroutine.
func New(quiet time.Duration, fn func()) *Trigger {
	if quiet <= 0 {
		quiet = 500 * time.Millisecond
	}
	return &Trigger{quiet: quiet, fn: fn}
}

// Poke restarts the quiet-period timer. fn fires quiet after the last poke.
func (t *Trigger) Poke() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.quiet, t.fn)
}

// Stop cancels any pending fire. The trigger cannot be reused afterwards.
func (t *Trigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
