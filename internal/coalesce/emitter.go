// Package coalesce provides an emitter that collapses bursts of triggers into
// one downstream notification per window, with the window restarting on every trigger.
package coalesce

import (
	"sync"
	"time"
)

// DefaultWindow is the coalescing window for change broadcasts.
const DefaultWindow = 300 * time.Millisecond

// Emitter coalesces bursts of Trigger calls into one call of fn.
// fn runs on a timer goroutine, never while the emitter lock is held.
type Emitter struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func()
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewEmitter returns an emitter calling fn once per quiet window.
func NewEmitter(window time.Duration, fn func()) *Emitter {
	if window < 0 {
		window = 0
	}
	return &Emitter{window: window, fn: fn}
}

// Trigger (re)starts the window. The pending emission, if any, is cancelled.
func (e *Emitter) Trigger() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
	gen := e.gen
	e.timer = time.AfterFunc(e.window, func() { e.fire(gen) })
}

func (e *Emitter) fire(gen uint64) {
	e.mu.Lock()
	if e.stopped || gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	e.mu.Unlock()
	e.fn()
}

// Pending reports whether an emission is scheduled.
func (e *Emitter) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timer != nil
}

// Flush emits immediately if an emission is pending.
func (e *Emitter) Flush() {
	e.mu.Lock()
	if e.stopped || e.timer == nil {
		e.mu.Unlock()
		return
	}
	e.timer.Stop()
	e.timer = nil
	e.gen++
	e.mu.Unlock()
	e.fn()
}

// Stop cancels any pending emission and ignores future triggers.
func (e *Emitter) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
