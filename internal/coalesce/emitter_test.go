// emitter_test.go — Tests for the coalescing emitter.
package coalesce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestEmitter_CoalescesBurst(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	done := make(chan struct{}, 4)
	e := NewEmitter(30*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})

	for i := 0; i < 10; i++ {
		e.Trigger()
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("emitter never fired")
	}
	time.Sleep(80 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestEmitter_WindowRestartsOnTrigger(t *testing.T) {
	t.Parallel()
	fired := make(chan time.Time, 2)
	e := NewEmitter(60*time.Millisecond, func() { fired <- time.Now() })

	start := time.Now()
	e.Trigger()
	time.Sleep(40 * time.Millisecond)
	e.Trigger() // restarts the window

	select {
	case at := <-fired:
		if at.Sub(start) < 90*time.Millisecond {
			t.Errorf("fired after %v, window did not restart", at.Sub(start))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("emitter never fired")
	}
}

func TestEmitter_StopCancelsPending(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	e := NewEmitter(20*time.Millisecond, func() { calls.Add(1) })
	e.Trigger()
	e.Stop()
	e.Trigger()
	time.Sleep(60 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("calls = %d after Stop, want 0", calls.Load())
	}
}

func TestEmitter_FlushFiresOnce(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	e := NewEmitter(time.Hour, func() { calls.Add(1) })
	e.Flush() // nothing pending
	e.Trigger()
	if !e.Pending() {
		t.Fatal("expected pending emission")
	}
	e.Flush()
	e.Flush()
	if calls.Load() != 1 || e.Pending() {
		t.Errorf("calls = %d pending = %v", calls.Load(), e.Pending())
	}
}
