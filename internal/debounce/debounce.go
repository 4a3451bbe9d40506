// Package debounce coalesces bursts of events into one delayed signal.
package debounce

import (
	"sync"
	"time"
)

// Timer is a restartable single-shot timer. Every Trigger cancels the
// pending fire and schedules a new one after the delay. Fires are delivered
// on C, which holds at most one pending signal, so the receiving loop stays
// the only goroutine that acts on them.
type Timer struct {
	C <-chan struct{}

	c     chan struct{}
	delay time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

// New creates a stopped timer.
func New(delay time.Duration) *Timer {
	c := make(chan struct{}, 1)
	return &Timer{C: c, c: c, delay: delay}
}

// Delay returns the settle delay.
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// Trigger (re)starts the settle delay.
func (t *Timer) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, t.fire)
}

// Stop cancels a pending fire. A signal already delivered on C stays there.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Timer) fire() {
	select {
	case t.c <- struct{}{}:
	default:
		// A fire is already pending
	}
}
