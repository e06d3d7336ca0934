package testing

import (
	"sync"
	"time"

	"github.com/go-easel/easel/pkg/schedule"
)

// ManualTimer is a schedule.Timer whose wakes only fire when the test says
// so. Scheduled wakes queue up in order; Fire delivers the earliest pending
// one synchronously on the calling goroutine.
type ManualTimer struct {
	mu    sync.Mutex
	wakes []*ManualWake
}

// ManualWake is one scheduled wake.
type ManualWake struct {
	timer *ManualTimer

	// Delay is the wait the scheduler requested.
	Delay time.Duration

	fn        func()
	fired     bool
	cancelled bool
}

// NewManualTimer returns an empty manual timer.
func NewManualTimer() *ManualTimer {
	return &ManualTimer{}
}

// Schedule implements schedule.Timer.
func (t *ManualTimer) Schedule(delay time.Duration, fn func()) schedule.Handle {
	w := &ManualWake{timer: t, Delay: delay, fn: fn}
	t.mu.Lock()
	t.wakes = append(t.wakes, w)
	t.mu.Unlock()
	return w
}

// Cancel implements schedule.Handle. Safe to call on an already-fired or
// already-cancelled wake.
func (w *ManualWake) Cancel() {
	w.timer.mu.Lock()
	defer w.timer.mu.Unlock()
	w.cancelled = true
}

// Fire delivers the earliest pending wake. Returns false if none is pending.
// Cancelled wakes are skipped, mirroring a host timer with synchronous
// cancellation.
func (t *ManualTimer) Fire() bool {
	t.mu.Lock()
	var next *ManualWake
	for _, w := range t.wakes {
		if !w.fired && !w.cancelled {
			next = w
			break
		}
	}
	if next == nil {
		t.mu.Unlock()
		return false
	}
	next.fired = true
	fn := next.fn
	t.mu.Unlock()

	fn()
	return true
}

// FireStale delivers the earliest wake even if it was cancelled, modelling a
// host timer whose callback raced past the cancellation. Returns false if
// nothing was ever scheduled or everything already fired.
func (t *ManualTimer) FireStale() bool {
	t.mu.Lock()
	var next *ManualWake
	for _, w := range t.wakes {
		if !w.fired {
			next = w
			break
		}
	}
	if next == nil {
		t.mu.Unlock()
		return false
	}
	next.fired = true
	fn := next.fn
	t.mu.Unlock()

	fn()
	return true
}

// Pending returns the number of wakes that are neither fired nor cancelled.
func (t *ManualTimer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, w := range t.wakes {
		if !w.fired && !w.cancelled {
			n++
		}
	}
	return n
}

// NextDelay returns the requested delay of the earliest pending wake.
func (t *ManualTimer) NextDelay() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, w := range t.wakes {
		if !w.fired && !w.cancelled {
			return w.Delay, true
		}
	}
	return 0, false
}

// Scheduled returns the total number of wakes ever scheduled.
func (t *ManualTimer) Scheduled() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.wakes)
}
