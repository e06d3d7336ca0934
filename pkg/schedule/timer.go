package schedule

import "time"

// Timer is the scheduler's one-shot wake capability. The realtime loop never
// blocks; between ticks it parks entirely and relies on a scheduled wake.
//
// Cancel on a returned Handle must be safe to call on an already-fired or
// already-cancelled wake. The scheduler additionally guards against wakes
// that raced past a cancellation, so Schedule implementations do not need
// synchronous cancellation guarantees.
type Timer interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// Handle identifies a scheduled wake.
type Handle interface {
	Cancel()
}

// systemTimer schedules wakes with time.AfterFunc.
type systemTimer struct{}

type systemHandle struct {
	t *time.Timer
}

func (h *systemHandle) Cancel() {
	// Stop is a no-op on a fired timer; the scheduler's wake sequence
	// discards the late callback.
	h.t.Stop()
}

func (systemTimer) Schedule(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	return &systemHandle{t: time.AfterFunc(delay, fn)}
}

// SystemTimer returns a Timer backed by time.AfterFunc.
func SystemTimer() Timer { return systemTimer{} }
