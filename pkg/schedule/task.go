package schedule

import "time"

// AdvanceFunc moves a task forward on each tick. It must derive its progress
// from the scheduler's elapsed time, never from wall time directly. The
// returned delay is the task's next requested wait; returning more == false
// signals that the task has no further work and should be deactivated.
//
// Implementations must be short and non-blocking; they run synchronously
// inside the tick on the surface's logical thread. They may call back into
// the scheduler (Register, Stop, Unregister) — such mutations take effect
// against the live state and become visible on the next tick.
type AdvanceFunc func() (delay time.Duration, more bool)

// Task is a registered unit of periodic work.
type Task struct {
	// ID uniquely identifies the task within a scheduler.
	ID string
	// Advance is invoked once per tick while the task is active.
	Advance AdvanceFunc
	// Reset restores the task's initial state for replay. Optional.
	Reset func()
	// Metadata carries opaque, caller-owned annotations.
	Metadata map[string]any
}
