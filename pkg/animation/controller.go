// Package animation provides value animation on top of the scheduler's
// shared timeline.
//
// A [Controller] drives a value from 0.0 to 1.0 over a duration by
// registering a task on a [schedule.Scheduler]. Progress is always computed
// from the scheduler's elapsed time, never from wall time, so the same
// controller behaves identically under realtime preview and deterministic
// export. Use [Tween] to map the 0-1 value to other ranges or types and the
// curve functions ([EaseIn], [EaseOut], [EaseInOut]) for natural motion.
package animation

import (
	"fmt"
	"time"

	"github.com/go-easel/easel/pkg/schedule"
)

// defaultFrameInterval is the sampling rate a controller requests from the
// scheduler between value updates (~60Hz).
const defaultFrameInterval = 16 * time.Millisecond

// Status represents the current state of an animation.
//
// While animating, status is StatusForward or StatusReverse. When stopped,
// status is StatusDismissed (at the lower bound) or StatusCompleted (at the
// upper bound).
type Status int

const (
	// StatusDismissed means the animation is stopped at the lower bound.
	StatusDismissed Status = iota
	// StatusForward means the animation is playing toward the upper bound.
	StatusForward
	// StatusReverse means the animation is playing toward the lower bound.
	StatusReverse
	// StatusCompleted means the animation is stopped at the upper bound.
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusDismissed:
		return "dismissed"
	case StatusForward:
		return "forward"
	case StatusReverse:
		return "reverse"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Controller drives an animation by producing values over the scheduler's
// shared timeline.
type Controller struct {
	// Value is the current animation value.
	Value float64

	// Duration is the length of the animation.
	Duration time.Duration

	// Curve transforms linear progress (optional).
	Curve func(float64) float64

	// LowerBound is the minimum value (default 0.0).
	LowerBound float64

	// UpperBound is the maximum value (default 1.0).
	UpperBound float64

	// FrameInterval is the delay requested between value updates.
	// Defaults to ~16ms when zero.
	FrameInterval time.Duration

	sched           *schedule.Scheduler
	id              string
	status          Status
	target          float64
	startValue      float64
	startElapsed    time.Duration
	direction       Status
	listeners       map[int]func()
	statusListeners map[int]func(Status)
	nextListenerID  int
}

// NewController creates a controller registered under id on the scheduler.
func NewController(s *schedule.Scheduler, id string, duration time.Duration) *Controller {
	return &Controller{
		Duration:        duration,
		LowerBound:      0,
		UpperBound:      1,
		Curve:           Linear,
		sched:           s,
		id:              id,
		status:          StatusDismissed,
		listeners:       make(map[int]func()),
		statusListeners: make(map[int]func(Status)),
	}
}

// Forward animates from the current value to the upper bound.
func (c *Controller) Forward() {
	c.animateTo(c.UpperBound, StatusForward)
}

// Reverse animates from the current value to the lower bound.
func (c *Controller) Reverse() {
	c.animateTo(c.LowerBound, StatusReverse)
}

// AnimateTo animates to a specific target value.
func (c *Controller) AnimateTo(target float64) {
	if target > c.Value {
		c.animateTo(target, StatusForward)
	} else {
		c.animateTo(target, StatusReverse)
	}
}

func (c *Controller) animateTo(target float64, direction Status) {
	c.target = target
	c.startValue = c.Value
	c.startElapsed = c.sched.Elapsed()
	c.direction = direction
	c.setStatus(direction)

	c.sched.Register(schedule.Task{
		ID:      c.id,
		Advance: c.advance,
		Reset:   c.replay,
		Metadata: map[string]any{
			"kind": "animation.controller",
		},
	})
}

// advance recomputes the value from the shared clock. It is a cheap check
// every tick; the scheduler may invoke it far more often than FrameInterval
// when faster tasks share the timeline.
func (c *Controller) advance() (time.Duration, bool) {
	if c.Duration <= 0 {
		c.Value = c.target
		c.notifyListeners()
		c.finish()
		return 0, false
	}

	progress := float64(c.sched.Elapsed()-c.startElapsed) / float64(c.Duration)
	if progress >= 1 {
		progress = 1
	}
	eased := progress
	if c.Curve != nil {
		eased = c.Curve(progress)
	}
	c.Value = c.startValue + (c.target-c.startValue)*eased
	c.notifyListeners()

	if progress >= 1 {
		c.finish()
		return 0, false
	}
	interval := c.FrameInterval
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	return interval, true
}

// replay rewinds the animation for a scheduler ReplayAll: the run restarts
// from the lower bound against the zeroed shared clock.
func (c *Controller) replay() {
	c.Value = c.LowerBound
	c.startValue = c.LowerBound
	c.startElapsed = 0
	c.setStatus(c.direction)
	c.notifyListeners()
}

func (c *Controller) finish() {
	if c.Value <= c.LowerBound {
		c.setStatus(StatusDismissed)
	} else if c.Value >= c.UpperBound {
		c.setStatus(StatusCompleted)
	}
}

// Reset stops the animation and snaps the value to the lower bound.
func (c *Controller) Reset() {
	c.Stop()
	c.Value = c.LowerBound
	c.setStatus(StatusDismissed)
	c.notifyListeners()
}

// Stop halts the animation at the current value. The task stays registered
// so a scheduler replay can restart it.
func (c *Controller) Stop() {
	c.sched.Stop(c.id)
}

// Status returns the current animation status.
func (c *Controller) Status() Status {
	return c.status
}

// IsAnimating returns true if the animation is currently running.
func (c *Controller) IsAnimating() bool {
	return c.status == StatusForward || c.status == StatusReverse
}

// IsCompleted returns true if the animation finished at the upper bound.
func (c *Controller) IsCompleted() bool {
	return c.status == StatusCompleted
}

// IsDismissed returns true if the animation is at the lower bound.
func (c *Controller) IsDismissed() bool {
	return c.status == StatusDismissed
}

// AddListener adds a callback that fires whenever the value changes.
// Returns an unsubscribe function.
func (c *Controller) AddListener(fn func()) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

// AddStatusListener adds a callback that fires whenever the status changes.
// Returns an unsubscribe function.
func (c *Controller) AddStatusListener(fn func(Status)) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.statusListeners[id] = fn
	return func() {
		delete(c.statusListeners, id)
	}
}

func (c *Controller) setStatus(status Status) {
	if c.status == status {
		return
	}
	c.status = status
	for _, listener := range c.statusListeners {
		listener(status)
	}
}

func (c *Controller) notifyListeners() {
	for _, listener := range c.listeners {
		listener()
	}
}

// Dispose unregisters the controller's task and drops all listeners.
func (c *Controller) Dispose() {
	c.sched.Unregister(c.id)
	c.listeners = nil
	c.statusListeners = nil
}
