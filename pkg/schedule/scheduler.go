// Package schedule multiplexes many independent, self-pacing periodic tasks
// onto one shared timeline per surface.
//
// # Timing regimes
//
// The scheduler supports two regimes over the same state machine:
//
//   - Realtime preview: [Scheduler.StartRealtime] enters a self-rescheduling
//     loop that paces ticks with an injected [Timer] and resynchronizes the
//     virtual clock against the injected [Clock] on every iteration.
//   - Deterministic: the caller repeatedly invokes [Scheduler.Tick] and owns
//     all pacing. No timer is involved, so frame sequences are reproducible
//     regardless of host execution speed (used for fixed-FPS export).
//
// # Ticks
//
// Each tick invokes every active task's advance function, collects the
// returned delays, advances the shared virtual clock by the minimum across
// all of them, and invokes the render sink exactly once. A fast task next to
// a slow one causes ticks at the fast task's rate; the slow task's advance
// still runs every tick and is expected to be a cheap no-op check until its
// own target time is reached.
//
// # Threading
//
// Execution is cooperative and effectively single-threaded: advance and
// reset callbacks and the render sink run synchronously inside the tick.
// Internal state is mutex-guarded only so the timer's wake goroutine and the
// owning goroutine can hand off safely; callbacks run without the lock held
// and may reenter the scheduler.
package schedule

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-easel/easel/pkg/errors"
)

// RenderSink materializes the current state of a surface. The scheduler
// invokes Draw exactly once per tick that advanced time.
type RenderSink interface {
	Draw()
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock used by the realtime loop.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTimer replaces the wake timer used by the realtime loop.
func WithTimer(t Timer) Option {
	return func(s *Scheduler) {
		if t != nil {
			s.timer = t
		}
	}
}

// WithSink sets the render sink invoked once per advancing tick.
func WithSink(sink RenderSink) Option {
	return func(s *Scheduler) { s.sink = sink }
}

// Scheduler owns the task registry, the active subset, the shared virtual
// clock, and the realtime self-pacing loop of one surface.
type Scheduler struct {
	mu     sync.Mutex
	clock  Clock
	timer  Timer
	sink   RenderSink
	tasks  map[string]*Task
	active map[string]struct{}

	// elapsed is the virtual duration since scheduler start or last replay,
	// the only clock tasks synchronize against. current is the separate
	// "now" stamp for the tick; replay resets elapsed but current keeps
	// tracking wall progress.
	elapsed time.Duration
	current time.Time

	// previewing means wall-clock pacing has been engaged; running means the
	// self-rescheduling loop is live (a wake is pending or a step is in
	// flight). startedAt anchors the elapsed-to-wall resync.
	previewing bool
	running    bool
	startedAt  time.Time

	wake    Handle
	wakeSeq uint64

	inTick bool
	rearm  bool

	ticks uint64
}

// New creates a scheduler. With no options it uses the system clock and
// timer and has no render sink.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:  SystemClock(),
		timer:  SystemTimer(),
		tasks:  make(map[string]*Task),
		active: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = s.clock.Now()
	return s
}

// Register inserts or replaces a task and makes it active. When the realtime
// loop is engaged, registration cancels any pending wake and ticks
// immediately: the new task may require a strictly shorter wait than the one
// currently scheduled, and delaying it would violate its timing contract.
func (s *Scheduler) Register(t Task) {
	if t.ID == "" || t.Advance == nil {
		errors.Report(&errors.Error{
			Op:   "schedule.Register",
			Kind: errors.KindConfig,
			Err:  fmt.Errorf("task needs a non-empty ID and an Advance func (id=%q)", t.ID),
		})
		return
	}

	s.mu.Lock()
	task := t
	s.tasks[t.ID] = &task
	s.active[t.ID] = struct{}{}
	Logger().Debug("task registered", "id", t.ID, "active", len(s.active))

	if !s.previewing {
		s.mu.Unlock()
		return
	}
	if s.inTick {
		// Mid-tick registration: the running tick's snapshot stays intact;
		// force an immediate wake once it completes.
		s.rearm = true
		s.mu.Unlock()
		return
	}
	s.cancelWakeLocked()
	s.running = true
	if s.startedAt.IsZero() {
		s.startedAt = s.clock.Now().Add(-s.elapsed)
	}
	s.mu.Unlock()
	s.step()
}

// Stop removes the task from the active set. The task stays registered so a
// later replay can restore it. Unknown ids are ignored; races during
// teardown are expected.
func (s *Scheduler) Stop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(id)
}

func (s *Scheduler) stopLocked(id string) {
	if _, ok := s.active[id]; !ok {
		return
	}
	delete(s.active, id)
	if len(s.active) == 0 {
		s.cancelWakeLocked()
		s.running = false
	}
}

// Unregister stops the task and forgets it entirely. Unknown ids are ignored.
func (s *Scheduler) Unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(id)
	delete(s.tasks, id)
}

// Tick runs one synchronous scheduler pass: it invokes every active task's
// advance function, deactivates tasks that signal completion, advances the
// shared clock by the minimum requested delay, and invokes the render sink
// once. It returns that minimum and true, or zero and false when no task
// produced work (in which case the clock does not move and the sink is not
// invoked).
//
// In deterministic mode the caller invokes Tick directly and owns all
// pacing; in realtime mode the loop invokes it.
func (s *Scheduler) Tick() (time.Duration, bool) {
	return s.tick()
}

func (s *Scheduler) tick() (time.Duration, bool) {
	s.mu.Lock()
	if s.inTick {
		// A callback reentered Tick; the outer pass is already servicing
		// the active set.
		s.mu.Unlock()
		return 0, false
	}
	s.inTick = true
	snapshot := make([]string, 0, len(s.active))
	for id := range s.active {
		snapshot = append(snapshot, id)
	}
	s.mu.Unlock()

	var min time.Duration
	have := false
	for _, id := range snapshot {
		s.mu.Lock()
		_, live := s.active[id]
		task := s.tasks[id]
		s.mu.Unlock()
		if !live || task == nil {
			// Removed by an earlier callback this tick; must not revisit.
			continue
		}

		delay, more := s.callAdvance(task)
		if !more {
			s.mu.Lock()
			s.stopLocked(id)
			s.mu.Unlock()
			continue
		}
		if delay < 0 {
			errors.Report(&errors.Error{
				Op:     "schedule.Tick",
				Kind:   errors.KindDelay,
				TaskID: id,
				Err:    fmt.Errorf("advance returned negative delay %v; treating as 0", delay),
			})
			delay = 0
		}
		if !have || delay < min {
			min = delay
			have = true
		}
	}

	s.mu.Lock()
	s.inTick = false
	if !have {
		s.mu.Unlock()
		return 0, false
	}
	s.elapsed += min
	s.current = s.current.Add(min)
	s.ticks++
	sink := s.sink
	Logger().Debug("tick", "min", min, "elapsed", s.elapsed, "active", len(s.active))
	s.mu.Unlock()

	if sink != nil {
		s.callDraw(sink)
	}
	return min, true
}

// StartRealtime engages wall-clock pacing and enters the self-rescheduling
// loop. It is idempotent: a no-op while the loop is already live. Elapsed
// time is preserved across a restart; each loop iteration resynchronizes the
// virtual clock to wall progress before ticking, defending against
// accumulated drift in the underlying timer.
func (s *Scheduler) StartRealtime() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.previewing = true
	s.running = true
	s.startedAt = s.clock.Now().Add(-s.elapsed)
	s.mu.Unlock()
	s.step()
}

// step is one realtime loop iteration: resync, tick, schedule the next wake.
func (s *Scheduler) step() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	s.current = now
	s.elapsed = now.Sub(s.startedAt)
	s.mu.Unlock()

	delay, ok := s.tick()

	s.mu.Lock()
	if s.rearm {
		// A task registered during the tick may need a shorter wait than
		// anything collected; wake immediately and let the next tick see it.
		s.rearm = false
		delay, ok = 0, true
	}
	if ok && len(s.active) > 0 && s.running {
		s.scheduleWakeLocked(delay)
	} else {
		s.running = false
	}
	s.mu.Unlock()
}

// ReplayAll rewinds the shared timeline: it cancels any pending wake, zeroes
// elapsed time, invokes Reset on every registered task (including previously
// stopped ones), reactivates all of them, and — when wall-clock pacing is
// engaged — restarts the realtime loop.
func (s *Scheduler) ReplayAll() {
	s.mu.Lock()
	s.cancelWakeLocked()
	s.running = false
	s.elapsed = 0
	s.startedAt = time.Time{}
	resets := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		resets = append(resets, t)
	}
	s.mu.Unlock()

	for _, t := range resets {
		if t.Reset != nil {
			s.callReset(t)
		}
	}

	s.mu.Lock()
	for id := range s.tasks {
		s.active[id] = struct{}{}
	}
	restart := s.previewing && len(s.active) > 0
	if restart {
		s.running = true
		s.startedAt = s.clock.Now()
	}
	s.mu.Unlock()

	if restart {
		s.step()
	}
}

// Elapsed returns the virtual duration since scheduler start or last replay.
func (s *Scheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Now returns the "now" stamp of the most recent tick.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Active reports whether the task is currently eligible to run.
func (s *Scheduler) Active(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[id]
	return ok
}

// Lookup returns a copy of the registered task.
func (s *Scheduler) Lookup(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Ticks returns the number of ticks that advanced time.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Running reports whether the realtime loop is live.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) scheduleWakeLocked(delay time.Duration) {
	// Zero delays still go through the timer rather than looping inline,
	// guaranteeing at least one host yield between ticks so a task
	// repeatedly requesting 0 cannot starve the host.
	s.wakeSeq++
	seq := s.wakeSeq
	s.wake = s.timer.Schedule(delay, func() { s.onWake(seq) })
}

func (s *Scheduler) cancelWakeLocked() {
	if s.wake != nil {
		s.wake.Cancel()
		s.wake = nil
	}
	// Invalidate any wake already in flight past its cancellation.
	s.wakeSeq++
}

func (s *Scheduler) onWake(seq uint64) {
	s.mu.Lock()
	if seq != s.wakeSeq || s.wake == nil || !s.running {
		// Stale fire that raced past a cancellation.
		Logger().Warn("stale wake discarded", "seq", seq)
		s.mu.Unlock()
		return
	}
	s.wake = nil
	s.mu.Unlock()
	s.step()
}

// callAdvance isolates a task failure: a panicking advance is reported and
// the task deactivated while the rest of the active set keeps ticking.
func (s *Scheduler) callAdvance(t *Task) (delay time.Duration, more bool) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportPanic(&errors.PanicError{
				Op:         "schedule.advance",
				TaskID:     t.ID,
				Value:      r,
				StackTrace: errors.CaptureStack(),
			})
			delay, more = 0, false
		}
	}()
	return t.Advance()
}

func (s *Scheduler) callReset(t *Task) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportPanic(&errors.PanicError{
				Op:         "schedule.reset",
				TaskID:     t.ID,
				Value:      r,
				StackTrace: errors.CaptureStack(),
			})
		}
	}()
	t.Reset()
}

func (s *Scheduler) callDraw(sink RenderSink) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportPanic(&errors.PanicError{
				Op:         "schedule.draw",
				Value:      r,
				StackTrace: errors.CaptureStack(),
			})
		}
	}()
	sink.Draw()
}
