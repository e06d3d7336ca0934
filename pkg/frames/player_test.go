package frames_test

import (
	stderrors "errors"
	"image"
	"testing"
	"time"

	"github.com/go-easel/easel/pkg/frames"
	"github.com/go-easel/easel/pkg/schedule"
	easeltest "github.com/go-easel/easel/pkg/testing"
)

// fakeSource serves pre-built frames and records cursor movement.
type fakeSource struct {
	frames  []frames.Frame
	idx     int
	rewinds int
	failAt  int // index at which Next errors, -1 to disable
}

func newFakeSource(durations ...time.Duration) *fakeSource {
	s := &fakeSource{failAt: -1}
	for _, d := range durations {
		s.frames = append(s.frames, frames.Frame{
			Image:    image.NewRGBA(image.Rect(0, 0, 1, 1)),
			Duration: d,
		})
	}
	return s
}

func (s *fakeSource) Next() (frames.Frame, error) {
	if s.failAt >= 0 && s.idx == s.failAt {
		return frames.Frame{}, stderrors.New("synthetic decode failure")
	}
	if s.idx >= len(s.frames) {
		return frames.Frame{}, frames.ErrNoMoreFrames
	}
	f := s.frames[s.idx]
	s.idx++
	return f, nil
}

func (s *fakeSource) Rewind() error {
	s.idx = 0
	s.rewinds++
	return nil
}

func (s *fakeSource) Len() int { return len(s.frames) }

func TestPlayCommitsFrameZeroBeforeAnyTick(t *testing.T) {
	s := schedule.New()
	src := newFakeSource(100*time.Millisecond, 100*time.Millisecond)

	commits := 0
	p := frames.NewPlayer(s, src, "anim", func(frames.Frame) { commits++ })
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if commits != 1 {
		t.Errorf("commits before first tick = %d, want 1 (eager frame 0)", commits)
	}
	if !s.Active("anim") {
		t.Error("player task should be active")
	}
}

func TestCatchUpDecodesAllButRendersOnce(t *testing.T) {
	// Frame durations [100, 100, 100]; a single tick where elapsed jumps
	// by 250ms must advance the decode cursor to frame index 2 while the
	// render sink draws exactly once.
	clock := easeltest.NewFakeClock()
	timer := easeltest.NewManualTimer()
	sink := &easeltest.CountingSink{}
	s := schedule.New(schedule.WithClock(clock), schedule.WithTimer(timer), schedule.WithSink(sink))

	src := newFakeSource(100*time.Millisecond, 100*time.Millisecond, 100*time.Millisecond)
	commits := 0
	p := frames.NewPlayer(s, src, "anim", func(frames.Frame) { commits++ })
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	s.StartRealtime() // tick at elapsed 0: no catch-up needed yet

	commitsBefore := commits
	drawsBefore := sink.Draws()
	cursorBefore := src.idx

	clock.Advance(250 * time.Millisecond)
	if !timer.Fire() {
		t.Fatal("expected a pending wake")
	}

	if got := src.idx - 1; got != 2 {
		t.Errorf("decode cursor at frame index %d, want 2", got)
	}
	if got := commits - commitsBefore; got != 1 {
		t.Errorf("frames committed in catch-up tick = %d, want 1 (only the last)", got)
	}
	if got := sink.Draws() - drawsBefore; got != 1 {
		t.Errorf("sink drawn %d times in catch-up tick, want 1", got)
	}
	if cursorBefore != 1 {
		t.Errorf("cursor before jump = %d, want 1 (frame 0 decoded eagerly)", cursorBefore)
	}
}

func TestPlayerRequestsRemainingFrameTime(t *testing.T) {
	s := schedule.New()
	src := newFakeSource(100*time.Millisecond, 100*time.Millisecond)
	p := frames.NewPlayer(s, src, "anim", func(frames.Frame) {})
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	// At elapsed 0 with frame 0 on screen until t=100ms, the player should
	// ask to wake in exactly 100ms.
	min, ok := s.Tick()
	if !ok || min != 100*time.Millisecond {
		t.Errorf("Tick = %v/%v, want 100ms", min, ok)
	}
}

func TestPlayerDeactivatesAfterLastFrame(t *testing.T) {
	s := schedule.New()
	src := newFakeSource(50*time.Millisecond, 50*time.Millisecond)
	p := frames.NewPlayer(s, src, "anim", func(frames.Frame) {})
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	for range 10 {
		if _, ok := s.Tick(); !ok {
			break
		}
	}

	if s.Active("anim") {
		t.Error("player should deactivate after the final frame")
	}
	if _, ok := s.Lookup("anim"); !ok {
		t.Error("player stays registered so replay can restore it")
	}
}

func TestReplayRestoresFrameZero(t *testing.T) {
	s := schedule.New()
	src := newFakeSource(50*time.Millisecond, 50*time.Millisecond)
	commits := 0
	p := frames.NewPlayer(s, src, "anim", func(frames.Frame) { commits++ })
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	for range 10 {
		if _, ok := s.Tick(); !ok {
			break
		}
	}

	rewindsBefore := src.rewinds
	commitsBefore := commits
	s.ReplayAll()

	if src.rewinds != rewindsBefore+1 {
		t.Error("replay should rewind the source")
	}
	if commits != commitsBefore+1 {
		t.Error("replay should commit frame 0 again")
	}
	if !s.Active("anim") {
		t.Error("replay should reactivate the player")
	}
	if got := s.Elapsed(); got != 0 {
		t.Errorf("Elapsed after replay = %v, want 0", got)
	}
}

func TestDecodeFailureDeactivatesPlayer(t *testing.T) {
	s := schedule.New()
	src := newFakeSource(10*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond)
	src.failAt = 2
	p := frames.NewPlayer(s, src, "anim", func(frames.Frame) {})
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	for range 10 {
		if _, ok := s.Tick(); !ok {
			break
		}
	}
	if s.Active("anim") {
		t.Error("player should deactivate after a decode failure")
	}
}

func TestStopKeepsPlayerRegistered(t *testing.T) {
	s := schedule.New()
	src := newFakeSource(100 * time.Millisecond)
	p := frames.NewPlayer(s, src, "anim", func(frames.Frame) {})
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	p.Stop()
	if s.Active("anim") {
		t.Error("Stop should deactivate the task")
	}
	if _, ok := s.Lookup("anim"); !ok {
		t.Error("Stop must not unregister the task")
	}

	p.Close()
	if _, ok := s.Lookup("anim"); ok {
		t.Error("Close should unregister the task")
	}
}
