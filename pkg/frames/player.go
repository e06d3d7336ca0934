package frames

import (
	stderrors "errors"
	"time"

	"github.com/go-easel/easel/pkg/errors"
	"github.com/go-easel/easel/pkg/schedule"
)

// Player registers a frame [Source] as a scheduler task and advances its
// frame cursor against the shared virtual clock.
//
// On Play the first frame is decoded and committed eagerly so something is
// visible before any tick runs. Each tick, every frame the clock has passed
// is decoded (keeping catch-up math and sequential codecs correct) but only
// the last one is committed. When the final frame is reached the player
// deactivates — stop, not unregister — so a later ReplayAll restores frame 0
// through its reset function.
type Player struct {
	sched  *schedule.Scheduler
	src    Source
	id     string
	commit func(Frame)

	// start anchors the player on the shared clock; target is the
	// cumulative duration of frames decoded so far, relative to start.
	start  time.Duration
	target time.Duration
}

// NewPlayer wires a source to a scheduler. commit receives each materialized
// frame (typically a render canvas).
func NewPlayer(s *schedule.Scheduler, src Source, id string, commit func(Frame)) *Player {
	return &Player{sched: s, src: src, id: id, commit: commit}
}

// Play decodes and commits frame 0, then registers the playback task.
func (p *Player) Play() error {
	if err := p.prime(); err != nil {
		return err
	}
	p.sched.Register(schedule.Task{
		ID:      p.id,
		Advance: p.advance,
		Reset:   p.reset,
		Metadata: map[string]any{
			"kind":   "frames.player",
			"frames": p.src.Len(),
		},
	})
	return nil
}

// Stop deactivates playback, keeping the task registered for replay.
func (p *Player) Stop() {
	p.sched.Stop(p.id)
}

// Close unregisters the playback task entirely.
func (p *Player) Close() {
	p.sched.Unregister(p.id)
}

// prime rewinds the source and commits the first frame.
func (p *Player) prime() error {
	if err := p.src.Rewind(); err != nil {
		return err
	}
	f, err := p.src.Next()
	if err != nil {
		return err
	}
	p.start = p.sched.Elapsed()
	p.target = f.Duration
	p.commit(f)
	return nil
}

// advance implements the catch-up protocol for one tick.
func (p *Player) advance() (time.Duration, bool) {
	pos := p.sched.Elapsed() - p.start

	var last Frame
	haveLast := false
	for pos >= p.target {
		f, err := p.src.Next()
		if err != nil {
			if !stderrors.Is(err, ErrNoMoreFrames) {
				errors.Report(&errors.Error{
					Op:     "frames.advance",
					Kind:   errors.KindDecode,
					TaskID: p.id,
					Err:    err,
				})
			}
			// Sequence exhausted (or unusable): show the newest frame we
			// reached and hand the slot back to the scheduler.
			if haveLast {
				p.commit(last)
			}
			return 0, false
		}
		last = f
		haveLast = true
		p.target += f.Duration
	}

	// Only the newest decoded frame is worth drawing; everything the loop
	// skipped was already stale when it was decoded.
	if haveLast {
		p.commit(last)
	}
	return p.target - pos, true
}

// reset restores frame 0 for replay.
func (p *Player) reset() {
	if err := p.prime(); err != nil {
		errors.Report(&errors.Error{
			Op:     "frames.reset",
			Kind:   errors.KindDecode,
			TaskID: p.id,
			Err:    err,
		})
	}
}
