// Package frames adapts time-based frame sequences (animated images) to the
// scheduler's shared timeline.
//
// A [Source] decodes frames sequentially with known per-frame durations; a
// [Player] registers the source on a [schedule.Scheduler] and implements the
// catch-up protocol: within a single tick it decodes every frame the virtual
// clock has passed but materializes only the last one, so decode cost tracks
// real elapsed frames exactly while render cost stays bounded at one frame
// per tick regardless of accumulated lag.
package frames

import (
	stderrors "errors"
	"image"
	"time"
)

// ErrNoMoreFrames is returned by Source.Next past the final frame.
var ErrNoMoreFrames = stderrors.New("frames: no more frames")

// Frame is one decoded frame and how long it stays on screen.
type Frame struct {
	Image    image.Image
	Duration time.Duration
}

// Source is a sequentially decodable sequence of frames. Sequential access
// is part of the contract: codecs may depend on every prior frame having
// been decoded (GIF disposal, inter-frame deltas).
type Source interface {
	// Next decodes and returns the next frame. The returned image must stay
	// valid after subsequent Next calls. Returns ErrNoMoreFrames past the
	// end of the sequence.
	Next() (Frame, error)

	// Rewind restarts decoding from the first frame.
	Rewind() error

	// Len returns the total number of frames.
	Len() int
}
