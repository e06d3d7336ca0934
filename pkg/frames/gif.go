package frames

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"time"

	xdraw "golang.org/x/image/draw"
)

// zeroDelayDefault replaces a zero frame delay. GIF encoders commonly write
// 0 to mean "as fast as possible"; browsers render that at 100ms.
const zeroDelayDefault = 100 * time.Millisecond

// GIFSource decodes an animated GIF into full composited frames, honoring
// each frame's disposal method. Decoding is strictly sequential: every
// composited frame depends on the canvas state left by its predecessors.
type GIFSource struct {
	g      *gif.GIF
	bounds image.Rectangle

	index    int // next frame to decode
	canvas   *image.RGBA
	restore  *image.RGBA // canvas snapshot for DisposalPrevious
	prevDisp byte
	prevRect image.Rectangle
}

// NewGIFSource decodes all GIF metadata and frame data from r.
func NewGIFSource(r io.Reader) (*GIFSource, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("frames: decoding gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("frames: gif has no frames")
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	return &GIFSource{
		g:      g,
		bounds: bounds,
		canvas: image.NewRGBA(bounds),
	}, nil
}

// Len returns the total number of frames.
func (s *GIFSource) Len() int { return len(s.g.Image) }

// LoopCount returns the GIF loop count (0 means loop forever, -1 play once).
func (s *GIFSource) LoopCount() int { return s.g.LoopCount }

// Bounds returns the logical canvas size of the animation.
func (s *GIFSource) Bounds() image.Rectangle { return s.bounds }

// Duration returns the summed duration of all frames.
func (s *GIFSource) Duration() time.Duration {
	var total time.Duration
	for i := range s.g.Image {
		total += s.delayAt(i)
	}
	return total
}

// DelayAt returns the display duration of frame i.
func (s *GIFSource) DelayAt(i int) time.Duration {
	if i < 0 || i >= len(s.g.Image) {
		return 0
	}
	return s.delayAt(i)
}

// Next composites and returns the next frame. The returned image is a copy
// and stays valid across further decoding.
func (s *GIFSource) Next() (Frame, error) {
	if s.index >= len(s.g.Image) {
		return Frame{}, ErrNoMoreFrames
	}

	// Apply the disposal of the previously drawn frame first.
	switch s.prevDisp {
	case gif.DisposalBackground:
		xdraw.Draw(s.canvas, s.prevRect, image.Transparent, image.Point{}, xdraw.Src)
	case gif.DisposalPrevious:
		if s.restore != nil {
			xdraw.Draw(s.canvas, s.bounds, s.restore, s.bounds.Min, xdraw.Src)
		}
	}

	pal := s.g.Image[s.index]
	disposal := byte(gif.DisposalNone)
	if s.index < len(s.g.Disposal) {
		disposal = s.g.Disposal[s.index]
	}

	if disposal == gif.DisposalPrevious {
		snap := image.NewRGBA(s.bounds)
		xdraw.Draw(snap, s.bounds, s.canvas, s.bounds.Min, xdraw.Src)
		s.restore = snap
	}

	xdraw.Draw(s.canvas, pal.Bounds(), pal, pal.Bounds().Min, xdraw.Over)

	out := image.NewRGBA(s.bounds)
	xdraw.Draw(out, s.bounds, s.canvas, s.bounds.Min, xdraw.Src)

	d := s.delayAt(s.index)
	s.prevDisp = disposal
	s.prevRect = pal.Bounds()
	s.index++

	return Frame{Image: out, Duration: d}, nil
}

// Rewind restarts decoding from the first frame on a fresh canvas.
func (s *GIFSource) Rewind() error {
	s.index = 0
	s.canvas = image.NewRGBA(s.bounds)
	s.restore = nil
	s.prevDisp = 0
	s.prevRect = image.Rectangle{}
	return nil
}

func (s *GIFSource) delayAt(i int) time.Duration {
	if i >= len(s.g.Delay) {
		return zeroDelayDefault
	}
	d := time.Duration(s.g.Delay[i]) * 10 * time.Millisecond
	if d == 0 {
		return zeroDelayDefault
	}
	return d
}
