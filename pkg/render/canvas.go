// Package render provides a software render sink backed by gogpu/gg.
//
// The scheduler treats rendering as an opaque boundary: it calls Draw once
// per advancing tick. Canvas keeps whatever frame was last committed and
// composites it into a gg drawing context on each Draw, so redraw cost never
// scales with how many frames a consumer skipped while catching up.
package render

import (
	"image"
	"io"
	"sync"

	"github.com/gogpu/gg"

	"github.com/go-easel/easel/pkg/frames"
)

// Option configures a Canvas.
type Option func(*Canvas)

// WithScale sets the device pixel scale. The scale is an explicit
// construction-time value rather than a process-wide lookup so tests and
// offline export stay isolated and reproducible.
func WithScale(scale float64) Option {
	return func(c *Canvas) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

// WithBackground sets the color the canvas is cleared to before each draw.
func WithBackground(col gg.RGBA) Option {
	return func(c *Canvas) { c.background = col }
}

// Canvas is a render sink for one surface.
type Canvas struct {
	mu         sync.Mutex
	dc         *gg.Context
	scale      float64
	background gg.RGBA
	frame      *gg.ImageBuf
	draws      uint64
}

// NewCanvas creates a canvas of the given pixel size.
func NewCanvas(width, height int, opts ...Option) *Canvas {
	c := &Canvas{
		dc:         gg.NewContext(width, height),
		scale:      1,
		background: gg.RGBA{R: 0, G: 0, B: 0, A: 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Commit stores a materialized frame. It is the commit target handed to
// frames.Player; the frame is converted once here, not on every Draw.
func (c *Canvas) Commit(f frames.Frame) {
	if f.Image == nil {
		return
	}
	buf := gg.ImageBufFromImage(f.Image)
	c.mu.Lock()
	c.frame = buf
	c.mu.Unlock()
}

// Draw implements schedule.RenderSink: clear, scale, composite the committed
// frame.
func (c *Canvas) Draw() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc.ClearWithColor(c.background)
	if c.frame != nil {
		c.dc.Push()
		c.dc.Scale(c.scale, c.scale)
		c.dc.DrawImage(c.frame, 0, 0)
		c.dc.Pop()
	}
	c.draws++
}

// Draws returns how many times Draw has run.
func (c *Canvas) Draws() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draws
}

// Image returns the current pixel contents.
func (c *Canvas) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc.Image()
}

// EncodePNG writes the current pixel contents as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc.EncodePNG(w)
}

// SavePNG writes the current pixel contents to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc.SavePNG(path)
}
