package frames

import (
	"bytes"
	stderrors "errors"
	"image"
	"image/color"
	"image/gif"
	"testing"
	"time"
)

// encodeTestGIF builds an animated GIF where each frame fills the canvas
// with one color. delays are in centiseconds, matching the wire format.
func encodeTestGIF(t *testing.T, size int, colors []color.RGBA, delays []int, disposal []byte) *bytes.Buffer {
	t.Helper()
	g := &gif.GIF{}
	for i, c := range colors {
		pal := color.Palette{color.RGBA{}, c}
		img := image.NewPaletted(image.Rect(0, 0, size, size), pal)
		for p := range img.Pix {
			img.Pix[p] = 1
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, delays[i])
		if disposal != nil {
			g.Disposal = append(g.Disposal, disposal[i])
		}
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encoding test gif: %v", err)
	}
	return &buf
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestGIFSourceDecodesFramesInOrder(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	buf := encodeTestGIF(t, 4, []color.RGBA{red, green, blue}, []int{10, 20, 30}, nil)

	src, err := NewGIFSource(buf)
	if err != nil {
		t.Fatalf("NewGIFSource: %v", err)
	}
	if src.Len() != 3 {
		t.Fatalf("Len = %d, want 3", src.Len())
	}
	if got, want := src.Duration(), 600*time.Millisecond; got != want {
		t.Errorf("total Duration = %v, want %v", got, want)
	}

	wantColors := []color.RGBA{red, green, blue}
	wantDelays := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}
	for i := range wantColors {
		f, err := src.Next()
		if err != nil {
			t.Fatalf("Next(%d): %v", i, err)
		}
		if f.Duration != wantDelays[i] {
			t.Errorf("frame %d duration = %v, want %v", i, f.Duration, wantDelays[i])
		}
		if got := rgbaAt(f.Image, 2, 2); got != wantColors[i] {
			t.Errorf("frame %d pixel = %v, want %v", i, got, wantColors[i])
		}
	}

	if _, err := src.Next(); !stderrors.Is(err, ErrNoMoreFrames) {
		t.Errorf("Next past the end = %v, want ErrNoMoreFrames", err)
	}
}

func TestGIFSourceZeroDelayGetsDefault(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	buf := encodeTestGIF(t, 2, []color.RGBA{red}, []int{0}, nil)

	src, err := NewGIFSource(buf)
	if err != nil {
		t.Fatalf("NewGIFSource: %v", err)
	}
	f, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if f.Duration != zeroDelayDefault {
		t.Errorf("zero-delay frame duration = %v, want %v", f.Duration, zeroDelayDefault)
	}
}

func TestGIFSourceReturnedFramesAreStable(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	buf := encodeTestGIF(t, 2, []color.RGBA{red, green}, []int{10, 10}, nil)

	src, err := NewGIFSource(buf)
	if err != nil {
		t.Fatalf("NewGIFSource: %v", err)
	}
	first, _ := src.Next()
	if _, err := src.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	// Decoding the second frame must not mutate the first frame's image.
	if got := rgbaAt(first.Image, 0, 0); got != red {
		t.Errorf("first frame pixel changed to %v after further decoding", got)
	}
}

func TestGIFSourceRewind(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	buf := encodeTestGIF(t, 2, []color.RGBA{red, green}, []int{10, 10}, nil)

	src, err := NewGIFSource(buf)
	if err != nil {
		t.Fatalf("NewGIFSource: %v", err)
	}
	src.Next()
	src.Next()
	if err := src.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	f, err := src.Next()
	if err != nil {
		t.Fatalf("Next after Rewind: %v", err)
	}
	if got := rgbaAt(f.Image, 1, 1); got != red {
		t.Errorf("first frame after rewind = %v, want %v", got, red)
	}
}

func TestGIFSourceDisposalBackgroundClearsFrameRect(t *testing.T) {
	// Frame 0 covers the full 4x4 canvas and asks for background disposal;
	// frame 1 only paints the top-left 2x2 patch. After compositing frame 1
	// the area outside the patch must be cleared, not show frame 0.
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}

	g := &gif.GIF{}
	full := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.RGBA{}, red})
	for p := range full.Pix {
		full.Pix[p] = 1
	}
	patch := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.RGBA{}, green})
	for p := range patch.Pix {
		patch.Pix[p] = 1
	}
	g.Image = []*image.Paletted{full, patch}
	g.Delay = []int{10, 10}
	g.Disposal = []byte{gif.DisposalBackground, gif.DisposalNone}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encoding: %v", err)
	}

	src, err := NewGIFSource(&buf)
	if err != nil {
		t.Fatalf("NewGIFSource: %v", err)
	}
	src.Next()
	f, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := rgbaAt(f.Image, 1, 1); got != green {
		t.Errorf("patch pixel = %v, want %v", got, green)
	}
	if _, _, _, a := f.Image.At(3, 3).RGBA(); a != 0 {
		t.Errorf("pixel outside the patch should be cleared, alpha = %d", a)
	}
}
