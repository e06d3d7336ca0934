package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/go-easel/easel/cmd/easel/internal/config"
	"github.com/go-easel/easel/pkg/frames"
	"github.com/go-easel/easel/pkg/render"
	"github.com/go-easel/easel/pkg/schedule"
	"github.com/gogpu/gg"
)

var exportFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "fps, f",
		Usage: "output frame rate",
	},
	cli.Float64Flag{
		Name:  "scale, s",
		Usage: "output scale factor",
	},
	cli.StringFlag{
		Name:  "background, b",
		Usage: "background color (#RRGGBB)",
	},
	cli.StringFlag{
		Name:  "out, o",
		Usage: "output directory",
	},
}

// export renders an animated GIF to a numbered PNG sequence. The
// scheduler runs in caller-driven mode, so output is frame-exact and
// independent of wall time.
func export(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return fmt.Errorf("usage: easel export <file.gif>")
	}

	cfg, err := config.Resolve(".")
	if err != nil {
		return err
	}
	if v := ctx.Int("fps"); v != 0 {
		cfg.FPS = v
	}
	if v := ctx.Float64("scale"); v != 0 {
		cfg.Scale = v
	}
	if v := ctx.String("background"); v != "" {
		cfg.Background = v
	}
	if v := ctx.String("out"); v != "" {
		cfg.OutDir = v
	}
	bg, err := config.ParseColor(cfg.Background)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	src, err := frames.NewGIFSource(f)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}

	bounds := src.Bounds()
	canvas := render.NewCanvas(
		int(float64(bounds.Dx())*cfg.Scale),
		int(float64(bounds.Dy())*cfg.Scale),
		render.WithScale(cfg.Scale),
		render.WithBackground(gg.RGBA{
			R: float64(bg[0]) / 255,
			G: float64(bg[1]) / 255,
			B: float64(bg[2]) / 255,
			A: 1,
		}),
	)

	sched := schedule.New(schedule.WithSink(canvas))
	player := frames.NewPlayer(sched, src, "gif", canvas.Commit)
	defer player.Close()

	interval := time.Second / time.Duration(cfg.FPS)
	total := int64(src.Duration()/interval) + 1

	progress := mpb.New(mpb.WithWidth(64))
	bar := progress.New(total,
		mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟"),
		mpb.PrependDecorators(
			decor.Name("Rendering", decor.WC{W: 10, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
		),
	)

	if err := player.Play(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	// The pacer halts the virtual timeline at every output frame
	// boundary so no capture instant is skipped over.
	var nextCapture time.Duration
	sched.Register(schedule.Task{
		ID: "pacer",
		Advance: func() (time.Duration, bool) {
			if !sched.Active("gif") {
				return 0, false
			}
			elapsed := sched.Elapsed()
			next := nextCapture
			for next <= elapsed {
				next += interval
			}
			return next - elapsed, true
		},
	})

	frame := 0
	save := func() error {
		name := filepath.Join(cfg.OutDir, fmt.Sprintf("frame_%05d.png", frame))
		if err := canvas.SavePNG(name); err != nil {
			return err
		}
		frame++
		bar.Increment()
		return nil
	}

	canvas.Draw()
	if err := save(); err != nil {
		return err
	}
	nextCapture = interval

	for {
		if _, ok := sched.Tick(); !ok {
			break
		}
		for sched.Elapsed() >= nextCapture {
			if err := save(); err != nil {
				return err
			}
			nextCapture += interval
		}
	}

	bar.SetTotal(int64(frame), true)
	progress.Wait()
	fmt.Printf("wrote %d frames to %s\n", frame, cfg.OutDir)
	return nil
}
