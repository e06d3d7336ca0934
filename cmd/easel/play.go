package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/urfave/cli"

	"github.com/go-easel/easel/pkg/frames"
	"github.com/go-easel/easel/pkg/schedule"
)

var playFlags = []cli.Flag{
	cli.DurationFlag{
		Name:  "duration, d",
		Usage: "how long to run",
		Value: 3 * time.Second,
	},
}

// tallySink counts how many times the scheduler asked for a repaint.
type tallySink struct {
	draws atomic.Uint64
}

func (s *tallySink) Draw() { s.draws.Add(1) }

// play runs an animated GIF against the wall clock for a bounded time
// and reports how the scheduler kept pace.
func play(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return fmt.Errorf("usage: easel play <file.gif>")
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

	sink := &tallySink{}
	sched := schedule.New(schedule.WithSink(sink))

	var decoded atomic.Uint64
	player := frames.NewPlayer(sched, src, "gif", func(frames.Frame) {
		decoded.Add(1)
	})
	defer player.Close()

	if err := player.Play(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	sched.StartRealtime()

	runFor := ctx.Duration("duration")
	time.Sleep(runFor)
	player.Stop()

	elapsed := sched.Elapsed()
	ticks := sched.Ticks()
	fmt.Printf("ran for:  %s\n", runFor)
	fmt.Printf("elapsed:  %s (virtual)\n", elapsed)
	fmt.Printf("ticks:    %d\n", ticks)
	fmt.Printf("frames:   %d committed\n", decoded.Load())
	fmt.Printf("repaints: %d\n", sink.draws.Load())
	if ticks > 0 {
		fmt.Printf("mean gap: %s\n", elapsed/time.Duration(ticks))
	}
	return nil
}
