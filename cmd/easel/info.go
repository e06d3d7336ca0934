package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/go-easel/easel/pkg/frames"
)

// info prints timing metadata for an animated GIF.
func info(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return fmt.Errorf("usage: easel info <file.gif>")
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

	bounds := src.Bounds()
	fmt.Printf("file:     %s\n", path)
	fmt.Printf("size:     %dx%d\n", bounds.Dx(), bounds.Dy())
	fmt.Printf("frames:   %d\n", src.Len())
	fmt.Printf("duration: %s\n", src.Duration())
	switch lc := src.LoopCount(); {
	case lc == 0:
		fmt.Printf("loop:     forever\n")
	case lc < 0:
		fmt.Printf("loop:     once\n")
	default:
		fmt.Printf("loop:     %d times\n", lc)
	}

	fmt.Printf("delays:  ")
	for i := range src.Len() {
		fmt.Printf(" %s", src.DelayAt(i))
	}
	fmt.Println()
	return nil
}
