// Command easel inspects animated GIFs and renders them to PNG frame
// sequences using the shared animation scheduler.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

var version = "dev"

func main() {
	app := cli.App{
		Name:      "easel",
		HelpName:  "easel",
		Usage:     "animation scheduling toolkit",
		UsageText: "easel <command> [arguments...]",
		Version:   version,
		Commands: []cli.Command{
			{
				Name:    "export",
				Aliases: []string{"e"},
				Usage:   "render an animated GIF to a PNG frame sequence",
				Action:  export,
				Flags:   exportFlags,
			},
			{
				Name:    "info",
				Aliases: []string{"i"},
				Usage:   "show timing metadata for an animated GIF",
				Action:  info,
			},
			{
				Name:   "play",
				Usage:  "run an animation in realtime and report tick statistics",
				Action: play,
				Flags:  playFlags,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "easel: %s\n", err.Error())
		os.Exit(1)
	}
}
