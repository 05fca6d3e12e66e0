package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/handiism/poster-downloader/internal/app"
	"github.com/handiism/poster-downloader/internal/tui"
)

func main() {
	cliApp := &cli.App{
		Name:  "poster-tui",
		Usage: "download posters with a live progress view",
		Flags: app.Flags(),
		Action: func(c *cli.Context) error {
			settings, err := app.Settings(c)
			if err != nil {
				return err
			}
			return tui.Run(settings, c.Bool("verbose"))
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
