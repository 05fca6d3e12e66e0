package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/handiism/poster-downloader/internal/app"
)

func main() {
	cliApp := &cli.App{
		Name:  "poster-dl",
		Usage: "download the poster image of every row in a movie table",
		Flags: append(app.Flags(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "read the input and report what would be fetched",
			},
		),
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "download posters (default)",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "dry-run", Usage: "read the input and report what would be fetched"}},
				Action: runAction,
			},
			{
				Name:  "config",
				Usage: "print the effective settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print JSON instead of YAML"},
					&cli.StringFlag{Name: "save", Usage: "also write the settings to this file"},
				},
				Action: configAction,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runAction(c *cli.Context) error {
	settings, err := app.Settings(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error loading config: %v", err), 1)
	}
	logger := newLogger(c.Bool("verbose"))

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := app.Execute(ctx, settings, logger, c.Bool("dry-run"))
	fmt.Print(report.Summary(settings))
	if ctx.Err() != nil {
		return cli.Exit("Download cancelled.", 130)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error during download: %v", err), 1)
	}
	return nil
}

func configAction(c *cli.Context) error {
	settings, err := app.Settings(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error loading config: %v", err), 1)
	}

	data, err := settings.Marshal(!c.Bool("json"))
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if path := c.String("save"); path != "" {
		return settings.Save(path)
	}
	return nil
}
