// Package app holds the command-line surface shared by poster-dl and poster-tui.
package app

import (
	"github.com/urfave/cli/v2"

	"github.com/handiism/poster-downloader/internal/config"
)

// Flags returns the flags understood by every command. Values given on the
// command line or through the environment override the config file.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a JSON or YAML config file",
			EnvVars: []string{"POSTER_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "input CSV table",
			EnvVars: []string{"POSTER_INPUT"},
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "image directory or bucket URL",
			EnvVars: []string{"POSTER_OUTPUT_DIR"},
		},
		&cli.StringFlag{
			Name:    "mapping",
			Usage:   "success mapping CSV path",
			EnvVars: []string{"POSTER_MAPPING"},
		},
		&cli.StringFlag{
			Name:    "failure-log",
			Usage:   "failure log JSONL path",
			EnvVars: []string{"POSTER_FAILURE_LOG"},
		},
		&cli.IntFlag{
			Name:    "concurrency",
			Aliases: []string{"n"},
			Usage:   "maximum number of simultaneous fetches",
			EnvVars: []string{"POSTER_CONCURRENCY"},
		},
		&cli.IntFlag{
			Name:    "timeout",
			Usage:   "per-request connect and read timeout in seconds",
			EnvVars: []string{"POSTER_TIMEOUT"},
		},
		&cli.Float64Flag{
			Name:    "rps",
			Usage:   "requests per second, 0 for unpaced",
			EnvVars: []string{"POSTER_RPS"},
		},
		&cli.StringFlag{
			Name:    "encoding",
			Usage:   "input table encoding (latin1, cp1252, utf8)",
			EnvVars: []string{"POSTER_ENCODING"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "show per-row progress",
			EnvVars: []string{"POSTER_VERBOSE"},
		},
	}
}

// Settings loads the config file named by --config and applies every flag
// that was set.
func Settings(c *cli.Context) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if path := c.String("config"); path != "" {
		var err error
		settings, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if c.IsSet("input") {
		settings.InputPath = c.String("input")
	}
	if c.IsSet("output-dir") {
		settings.OutputImageDir = c.String("output-dir")
	}
	if c.IsSet("mapping") {
		settings.SuccessMappingPath = c.String("mapping")
	}
	if c.IsSet("failure-log") {
		settings.FailureLogPath = c.String("failure-log")
	}
	if c.IsSet("concurrency") {
		settings.ConcurrencyLimit = c.Int("concurrency")
	}
	if c.IsSet("timeout") {
		settings.RequestTimeoutSeconds = c.Int("timeout")
	}
	if c.IsSet("rps") {
		settings.RequestsPerSecond = c.Float64("rps")
	}
	if c.IsSet("encoding") {
		settings.InputEncoding = c.String("encoding")
	}

	settings.Validate()
	return settings, nil
}
