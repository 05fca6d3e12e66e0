package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/handiism/poster-downloader/internal/config"
	"github.com/handiism/poster-downloader/internal/download"
	"github.com/handiism/poster-downloader/internal/source"
)

// Report summarizes one invocation.
type Report struct {
	Rows     int
	WithURL  int
	DryRun   bool
	Mapped   int
	Progress download.Progress
}

// Execute reads the input table and downloads every row. With dryRun set it
// only reports what would be fetched and touches no output.
func Execute(ctx context.Context, settings *config.Settings, logger *slog.Logger, dryRun bool) (Report, error) {
	rows, err := source.OpenCSV(settings.InputPath, settings.ToSourceOptions())
	if err != nil {
		return Report{}, err
	}

	report := Report{Rows: len(rows), DryRun: dryRun}
	for _, row := range rows {
		if row.HasHTTPURL() {
			report.WithURL++
		}
	}
	logger.Info("input loaded", "path", settings.InputPath, "rows", report.Rows, "with_url", report.WithURL)

	if dryRun {
		return report, nil
	}

	manager, err := download.Open(ctx, settings, logger, LogEvents(logger))
	if err != nil {
		return report, err
	}
	defer manager.Close()

	mapping, err := manager.Run(ctx, rows)
	report.Progress = manager.GetProgress()
	report.Mapped = len(mapping)
	return report, err
}

// LogEvents routes manager events to logger.
func LogEvents(logger *slog.Logger) func(download.ProgressEvent) {
	return func(event download.ProgressEvent) {
		logger.Log(context.Background(), eventLevel(event.Level), event.Message)
	}
}

func eventLevel(level download.ProgressLevel) slog.Level {
	switch level {
	case download.LevelVerbose:
		return slog.LevelDebug
	case download.LevelWarning:
		return slog.LevelWarn
	case download.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Summary renders r for a terminal.
func (r Report) Summary(settings *config.Settings) string {
	var b strings.Builder

	if r.DryRun {
		fmt.Fprintf(&b, "Dry run: %d rows, %d with a downloadable URL, %d would be skipped\n",
			r.Rows, r.WithURL, r.Rows-r.WithURL)
		return b.String()
	}

	p := r.Progress
	fmt.Fprintf(&b, "Complete! %d/%d posters downloaded (%s) in %s\n",
		p.Succeeded, p.Total, humanize.Bytes(uint64(p.Bytes)), p.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "  skipped: %s\n", humanize.Comma(int64(p.Skipped)))
	fmt.Fprintf(&b, "  failed:  %s\n", humanize.Comma(int64(p.Failed)))
	fmt.Fprintf(&b, "  mapping: %s (%d rows)\n", settings.SuccessMappingPath, r.Mapped)
	if p.Skipped+p.Failed > 0 {
		fmt.Fprintf(&b, "  failures: %s\n", settings.FailureLogPath)
	}
	return b.String()
}
