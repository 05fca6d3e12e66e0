package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/handiism/poster-downloader/internal/config"
	"github.com/handiism/poster-downloader/internal/failurelog"
	"github.com/handiism/poster-downloader/internal/http"
	ioutils "github.com/handiism/poster-downloader/internal/io"
	"github.com/handiism/poster-downloader/internal/model"
	"github.com/handiism/poster-downloader/internal/store"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// FailureSink receives one record per failed or skipped row. Implementations
// must be safe for concurrent use and must not fail the caller.
type FailureSink interface {
	Record(rec model.FailureRecord)
}

// Dependencies are the collaborators of a Manager. Store and Failures are
// required; a nil Client or Images is built from the settings.
type Dependencies struct {
	Client   *http.Client
	Store    store.Store
	Failures FailureSink
	Images   *ioutils.ImageService
}

// Progress is a snapshot of a run's counters.
type Progress struct {
	Total     int
	Done      int
	Succeeded int
	Skipped   int
	Failed    int
	InFlight  int
	Bytes     int64
	Elapsed   time.Duration
}

// Manager schedules fetches and aggregates their outcomes.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	store        store.Store
	failures     FailureSink
	imageService *ioutils.ImageService
	imageOpts    ioutils.ImageOptions
	gate         *semaphore.Weighted
	capacity     int64

	totalRows int32
	done      int32
	succeeded int32
	skipped   int32
	failed    int32
	inFlight  int32
	bytes     int64
	started   atomic.Int64
	finished  atomic.Int64

	closers    []func() error
	onProgress func(ProgressEvent)
}

// NewManager creates a new Manager.
func NewManager(settings *config.Settings, deps Dependencies, onProgress func(ProgressEvent)) *Manager {
	settings.Validate()

	client := deps.Client
	if client == nil {
		client = http.NewClient(settings.ToClientOptions())
	}
	images := deps.Images
	if images == nil {
		images = ioutils.NewImageService()
	}

	capacity := int64(settings.ConcurrencyLimit)
	return &Manager{
		settings:     settings,
		httpClient:   client,
		store:        deps.Store,
		failures:     deps.Failures,
		imageService: images,
		imageOpts:    settings.ToImageOptions(),
		gate:         semaphore.NewWeighted(capacity),
		capacity:     capacity,
		onProgress:   onProgress,
	}
}

// Open builds a Manager with its output artifacts opened: the image
// store at settings.OutputImageDir and the failure log at
// settings.FailureLogPath. Either failing to open aborts with an error.
// fallback receives failure records that cannot be written to the log.
func Open(ctx context.Context, settings *config.Settings, fallback *slog.Logger, onProgress func(ProgressEvent)) (*Manager, error) {
	st, err := store.Open(ctx, settings.OutputImageDir)
	if err != nil {
		return nil, err
	}

	rec, err := failurelog.Open(settings.FailureLogPath, fallback)
	if err != nil {
		st.Close()
		return nil, err
	}

	m := NewManager(settings, Dependencies{Store: st, Failures: rec}, onProgress)
	m.closers = append(m.closers, rec.Close, st.Close)
	return m, nil
}

// Close releases the resources opened by Open.
func (m *Manager) Close() error {
	var errs []error
	for _, c := range m.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run fetches every row and writes the success mapping.
//
// Per-row failures never make Run fail; they end up in the failure log.
// The returned error is non-nil only when the mapping cannot be written.
// Every row is accounted for exactly once, even when ctx is cancelled.
func (m *Manager) Run(ctx context.Context, rows []model.InputRow) (model.SuccessMapping, error) {
	m.reset(len(rows))
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Starting download of %d posters with up to %d concurrent requests", len(rows), m.capacity),
		Level:   LevelInfo,
	})

	// Each goroutine owns its slot; no lock is needed until Wait returns.
	results := make([]model.Outcome, len(rows))

	var g errgroup.Group
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			out := m.fetch(ctx, row)
			results[i] = out
			m.account(out)
			return nil
		})
	}
	_ = g.Wait()
	m.finished.Store(time.Now().UnixNano())

	mapping := collect(results)
	if err := WriteMapping(m.settings.SuccessMappingPath, mapping); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error writing success mapping: %v", err), Level: LevelError})
		return mapping, fmt.Errorf("write success mapping: %w", err)
	}

	p := m.GetProgress()
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloaded %d/%d posters (%d skipped, %d failed)", p.Succeeded, p.Total, p.Skipped, p.Failed),
		Level:   LevelSuccess,
	})
	return mapping, nil
}

// GetProgress returns current download progress. Safe to call while Run
// is in progress.
func (m *Manager) GetProgress() Progress {
	p := Progress{
		Total:     int(atomic.LoadInt32(&m.totalRows)),
		Done:      int(atomic.LoadInt32(&m.done)),
		Succeeded: int(atomic.LoadInt32(&m.succeeded)),
		Skipped:   int(atomic.LoadInt32(&m.skipped)),
		Failed:    int(atomic.LoadInt32(&m.failed)),
		InFlight:  int(atomic.LoadInt32(&m.inFlight)),
		Bytes:     atomic.LoadInt64(&m.bytes),
	}
	if start := m.started.Load(); start != 0 {
		end := m.finished.Load()
		if end == 0 {
			end = time.Now().UnixNano()
		}
		p.Elapsed = time.Duration(end - start)
	}
	return p
}

// Capacity returns the size of the admission gate.
func (m *Manager) Capacity() int {
	return int(m.capacity)
}

func (m *Manager) reset(total int) {
	atomic.StoreInt32(&m.totalRows, int32(total))
	atomic.StoreInt32(&m.done, 0)
	atomic.StoreInt32(&m.succeeded, 0)
	atomic.StoreInt32(&m.skipped, 0)
	atomic.StoreInt32(&m.failed, 0)
	atomic.StoreInt64(&m.bytes, 0)
	m.started.Store(time.Now().UnixNano())
	m.finished.Store(0)
}

func (m *Manager) account(out model.Outcome) {
	switch out.Status {
	case model.StatusSuccess:
		atomic.AddInt32(&m.succeeded, 1)
		atomic.AddInt64(&m.bytes, out.Bytes)
	case model.StatusSkipped:
		atomic.AddInt32(&m.skipped, 1)
	default:
		atomic.AddInt32(&m.failed, 1)
	}
	atomic.AddInt32(&m.done, 1)
}

func collect(results []model.Outcome) model.SuccessMapping {
	mapping := make(model.SuccessMapping, 0, len(results))
	for _, out := range results {
		if out.IsSuccess() {
			mapping = append(mapping, model.SuccessEntry{ImagePath: out.Path, Score: out.Score()})
		}
	}
	return mapping
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
