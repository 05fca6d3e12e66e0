package failurelog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/handiism/poster-downloader/internal/model"
)

// Recorder appends FailureRecords to a shared log.
type Recorder struct {
	mu       sync.Mutex
	w        io.Writer
	closer   io.Closer
	runID    string
	fallback *slog.Logger
	now      func() time.Time
	count    int
}

// Open opens path for appending, creating it if necessary. Every record
// written through the returned Recorder carries the same fresh run ID.
func Open(path string, fallback *slog.Logger) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open failure log: %w", err)
	}
	r := New(f, fallback)
	r.closer = f
	return r, nil
}

// New returns a Recorder writing to w. A nil fallback logs to slog.Default().
func New(w io.Writer, fallback *slog.Logger) *Recorder {
	if fallback == nil {
		fallback = slog.Default()
	}
	return &Recorder{
		w:        w,
		runID:    uuid.NewString(),
		fallback: fallback,
		now:      time.Now,
	}
}

// RunID returns the identifier stamped on this run's records.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record appends rec to the log. RunID and RecordedAt are filled in when
// empty.
func (r *Recorder) Record(rec model.FailureRecord) {
	if rec.RunID == "" {
		rec.RunID = r.runID
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = r.now().UTC()
	}

	line, err := json.Marshal(rec)
	if err != nil {
		r.logFallback(rec, fmt.Errorf("encode record: %w", err))
		return
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	if _, err := r.w.Write(line); err != nil {
		r.logFallback(rec, err)
	}
}

// RecordFailure is a shorthand for Record with loose fields. An empty url
// is written as null, as is an empty detail.
func (r *Recorder) RecordFailure(title, url, reason, detail string) {
	rec := model.FailureRecord{Title: title, Reason: reason}
	if url != "" {
		rec.URL = &url
	}
	if detail != "" {
		rec.Detail = &detail
	}
	r.Record(rec)
}

// Count returns how many records were handed to the log.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Close closes the underlying file, if the Recorder owns one.
func (r *Recorder) Close() error {
	if r.closer == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closer.Close()
}

func (r *Recorder) logFallback(rec model.FailureRecord, err error) {
	attrs := []any{
		"error", err,
		"title", rec.Title,
		"reason", rec.Reason,
	}
	if rec.URL != nil {
		attrs = append(attrs, "url", *rec.URL)
	}
	if rec.Detail != nil {
		attrs = append(attrs, "detail", *rec.Detail)
	}
	r.fallback.Error("failure log write failed", attrs...)
}
