package download

import (
	"context"
	"fmt"
	nethttp "net/http"
	"runtime/debug"
	"sync/atomic"

	ioutils "github.com/handiism/poster-downloader/internal/io"
	"github.com/handiism/poster-downloader/internal/model"
)

// fetch takes one row to its terminal outcome.
//
// Validation happens before the gate is acquired; the slot is released on
// every path out of the gated section. Every non-success outcome is
// recorded exactly once, after the slot has been given back.
func (m *Manager) fetch(ctx context.Context, row model.InputRow) (out model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = model.Fail(row, model.UnexpectedReason("panic"), fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack()))
		}
		if !out.IsSuccess() {
			m.failures.Record(model.NewFailureRecord(out))
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Failed %q: %s", row.Title, out.Reason),
				Level:   LevelWarning,
			})
		}
	}()

	if !row.HasHTTPURL() {
		return model.Skip(row, model.ReasonInvalidURL)
	}

	name := ioutils.SanitizeFileName(row.Title, m.settings.MaxFileNameLength)

	if err := m.gate.Acquire(ctx, 1); err != nil {
		return model.Fail(row, model.ReasonCancelled, "")
	}
	defer m.gate.Release(1)

	atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)

	return m.download(ctx, row, name)
}

// download performs the network request and the write for one row.
func (m *Manager) download(ctx context.Context, row model.InputRow, name string) model.Outcome {
	status, body, err := m.httpClient.GetBytes(ctx, row.URLString())
	if err != nil {
		reason, detail := classify(ctx, err)
		return model.Fail(row, reason, detail)
	}
	if status != nethttp.StatusOK {
		return model.Fail(row, model.HTTPStatusReason(status), "")
	}

	data := body
	if m.imageOpts.Enabled() {
		processed, err := m.imageService.Process(ctx, body, m.imageOpts)
		if err != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Keeping original bytes for %q: %v", row.Title, err),
				Level:   LevelWarning,
			})
		} else {
			data = processed
		}
	}

	path, err := m.store.Put(ctx, name, data)
	if err != nil {
		if ctx.Err() != nil {
			return model.Fail(row, model.ReasonCancelled, "")
		}
		return model.Fail(row, model.UnexpectedReason(unexpectedKind(err)), describe(err))
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", name), Level: LevelVerbose})
	return model.Succeeded(row, path, int64(len(data)))
}
