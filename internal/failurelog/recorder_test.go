package failurelog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/handiism/poster-downloader/internal/model"
)

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	var records []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line %q is not valid JSON: %v", sc.Text(), err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return records
}

func TestRecorder_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.jsonl")
	rec, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	const n = 200
	longDetail := strings.Repeat("stack frame\n", 500)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec.RecordFailure(fmt.Sprintf("title-%d", i), "http://example.com/x.jpg", "timeout", longDetail)
		}(i)
	}
	wg.Wait()
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	records := readRecords(t, path)
	if len(records) != n {
		t.Fatalf("got %d records, want %d", len(records), n)
	}
	seen := make(map[string]bool)
	for _, r := range records {
		seen[r["title"].(string)] = true
		if r["traceback"] != longDetail {
			t.Errorf("record %v has a corrupted traceback", r["title"])
		}
		if r["run_id"] != rec.RunID() {
			t.Errorf("run_id = %v, want %s", r["run_id"], rec.RunID())
		}
	}
	if len(seen) != n {
		t.Errorf("got %d distinct titles, want %d", len(seen), n)
	}
	if rec.Count() != n {
		t.Errorf("Count() = %d, want %d", rec.Count(), n)
	}
}

func TestRecorder_AppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.jsonl")
	row := model.NewInputRow(0, "Missing", "not-a-url", 6.5)
	out := model.Skip(row, model.ReasonInvalidURL)

	for run := 0; run < 2; run++ {
		rec, err := Open(path, nil)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		rec.Record(model.NewFailureRecord(out))
		rec.Close()
	}

	records := readRecords(t, path)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, r := range records {
		if r["title"] != "Missing" || r["url"] != "not-a-url" || r["reason"] != model.ReasonInvalidURL {
			t.Errorf("unexpected record %v", r)
		}
		if r["traceback"] != nil {
			t.Errorf("traceback = %v, want null", r["traceback"])
		}
	}
	if records[0]["run_id"] == records[1]["run_id"] {
		t.Error("separate runs should carry different run IDs")
	}
}

func TestRecorder_NullURL(t *testing.T) {
	var buf bytes.Buffer
	rec := New(&buf, nil)
	rec.Record(model.NewFailureRecord(model.Skip(model.NewInputRow(0, "No URL", "", 1), model.ReasonInvalidURL)))

	if !strings.Contains(buf.String(), `"url":null`) {
		t.Errorf("record %s should have a null url", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("record should end with a newline: %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestRecorder_WriteFailureFallsBack(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	rec := New(failingWriter{}, logger)

	rec.RecordFailure("Broken", "http://example.com/a.jpg", "http_status_500", "")

	if !strings.Contains(logs.String(), "disk on fire") {
		t.Errorf("fallback log missing write error: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "http_status_500") {
		t.Errorf("fallback log missing reason: %s", logs.String())
	}
}

func TestOpen_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "failures.jsonl")
	if _, err := Open(path, nil); err == nil {
		t.Error("expected error opening log in a missing directory")
	}
}
