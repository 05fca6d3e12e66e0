// Package failurelog records failed and skipped downloads.
//
// The log is a JSON Lines file opened in append mode. Each call to Record
// writes one complete JSON object followed by a newline, serialized behind
// a mutex so that concurrent callers never interleave:
//
//	rec, err := failurelog.Open("poster_download_failures.jsonl", logger)
//	if err != nil {
//	    return err // cannot log failures at all: abort the run
//	}
//	defer rec.Close()
//
//	rec.Record(model.NewFailureRecord(outcome))
//
// Record never returns an error. When the file cannot be written the
// record is sent to the fallback logger instead.
//
// Re-running a batch appends to the existing log; identical failures
// produce identical but separate records.
package failurelog
