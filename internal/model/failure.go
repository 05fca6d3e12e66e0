package model

import "time"

// FailureRecord is one line of the failure log.
//
// The JSON field names follow the log format consumed downstream: the
// diagnostic detail is stored under "traceback". URL and Detail encode
// as null when absent.
type FailureRecord struct {
	RunID      string    `json:"run_id,omitempty"`
	Title      string    `json:"title"`
	URL        *string   `json:"url"`
	Reason     string    `json:"reason"`
	Detail     *string   `json:"traceback"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewFailureRecord builds the record for a skipped or failed outcome.
func NewFailureRecord(o Outcome) FailureRecord {
	rec := FailureRecord{
		Title:  o.Row.Title,
		URL:    o.Row.URL,
		Reason: o.Reason,
	}
	if o.Detail != "" {
		detail := o.Detail
		rec.Detail = &detail
	}
	return rec
}
