package model

import "fmt"

// OutcomeStatus is the terminal classification of one row.
type OutcomeStatus int

const (
	StatusSuccess OutcomeStatus = iota
	StatusSkipped
	StatusFailed
)

// String returns the lowercase status name.
func (s OutcomeStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Well-known failure reasons.
const (
	ReasonInvalidURL = "invalid_or_missing_url"
	ReasonCancelled  = "cancelled"
)

// HTTPStatusReason returns the reason tag for a non-200 response.
func HTTPStatusReason(code int) string {
	return fmt.Sprintf("http_status_%d", code)
}

// UnexpectedReason returns the reason tag for an unanticipated failure.
func UnexpectedReason(kind string) string {
	return "unexpected_" + kind
}

// Outcome is the result of one fetch attempt.
//
// Path and Bytes are only set for StatusSuccess; Reason is only set for
// StatusSkipped and StatusFailed. Detail is optional diagnostic text.
type Outcome struct {
	Status OutcomeStatus
	Row    InputRow
	Path   string
	Bytes  int64
	Reason string
	Detail string
}

// Succeeded returns a success outcome for row stored at path.
func Succeeded(row InputRow, path string, size int64) Outcome {
	return Outcome{Status: StatusSuccess, Row: row, Path: path, Bytes: size}
}

// Skip returns an outcome for a row that was never attempted.
func Skip(row InputRow, reason string) Outcome {
	return Outcome{Status: StatusSkipped, Row: row, Reason: reason}
}

// Fail returns a failed outcome.
func Fail(row InputRow, reason, detail string) Outcome {
	return Outcome{Status: StatusFailed, Row: row, Reason: reason, Detail: detail}
}

// Score returns the score carried by the outcome's row.
func (o Outcome) Score() float64 {
	return o.Row.Score
}

// IsSuccess reports whether the outcome belongs in the success mapping.
func (o Outcome) IsSuccess() bool {
	return o.Status == StatusSuccess
}
