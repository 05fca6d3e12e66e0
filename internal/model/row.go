package model

import "strings"

// InputRow is a single record read from the input table.
//
// URL is nil when the source cell was empty. Index is the zero-based
// position of the row in the source and is the only identity a row has.
type InputRow struct {
	Index int
	Title string
	URL   *string
	Score float64
}

// NewInputRow builds an InputRow, treating an empty url as absent.
func NewInputRow(index int, title, url string, score float64) InputRow {
	row := InputRow{Index: index, Title: title, Score: score}
	if strings.TrimSpace(url) != "" {
		row.URL = &url
	}
	return row
}

// URLString returns the URL or "" when it is absent.
func (r InputRow) URLString() string {
	if r.URL == nil {
		return ""
	}
	return *r.URL
}

// HasHTTPURL reports whether the row carries something that looks like an
// HTTP(S) URL. Only the scheme prefix is checked; anything further is left
// to the request itself.
func (r InputRow) HasHTTPURL() bool {
	if r.URL == nil {
		return false
	}
	u := strings.ToLower(strings.TrimSpace(*r.URL))
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
