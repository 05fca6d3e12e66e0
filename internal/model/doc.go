// Package model defines the core data structures used throughout
// the poster-downloader application.
//
// # InputRow
//
// InputRow is one record of the input table, the unit of work for one
// fetch attempt:
//
//	url := "https://example.com/poster.jpg"
//	row := model.InputRow{Index: 0, Title: "Toy Story (1995)", URL: &url, Score: 8.3}
//
// # Outcome
//
// Every row ends in exactly one Outcome. Success outcomes feed the
// SuccessMapping, Skipped and Failed outcomes become FailureRecords:
//
//	out := model.Succeeded(row, "poster_images/Toy_Story_1995_.jpg", 12345)
//	out := model.Skip(row, model.ReasonInvalidURL)
//	out := model.Fail(row, model.HTTPStatusReason(404), "")
//
// # Reasons
//
// Failure reasons are short snake_case tags:
//
//	invalid_or_missing_url   URL absent or not http(s), no request made
//	http_status_<code>       server answered with something other than 200
//	timeout, dns_error, ...  transport failures, named by kind
//	unexpected_<kind>        anything else, with a diagnostic Detail
package model
