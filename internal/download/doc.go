// Package download provides the concurrent fetch pipeline that turns input
// rows into stored posters, a success mapping and a failure log.
//
// # Manager
//
// The Manager coordinates a run:
//
//  1. Start one goroutine per input row
//  2. Validate the row's URL (invalid rows are logged, never fetched)
//  3. Wait for a slot of the admission gate
//  4. Fetch the image and store it
//  5. Record every failed or skipped row in the failure log
//  6. After all rows finish, write the success mapping once
//
// # Basic Usage
//
//	manager, err := download.Open(ctx, settings, logger, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer manager.Close()
//
//	mapping, err := manager.Run(ctx, rows)
//	if err != nil {
//	    log.Fatal(err) // infrastructure failure, e.g. mapping not writable
//	}
//
// # Concurrency
//
// Every row is in flight from the start, but at most
// settings.ConcurrencyLimit rows hold an admission slot (and therefore a
// network connection) at any time. The slot is released on every exit
// path of a fetch, including panics.
//
// # Failure Reasons
//
// Failed rows are tagged with one of:
//   - invalid_or_missing_url: no request was made
//   - http_status_<code>: the server did not answer 200 OK
//   - timeout, dns_error, connection_refused, connection_reset, tls_error,
//     unexpected_eof, invalid_url, too_many_redirects, connection_error
//   - cancelled: the run was interrupted before the row finished
//   - unexpected_<kind>: anything else, with a diagnostic detail
//
// Failed downloads are never retried.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent,
// and counters can be polled with GetProgress.
package download
