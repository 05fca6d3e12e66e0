// Package http provides the HTTP client used to fetch poster images.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Separate connect and read timeouts (no overall request ceiling)
//   - An idle timeout on body reads, reset after every successful read
//   - Connection limits matching the download concurrency
//   - Optional request pacing
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	// Fetch an image
//	status, body, err := client.GetBytes(ctx, "https://example.com/poster.jpg")
//	if err != nil {
//	    // transport failure: timeout, DNS, reset, ...
//	}
//	if status != 200 {
//	    // body is nil
//	}
//
// # Timeouts
//
// ConnectTimeout bounds dialing and the TLS handshake. ReadTimeout bounds
// the wait for response headers and every individual body read. A stalled
// body read fails with ErrReadTimeout.
package http
