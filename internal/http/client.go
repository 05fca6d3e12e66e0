package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrReadTimeout is returned when a body read makes no progress within
// the configured read timeout.
var ErrReadTimeout = errors.New("http: read timeout")

// Options configures the HTTP client.
type Options struct {
	// ConnectTimeout bounds dialing and the TLS handshake.
	// Default: 10s
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for response headers and each body read.
	// Default: 10s
	ReadTimeout time.Duration

	// MaxConns caps connections per host. 0 means no cap.
	MaxConns int

	// UserAgent is sent with every request.
	// Default: "PosterDownloader"
	UserAgent string

	// RequestsPerSecond paces outgoing requests. 0 disables pacing.
	RequestsPerSecond float64
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    10 * time.Second,
		MaxConns:       500,
		UserAgent:      "PosterDownloader",
	}
}

// Client wraps HTTP operations for image downloads.
//
// Client provides:
//   - Configured User-Agent header
//   - Per-phase timeout handling
//   - Optional rate limiting
//
// Example usage:
//
//	client := NewClient(DefaultOptions())
//	status, body, err := client.GetBytes(ctx, posterURL)
type Client struct {
	httpClient  *http.Client
	userAgent   string
	readTimeout time.Duration
	limiter     *rate.Limiter
}

// NewClient creates a new HTTP client from opts. Zero-valued fields take
// their defaults.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = def.ConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = def.ReadTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}

	dialer := &net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ReadTimeout,
		MaxConnsPerHost:       opts.MaxConns,
		MaxIdleConnsPerHost:   idleConns(opts.MaxConns),
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		// No Client.Timeout: there is no ceiling on the whole request,
		// only on its individual phases.
		httpClient:  &http.Client{Transport: transport},
		userAgent:   opts.UserAgent,
		readTimeout: opts.ReadTimeout,
		limiter:     limiter,
	}
}

func idleConns(maxConns int) int {
	if maxConns <= 0 || maxConns > 100 {
		return 100
	}
	return maxConns
}

// Response is the status line and body of a GET.
//
// Body must be closed by the caller. Reads from Body fail with
// ErrReadTimeout when the server stalls.
type Response struct {
	StatusCode    int
	Status        string
	ContentLength int64
	Body          io.ReadCloser
}

// Get performs a GET request.
//
// The request includes the configured User-Agent header. Any status code
// is returned without error; only transport failures produce an error.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}

	return &Response{
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		ContentLength: resp.ContentLength,
		Body:          newIdleTimeoutReader(resp.Body, c.readTimeout, cancel),
	}, nil
}

// GetBytes performs a GET request and returns the status code and, for
// 200 OK only, the full response body.
//
// Returns an error if:
//   - The request fails
//   - Reading the body fails or stalls
//
// Example:
//
//	status, data, err := client.GetBytes(ctx, "https://example.com/image.jpg")
func (c *Client) GetBytes(ctx context.Context, url string) (int, []byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return resp.StatusCode, nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// idleTimeoutReader cancels the request when no read completes within
// timeout. The timer restarts after every read that returns data.
type idleTimeoutReader struct {
	rc      io.ReadCloser
	timeout time.Duration
	timer   *time.Timer
	cancel  context.CancelFunc
	fired   atomic.Bool
}

func newIdleTimeoutReader(rc io.ReadCloser, timeout time.Duration, cancel context.CancelFunc) *idleTimeoutReader {
	r := &idleTimeoutReader{rc: rc, timeout: timeout, cancel: cancel}
	r.timer = time.AfterFunc(timeout, func() {
		r.fired.Store(true)
		cancel()
	})
	return r
}

// Read implements io.Reader.
func (r *idleTimeoutReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if r.fired.Load() {
		return n, ErrReadTimeout
	}
	if n > 0 {
		r.timer.Reset(r.timeout)
	}
	return n, err
}

// Close implements io.Closer.
func (r *idleTimeoutReader) Close() error {
	r.timer.Stop()
	err := r.rc.Close()
	r.cancel()
	return err
}
