package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultUserAgent is sent when the configured headers do not set one.
const DefaultUserAgent = "spddl"

// Options configures a Client.
type Options struct {
	// Timeout bounds a whole request including the body read. Zero means 60s.
	Timeout time.Duration

	// Headers are added to every request. They are static for the client's lifetime.
	Headers map[string]string

	// RequestsPerSecond limits the request rate. Zero disables limiting.
	RequestsPerSecond float64

	// Transport overrides the underlying round tripper, mostly for tests.
	Transport http.RoundTripper
}

// Client wraps HTTP operations with a static header set and an optional
// rate limit.
//
// Client provides:
//   - Static headers identifying the calling origin
//   - Timeout handling
//   - Whole-body downloads with progress tracking
//   - Errors typed as *StatusError or *TransportError so callers can
//     decide what is worth retrying
//
// Example usage:
//
//	client := NewClient(Options{Headers: map[string]string{"Origin": "https://example.com"}})
//
//	body, err := client.Get(ctx, "https://api.example.com/metadata/track/abc")
//
//	data, err := client.Download(ctx, audioURL, func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	limiter    *rate.Limiter
}

// NewClient creates a new HTTP client from opts.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	headers := make(map[string]string, len(opts.Headers)+1)
	headers["User-Agent"] = DefaultUserAgent
	for k, v := range opts.Headers {
		headers[k] = v
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: opts.Transport,
		},
		headers: headers,
		limiter: limiter,
	}
}

// StatusError reports a response whose status was not 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// TransportError reports that the server could not be reached or the
// response body could not be read.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is worth retrying: transport failures,
// timeouts, and 408, 429 or 5xx responses. Cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= 500:
			return true
		}
		return false
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: &buf,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header), -1 if unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns a *TransportError if the server cannot be reached or the body
// cannot be read, and a *StatusError if the status is not 200 OK.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.Download(ctx, url, nil)
}

// Download fetches url into memory, calling onProgress as bytes arrive.
//
// The whole body is buffered so that callers can write it to disk in one
// call. Pass nil to disable progress tracking.
func (c *Client) Download(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var buf bytes.Buffer
	var writer io.Writer = &buf
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   &buf,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	return buf.Bytes(), nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransportError{URL: url, Err: err}
	}
	return resp, nil
}
