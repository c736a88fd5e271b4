package poller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits; every cycle hits the same hosts again
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// Client is an HTTP client wrapper for probing targets.
//
// Client uses per-request timeouts via context rather than a global timeout.
// Response bodies are drained (up to 1MB) so that connections can be reused
// by the next cycle, but their content is not kept.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new probing [Client] with connection pooling enabled.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
	}
}

// Probe issues a single GET against target and returns a [CheckResult].
//
// On success the result carries the status code and the elapsed time of the
// whole exchange (headers and body). On any failure (invalid URL, DNS, dial,
// TLS, timeout, malformed response, body read error) the result carries no
// status, no elapsed time and a non-nil Err.
//
// Probe never panics: a panic raised while performing the request is
// recovered and reported as a failure with a correlation ID.
//
// The timeout is applied through ctx. Cancellation of ctx is not detached
// here; callers that must not abort an in-flight probe pass a detached
// context (see [Poller.Run]).
func (c *Client) Probe(ctx context.Context, target string, timeout time.Duration) (result CheckResult) {
	result.Target = target

	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			result = CheckResult{
				Target:    target,
				CheckedAt: time.Now(),
				Err:       fmt.Errorf("probe panic: %v (correlation_id: %s)", r, correlationID),
			}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return failed(target, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed(target, fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize)); err != nil {
		return failed(target, fmt.Errorf("failed to read response body: %w", err))
	}

	return CheckResult{
		Target:     target,
		StatusCode: resp.StatusCode,
		Elapsed:    time.Since(start),
		CheckedAt:  time.Now(),
	}
}

// failed builds the failure shape of a [CheckResult].
func failed(target string, err error) CheckResult {
	if err == nil {
		err = errors.New("probe failed")
	}
	return CheckResult{
		Target:    target,
		CheckedAt: time.Now(),
		Err:       err,
	}
}

// Close closes all idle connections in the client's connection pool.
// Safe to call multiple times and on a nil receiver.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
