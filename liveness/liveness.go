// Package liveness provides methods for determining whether a URL is currently serving content.
//
// Every failure (unsupported scheme, malformed URL, DNS, TLS, timeout, non-200 status) is reported
// as "not alive" without distinguishing between transient and permanent errors. There are no retries.
package liveness

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DEFAULT_TIMEOUT is the default ceiling for a single liveness probe.
const DEFAULT_TIMEOUT time.Duration = 3 * time.Second

// DEFAULT_USER_AGENT is the default User-Agent header sent with liveness probes.
const DEFAULT_USER_AGENT string = "go-sfomuseum-spots"

// Checker is an interface for reporting whether a URL is reachable.
type Checker interface {
	// IsAlive returns true if 'uri' is currently serving content.
	IsAlive(context.Context, string) bool
}

// CheckerFunc adapts an ordinary function to the `Checker` interface.
type CheckerFunc func(context.Context, string) bool

// IsAlive calls f(ctx, uri).
func (f CheckerFunc) IsAlive(ctx context.Context, uri string) bool {
	return f(ctx, uri)
}

// HasSupportedScheme returns true if 'uri' starts with "http://" or "https://".
func HasSupportedScheme(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// HTTPCheckerOptions defines configuration options for creating a new `HTTPChecker` instance.
type HTTPCheckerOptions struct {
	// The maximum amount of time a single probe, including redirects, may take.
	Timeout time.Duration
	// The maximum number of probes per second. Zero (or less) means no limit.
	RateLimit float64
	// The User-Agent header to send with each probe.
	UserAgent string
	// An optional http.Client to use instead of the default. If set Timeout is ignored.
	Client *http.Client
}

// HTTPChecker implements the `Checker` interface by issuing HTTP HEAD requests.
type HTTPChecker struct {
	Checker
	client     *http.Client
	limiter    *rate.Limiter
	user_agent string
}

// NewHTTPChecker returns a new `HTTPChecker` instance configured by 'opts'.
func NewHTTPChecker(opts *HTTPCheckerOptions) *HTTPChecker {

	client := opts.Client

	if client == nil {

		timeout := opts.Timeout

		if timeout <= 0 {
			timeout = DEFAULT_TIMEOUT
		}

		// The default redirect policy follows up to 10 redirects and preserves the HEAD method.
		client = &http.Client{
			Timeout: timeout,
		}
	}

	c := &HTTPChecker{
		client:     client,
		user_agent: opts.UserAgent,
	}

	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return c
}

// IsAlive returns true if a HEAD request for 'uri' (following redirects) completes with a "200 OK" status.
func (c *HTTPChecker) IsAlive(ctx context.Context, uri string) bool {

	if uri == "" || !HasSupportedScheme(uri) {
		return false
	}

	logger := slog.Default()
	logger = logger.With("url", uri)

	if c.limiter != nil {

		err := c.limiter.Wait(ctx)

		if err != nil {
			logger.Debug("Rate limiter wait failed", "error", err)
			return false
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, uri, nil)

	if err != nil {
		logger.Debug("Failed to create request", "error", err)
		return false
	}

	if c.user_agent != "" {
		req.Header.Set("User-Agent", c.user_agent)
	}

	rsp, err := c.client.Do(req)

	if err != nil {
		logger.Debug("Probe failed", "error", err)
		return false
	}

	defer rsp.Body.Close()

	logger.Debug("Probe complete", "status", rsp.StatusCode)
	return rsp.StatusCode == http.StatusOK
}
