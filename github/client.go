// Package github is a client for the GitHub REST API covering what gitrecap
// needs: listing commits within a date window with pagination, bounded
// retries with backoff, and rate-limit observation.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second
	defaultRetries = 3

	initialBackoff = 1 * time.Second
	maxBackoff     = 10 * time.Second

	// pageDelay is the cooperative pause between pages for anonymous
	// clients, which run against a much smaller quota.
	pageDelay = 100 * time.Millisecond

	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "gitrecap"

	// maxErrorBody caps how much of a failed response body is retained.
	maxErrorBody = 8 << 10
)

// Doer issues a single HTTP request. *http.Client satisfies it; tests
// substitute their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, defaulting to the public GitHub API.
	BaseURL string
	// Token authenticates requests when non-empty; anonymous otherwise.
	Token string
	// Timeout bounds each individual request attempt.
	Timeout time.Duration
	// Retries is the number of additional attempts after the first,
	// applied to transport failures only.
	Retries int
	// Verbose enables rate-limit status reporting.
	Verbose bool
	// Logger receives client diagnostics; nil disables them.
	Logger *zap.Logger

	// HTTPClient overrides the transport, primarily for tests.
	HTTPClient Doer
	// Sleep overrides the backoff and page-delay sleeps, for tests.
	Sleep func(time.Duration)
}

// Client talks to the commit-listing API. Every request goes through a
// bounded retry loop with exponential backoff; HTTP error statuses are not
// retried, they are classified and returned to the caller.
type Client struct {
	httpClient    Doer
	baseURL       *url.URL
	authenticated bool
	retries       int
	sleep         func(time.Duration)
	log           *zap.Logger
	monitor       *RateLimitMonitor
}

// NewClient builds a Client. When a token is supplied the requests carry it
// via an oauth2 transport and the cooperative page delay is skipped.
func NewClient(opts Options) (*Client, error) {
	rawBase := opts.BaseURL
	if rawBase == "" {
		rawBase = defaultBaseURL
	}
	base, err := url.Parse(rawBase)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing base URL %q: %v", ErrInvalidInput, rawBase, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := opts.Retries
	if retries < 0 {
		retries = defaultRetries
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		if opts.Token != "" {
			src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
			authed := oauth2.NewClient(context.Background(), src)
			authed.Timeout = timeout
			httpClient = authed
		} else {
			httpClient = &http.Client{Timeout: timeout}
		}
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       base,
		authenticated: opts.Token != "",
		retries:       retries,
		sleep:         sleep,
		log:           log,
		monitor:       NewRateLimitMonitor(log, opts.Verbose),
	}, nil
}

// do performs one logical GET with bounded retries. Transport failures are
// retried; responses, whatever their status, are returned for the caller to
// interpret.
func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := backoffForAttempt(attempt)
			c.log.Debug("retrying request",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", delay))
			c.sleep(delay)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: building request for %q: %v", ErrInvalidInput, rawURL, err)
		}
		req.Header.Set("Accept", acceptHeader)
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		c.log.Warn("request attempt failed",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
	}

	return nil, classifyNetworkError(lastErr)
}

// backoffForAttempt doubles the delay from the 1s base, capped at 10s.
func backoffForAttempt(attempt int) time.Duration {
	delay := initialBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

// decodeJSONAndClose decodes a response body into out and closes it.
func decodeJSONAndClose(body io.ReadCloser, out any) error {
	defer body.Close()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// readErrorBody drains up to maxErrorBody bytes of a failed response.
func readErrorBody(body io.ReadCloser) string {
	defer body.Close()
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	return string(data)
}
