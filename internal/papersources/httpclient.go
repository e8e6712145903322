package papersources

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/helixir/paper-search-service/internal/domain"
)

// DefaultUserAgent mimics a desktop browser; some providers reject obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxErrorBodySize bounds how much of an error response ends up in an error message.
const maxErrorBodySize = 1024

// HTTPClientConfig configures the HTTP client.
type HTTPClientConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// MaxIdleConnsPerHost sizes the keep-alive pool per upstream host.
	MaxIdleConnsPerHost int
}

// HTTPClient wraps a pooled http.Client with an optional rate limiter.
// One client is created per coordinated search and closed when the search ends.
// It issues every request exactly once; there are no retries.
// It is safe for concurrent use.
type HTTPClient struct {
	client      *http.Client
	transport   *http.Transport
	rateLimiter *RateLimiter
	config      HTTPClientConfig
}

// NewHTTPClient creates a client with its own connection pool.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = 4
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost

	return &HTTPClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		transport: transport,
		config:    cfg,
	}
}

// WithRateLimiter returns a copy of the client that waits on rl before every
// request. The copy shares the connection pool of the original.
func (c *HTTPClient) WithRateLimiter(rl *RateLimiter) *HTTPClient {
	cp := *c
	cp.rateLimiter = rl
	return &cp
}

// Do executes an HTTP request once. It sets the User-Agent header unless the
// request already carries one and waits for the rate limiter if configured.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// Close releases the pooled connections. Requests already in flight are not
// interrupted; the client must not be used after Close.
func (c *HTTPClient) Close() {
	c.transport.CloseIdleConnections()
}

// StatusError converts a non-2xx response into a domain.ExternalAPIError.
// The response body is drained but not closed.
func StatusError(source string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return domain.NewExternalAPIError(source, resp.StatusCode, message, nil)
}
