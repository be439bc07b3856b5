package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driven"
	"github.com/custodia-labs/certprobe/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Transport = (*Client)(nil)

const (
	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects = 10

	// DefaultUserAgent identifies probes to the remote host.
	DefaultUserAgent = "certprobe"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
// Its CheckRedirect is replaced so the redirect limit still applies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimiter throttles requests through limiter.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithRate reads the requests-per-second cap before each request and
// rebuilds the limiter whenever the value changes. A non-positive rate
// disables limiting.
func WithRate(rate func() float64) Option {
	return func(c *Client) {
		c.rate = rate
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// Client issues HEAD requests over HTTP.
type Client struct {
	http      *http.Client
	userAgent string

	mu          sync.Mutex
	limiter     *RateLimiter
	rate        func() float64
	currentRate float64
}

// NewClient creates an HTTP transport.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.CheckRedirect = checkRedirect
	return c
}

// Head requests url and reports the final response after redirects.
// The request is abandoned after timeout; a zero timeout means no limit
// beyond ctx.
func (c *Client) Head(ctx context.Context, url string, timeout time.Duration) (*driven.HeadResponse, error) {
	limiter := c.rateLimiter()
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, &domain.TransportError{Class: domain.FailureRequest, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, http.NoBody)
	if err != nil {
		return nil, &domain.TransportError{Class: domain.FailureRequest, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests && limiter != nil {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		logger.Warn("Rate limited by %s, backing off", req.URL.Host)
		limiter.RecordRateLimitError(retryAfter)
	}

	final := url
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	if final != url {
		logger.Debug("Redirected %s -> %s", url, final)
	}

	return &driven.HeadResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    final,
	}, nil
}

// rateLimiter returns the limiter for the current rate, or nil when unlimited.
func (c *Client) rateLimiter() *RateLimiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rate == nil {
		return c.limiter
	}
	if r := c.rate(); r != c.currentRate {
		logger.Debug("Request rate set to %g/s", r)
		c.currentRate = r
		c.limiter = NewRateLimiter(r)
	}
	return c.limiter
}

func checkRedirect(_ *http.Request, via []*http.Request) error {
	if len(via) >= MaxRedirects {
		return fmt.Errorf("stopped after %d redirects", MaxRedirects)
	}
	return nil
}
