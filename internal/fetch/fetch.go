// Package fetch downloads provider pages and factsheet documents over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"github.com/acastel/ytm-tracker/internal/apperrors"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client downloads documents with per-attempt deadlines and bounded retries.
// Cookies registered for a domain ride along on matching requests; that is
// how the Sycomore investor-profile interstitial is bypassed.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	retries    uint64
	userAgent  string
	cookies    []domainCookie
	log        *logrus.Logger
}

type domainCookie struct {
	domain string
	cookie *http.Cookie
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-attempt deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries sets how many times a retryable failure is attempted again.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = uint64(n)
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for per-attempt debug output.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithCookie registers a cookie sent on requests to the given domain and its
// subdomains. A leading dot on the domain is accepted and ignored.
func WithCookie(domain string, cookie *http.Cookie) Option {
	return func(c *Client) {
		c.cookies = append(c.cookies, domainCookie{domain: domain, cookie: cookie})
	}
}

// New creates a Client with the provided options applied over the defaults.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		timeout:    30 * time.Second,
		retries:    3,
		userAgent:  defaultUserAgent,
		log:        logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get downloads url and returns the response body.
//
// Transport errors and 5xx/429 responses are retried with exponential
// backoff. Deadline overruns are not retried and map to ErrTimeout; any
// other failure that survives the retries maps to ErrSourceUnavailable.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempt := 0

	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		c.log.WithFields(logrus.Fields{
			"url":     url,
			"attempt": attempt,
		}).Debug("fetching document")

		b, err := c.fetchOnce(ctx, url)
		if err != nil {
			if isTimeout(err) {
				return err
			}
			if isRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: fetching %s: %v", apperrors.ErrTimeout, url, err)
		}
		return nil, fmt.Errorf("%w: fetching %s: %v", apperrors.ErrSourceUnavailable, url, err)
	}

	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")
	for _, dc := range c.cookies {
		if hostMatches(req.URL.Hostname(), dc.domain) {
			req.AddCookie(dc.cookie)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, url: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// statusError is a non-200 response. 5xx and 429 are considered transient.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.code, e.url)
}

func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	// Transport-level failures (refused connections, resets) are worth
	// another attempt.
	return true
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func hostMatches(host, domain string) bool {
	domain = strings.TrimPrefix(domain, ".")
	return host == domain || strings.HasSuffix(host, "."+domain)
}
