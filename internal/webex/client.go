// Package webex is a small client for the Webex REST API covering the calls
// needed to download room conversations.
package webex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/iksnae/webex-summarizer/internal"
)

// DefaultBaseURL is the public Webex API endpoint
const DefaultBaseURL = "https://webexapis.com/v1"

// ErrMissingToken is returned when a client is used without an access token
var ErrMissingToken = errors.New("webex access token is not set")

// APIError is a non-2xx response from the Webex API
type APIError struct {
	StatusCode int
	Message    string
	TrackingID string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("webex api error %d: %s", e.StatusCode, e.Message)
	if e.TrackingID != "" {
		msg += " (tracking id " + e.TrackingID + ")"
	}
	return msg
}

// Retryable reports whether the request may succeed when sent again
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type errorBody struct {
	Message    string `json:"message"`
	TrackingID string `json:"trackingId"`
	Errors     []struct {
		Description string `json:"description"`
	} `json:"errors"`
}

// Client talks to the Webex REST API
type Client struct {
	baseURL       string
	token         string
	http          *http.Client
	limiter       *rate.Limiter
	maxRetries    int
	retryInterval time.Duration
	normalizer    *Normalizer
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithRateLimit limits outgoing requests to rps per second with the given burst
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMaxRetries sets how many times a throttled or failed request is retried
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n < 0 {
			n = 0
		}
		c.maxRetries = n
	}
}

// WithRetryInterval sets the first wait between retries
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		c.retryInterval = d
	}
}

// NewClient creates a client for baseURL authenticated with token
func NewClient(baseURL, token string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		http:          &http.Client{Timeout: 60 * time.Second},
		limiter:       rate.NewLimiter(rate.Limit(5), 5),
		maxRetries:    3,
		retryInterval: time.Second,
		normalizer:    NewNormalizer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig builds a client from the application configuration
func NewClientFromConfig(cfg internal.WebexConfig) *Client {
	return NewClient(cfg.BaseURL, cfg.Token,
		WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		WithMaxRetries(cfg.MaxRetries),
	)
}

// get fetches path (or an absolute next-page URL) into out and returns the next page URL, if any
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) (string, error) {
	if c.token == "" {
		return "", ErrMissingToken
	}

	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(path, "/")
		if len(query) > 0 {
			target += "?" + query.Encode()
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)

	var next string
	attempt := 0
	op := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		body, header, err := c.do(ctx, target)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Retryable() {
				internal.LogDebug("Webex request %s failed (attempt %d): %v", path, attempt, err)
				if wait := retryAfter(header); wait > 0 {
					if err := sleep(ctx, wait); err != nil {
						return backoff.Permanent(err)
					}
				}
				return err
			}
			if errors.As(err, &apiErr) {
				return backoff.Permanent(err)
			}
			// transport errors are retried unless the context is done
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}

		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(&internal.ParseError{Source: "webex", Key: path, Err: err})
		}
		next = nextLink(header.Get("Link"))
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return next, nil
}

func (c *Client) do(ctx context.Context, target string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("webex request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.Header, newAPIError(resp, body)
	}
	return body, resp.Header, nil
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		TrackingID: resp.Header.Get("TrackingID"),
	}

	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" && len(eb.Errors) > 0 {
			apiErr.Message = eb.Errors[0].Description
		}
		if eb.TrackingID != "" {
			apiErr.TrackingID = eb.TrackingID
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

var linkNextPattern = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="?next"?`)

// nextLink extracts the rel="next" target of an RFC 5988 Link header
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		if m := linkNextPattern.FindStringSubmatch(part); m != nil {
			return m[1]
		}
	}
	return ""
}

// retryAfter reads a Retry-After header given in seconds
func retryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	v := strings.TrimSpace(header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
