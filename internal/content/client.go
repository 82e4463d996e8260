// Package content talks to the recommendation service and implements the
// next-track acquisition protocol on top of it.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is where the service listens in a local checkout.
	DefaultBaseURL = "http://127.0.0.1:5000"

	// Retry configuration for transient errors
	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client is a recommendation service client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
	retryWait  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryWait sets the base backoff between retries.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     zap.NewNop(),
		retryWait:  baseRetryWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NextSong calls GET /next_song.
func (c *Client) NextSong(ctx context.Context, action, preferredLang string) (*WireTrack, error) {
	var t WireTrack
	path := BuildURL("/next_song", map[string]string{
		"action":         action,
		"preferred_lang": preferredLang,
	})
	if err := c.get(ctx, path, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// SongByID calls GET /song_by_id.
func (c *Client) SongByID(ctx context.Context, id string) (*WireTrack, error) {
	var t WireTrack
	path := BuildURL("/song_by_id", map[string]string{"id": id})
	if err := c.get(ctx, path, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	fullURL := c.baseURL + path
	c.logger.Debug("request", zap.String("method", http.MethodGet), zap.String("url", fullURL))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retryWait * time.Duration(1<<(attempt-1)) // exponential backoff
			c.logger.Debug("retry",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			c.logger.Debug("network error", zap.Error(err))
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		c.logger.Debug("response", zap.Int("status", resp.StatusCode))

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 {
			lastErr = &APIError{Status: resp.StatusCode, Body: string(respBody)}
			continue
		}

		// Don't retry 4xx errors
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Body: string(respBody)}
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// APIError is a non-2xx service response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("service error: status %d", e.Status)
	}
	return fmt.Sprintf("service error: status %d, body: %s", e.Status, body)
}

// BuildURL builds a URL with query parameters. Empty values are kept so the
// service sees an explicit "no preference".
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
