package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ft-go/internal/config"
	"ft-go/internal/ft"
)

const (
	// maxRetryDelay caps the exponential backoff between GET attempts.
	maxRetryDelay = 10 * time.Second

	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 8 << 20
)

// Observer receives one call per HTTP exchange. status is 0 when no response arrived.
type Observer interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
}

// Client issues JSON requests against the flight backend. Every non-2xx
// response and every transport failure is returned as *RequestFailedError.
//
// GET requests are retried with exponential backoff on transport failures and
// 5xx responses, up to the configured attempt count. POST and DELETE are sent
// exactly once.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	maxAttempts int
	retryDelay  time.Duration
	logger      ft.Logger
	ids         ft.IDGenerator
	observer    Observer
}

var _ ft.Backend = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. Its Timeout is left as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithIDGenerator sets the source of X-Request-ID values.
func WithIDGenerator(ids ft.IDGenerator) Option {
	return func(c *Client) { c.ids = ids }
}

// WithObserver reports every exchange to o, e.g. for metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a client for the backend described by cfg.
func NewClient(cfg config.APIConfig, logger ft.Logger, opts ...Option) *Client {
	maxAttempts := cfg.Retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout.Duration,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   "ft",
		maxAttempts: maxAttempts,
		retryDelay:  cfg.Retry.Delay.Duration,
		logger:      logger,
		ids:         ft.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root every path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a GET and decodes the body into out. A nil out discards the body;
// otherwise an empty 2xx body is an error.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with body encoded as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Delete issues a DELETE and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &RequestFailedError{Method: method, Path: path, Err: fmt.Errorf("encoding request body: %w", err)}
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = c.maxAttempts
	}

	delay := c.retryDelay
	for attempt := 1; ; attempt++ {
		err := c.send(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}

		var rf *RequestFailedError
		if attempt >= attempts || ctx.Err() != nil || !errors.As(err, &rf) || !rf.Retryable() {
			return err
		}

		c.logger.Warn("retrying request",
			"method", method,
			"path", path,
			"attempt", attempt,
			"max_attempts", attempts,
			"next_retry_in", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return &RequestFailedError{Method: method, Path: path, Err: ctx.Err()}
		case <-timer.C:
		}

		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
}

// send performs a single HTTP exchange.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return &RequestFailedError{Method: method, Path: path, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	requestID := c.ids.New()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Info("api request",
		"method", method,
		"url", url,
		"request_id", requestID,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, 0, time.Since(start))
		c.logger.Warn("api request failed",
			"method", method,
			"url", url,
			"request_id", requestID,
			"error", err,
		)
		return &RequestFailedError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	c.observe(method, resp.StatusCode, elapsed)
	if err != nil {
		c.logger.Warn("api response unreadable",
			"method", method,
			"url", url,
			"request_id", requestID,
			"status", resp.StatusCode,
			"error", err,
		)
		return &RequestFailedError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.StatusCode, data)
		c.logger.Warn("api error response",
			"method", method,
			"url", url,
			"request_id", requestID,
			"status", resp.StatusCode,
			"message", msg,
			"duration", elapsed,
		)
		return &RequestFailedError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: msg}
	}

	c.logger.Info("api response",
		"method", method,
		"url", url,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", elapsed,
		"bytes", len(data),
	)

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return invalidBody(method, path, resp.StatusCode, errors.New("empty response body"))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return invalidBody(method, path, resp.StatusCode, fmt.Errorf("failed to parse JSON: %w", err))
	}
	if v, ok := out.(validator); ok {
		if err := v.validate(); err != nil {
			return invalidBody(method, path, resp.StatusCode, err)
		}
	}
	return nil
}

// validator is implemented by response types with fields the backend must send.
type validator interface {
	validate() error
}

func invalidBody(method, path string, status int, err error) *RequestFailedError {
	return &RequestFailedError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    "invalid response body",
		Err:        err,
	}
}

func (c *Client) observe(method string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, status, elapsed)
	}
}

// errorMessage extracts the backend's explanation from an error body, falling
// back to the standard status text.
func errorMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	return http.StatusText(status)
}
