// Package transport is the single point of outbound HTTP communication for
// the SDK. It attaches bearer credentials, retries transient failures with
// exponential backoff, unwraps the platform response envelope and
// normalizes every terminal failure into an *APIError.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/lingnexus/platform-sdk/pkg/logger"
)

// Version is sent with every request as X-Client-Version.
const Version = "lingnexus-go/1.2.0"

const maxResponseSize = 32 << 20

// TokenProvider supplies the bearer token for outbound requests. An empty
// token sends the request unauthenticated.
type TokenProvider interface {
	Token() string
}

// Config configures the client.
type Config struct {
	// BaseURL is the versioned API base path.
	BaseURL string
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// Retry is the transient-failure retry policy.
	Retry RetryConfig
}

// Option customizes a Client.
type Option func(*Client)

// WithTokenProvider sets the bearer-token source.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) { c.tokens = tp }
}

// WithUnauthorizedHook registers the callback invoked when the server
// answers 401. The hook owns session teardown; the transport stays free of
// UI concerns.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRateLimit enables a client-side request budget in requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// Client issues authenticated JSON requests against the platform API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	retry          RetryConfig
	tokens         TokenProvider
	onUnauthorized func()
	limiter        *rate.Limiter
	log            *logger.Logger

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a client for the given base URL.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry == (RetryConfig{}) {
		cfg.Retry = DefaultRetryConfig()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retry:      cfg.Retry,
		log:        logger.NewDefault("transport"),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request performs an HTTP request and returns the payload bytes. For
// envelope responses the inner data document is returned; bare JSON passes
// through untouched.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	raw, status, err := c.doWithRetry(ctx, method, path, query, payload, "application/json")
	return c.finish(path, raw, status, err)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Request(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Request(ctx, http.MethodPost, path, nil, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Request(ctx, http.MethodPut, path, nil, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

// Upload performs a multipart POST. The build callback writes the form
// parts; the writer is closed here.
func (c *Client) Upload(ctx context.Context, path string, build func(*multipart.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := build(w); err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart form: %w", err)
	}

	raw, status, err := c.doWithRetry(ctx, http.MethodPost, path, nil, buf.Bytes(), w.FormDataContentType())
	return c.finish(path, raw, status, err)
}

// Download fetches raw bytes (file contents), bypassing envelope handling.
func (c *Client) Download(ctx context.Context, path string, query url.Values) ([]byte, error) {
	raw, status, err := c.doWithRetry(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, networkError(err)
	}
	if status == http.StatusUnauthorized {
		c.handleUnauthorized(path)
	}
	if status >= 400 {
		return nil, parseAPIError(raw, status)
	}
	return raw, nil
}

// Decode unmarshals a payload returned by a Client call into T. The error
// from the call passes through so call sites can chain:
//
//	skills, err := transport.Decode[[]Skill](c.Get(ctx, "/skills", q))
func Decode[T any](body []byte, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if len(body) == 0 {
		return v, nil
	}
	if uerr := json.Unmarshal(body, &v); uerr != nil {
		return v, fmt.Errorf("decode response: %w", uerr)
	}
	return v, nil
}

// finish classifies a settled request: network failure, HTTP error,
// business-logic failure inside a 200, or success.
func (c *Client) finish(path string, raw []byte, status int, err error) ([]byte, error) {
	if err != nil {
		c.log.WithError(err).WithField("path", path).Warn("request failed without response")
		return nil, networkError(err)
	}

	if status == http.StatusUnauthorized {
		c.handleUnauthorized(path)
	}
	if status >= 400 {
		return nil, parseAPIError(raw, status)
	}

	// A 200 with success=false is a business failure, not a transport one.
	if success := gjson.GetBytes(raw, "success"); success.Exists() {
		if !success.Bool() {
			apiErr := parseAPIError(raw, status)
			c.log.WithField("code", apiErr.Code).WithField("path", path).Debug("business-logic failure")
			return nil, apiErr
		}
		if data := gjson.GetBytes(raw, "data"); data.Exists() {
			return []byte(data.Raw), nil
		}
	}
	return raw, nil
}

func (c *Client) handleUnauthorized(path string) {
	c.log.WithField("path", path).Info("session rejected by server")
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values, payload []byte, contentType string) ([]byte, int, error) {
	started := time.Now()

	var (
		lastErr    error
		lastStatus int
		lastBody   []byte
	)

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			retriesTotal.Inc()
			if err := c.sleep(ctx, c.retry.delay(attempt)); err != nil {
				return nil, 0, err
			}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, 0, err
			}
		}

		body, status, err := c.doOnce(ctx, method, path, query, payload, contentType)
		if err != nil {
			if ctx.Err() != nil {
				observeRequest(method, 0, started)
				return nil, 0, ctx.Err()
			}
			lastErr, lastStatus, lastBody = err, 0, nil
			continue
		}
		if retryableStatus(status) && attempt < c.retry.MaxRetries {
			lastErr, lastStatus, lastBody = nil, status, body
			continue
		}

		observeRequest(method, status, started)
		return body, status, nil
	}

	observeRequest(method, lastStatus, started)
	if lastErr != nil {
		return nil, 0, lastErr
	}
	return lastBody, lastStatus, nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, payload []byte, contentType string) ([]byte, int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("X-Client-Version", Version)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
