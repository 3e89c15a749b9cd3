// Package api is the HTTP client for the Sentimenta backend. It shares one
// cookie jar with the credential store, so credentials set by the server are
// visible to session synchronization.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/observability"
	apperrors "github.com/sentimenta/moodsync/pkg/util"
)

// Fixed endpoints of the backend.
const (
	PathMoods  = "/api/moods/get"
	PathAdvice = "/api/advice"
	PathUser   = "/api/user/get"
	PathStatus = "/api/status"
	PathLogin  = "/api/auth/login"
)

const maxBodyBytes = 4 << 20

// Options configures a Client.
type Options struct {
	BaseURL *url.URL
	Jar     http.CookieJar
	Timeout time.Duration
	Logger  *zap.Logger
	Metrics *observability.Metrics
	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

// Client issues requests against one backend origin.
type Client struct {
	http    *http.Client
	base    *url.URL
	logger  *zap.Logger
	metrics *observability.Metrics
}

// New builds a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == nil {
		return nil, errors.New("api: base URL is required")
	}
	return &Client{
		http: &http.Client{
			Jar:       opts.Jar,
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		base:    opts.BaseURL,
		logger:  observability.OrNop(opts.Logger).Named("api"),
		metrics: opts.Metrics,
	}, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() *url.URL {
	return c.base
}

// Jar returns the cookie jar requests are sent with.
func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

// Get fetches path and returns the body of a 2xx response.
// Anything else is a FETCH_FAILED DomainError.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// PostJSON sends payload as JSON and returns the body of a 2xx response.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	endpoint := c.base.ResolveReference(&url.URL{Path: path, RawQuery: query.Encode()})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, apperrors.NewFetchError(method, path, 0, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordRequest(path, method, 0, time.Since(start))
		c.metrics.RecordError(path, method, apperrors.CodeFetchFailed)
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, apperrors.NewFetchError(method, path, 0, err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	c.metrics.RecordRequest(path, method, resp.StatusCode, elapsed)
	c.logger.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
		zap.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordError(path, method, apperrors.CodeFetchFailed)
		return nil, apperrors.NewFetchError(method, path, resp.StatusCode, nil)
	}
	if readErr != nil {
		c.metrics.RecordError(path, method, apperrors.CodeFetchFailed)
		return nil, apperrors.NewFetchError(method, path, resp.StatusCode, readErr)
	}
	return data, nil
}
