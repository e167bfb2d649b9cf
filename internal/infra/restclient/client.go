// Package restclient moves record payloads to and from a REST API.
//
// Every request waits for the client side rate limiter, is retried with
// exponential backoff on transient failures and runs behind a circuit breaker.
package restclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Online-Ugyvitel/ddata-core/internal/codec"
	"github.com/Online-Ugyvitel/ddata-core/internal/common/pagination"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/entity"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/observability/logging"
	"github.com/Online-Ugyvitel/ddata-core/internal/observability/metrics"
	"github.com/Online-Ugyvitel/ddata-core/internal/resilience/circuitbreaker"
	"github.com/Online-Ugyvitel/ddata-core/internal/resilience/retry"
)

const maxResponseBytes = 10 << 20

// Config contains configuration for the REST client.
type Config struct {
	// BaseURL is prepended to every api endpoint, e.g. https://api.example.com/v1
	BaseURL string

	// Timeout bounds a single HTTP attempt
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the token bucket limiter
	RequestsPerSecond float64
	Burst             int

	Retry   retry.Config
	Breaker circuitbreaker.Config

	// Headers are added to every request (e.g. Authorization)
	Headers map[string]string
}

// DefaultConfig returns the client defaults for baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		Timeout:           15 * time.Second,
		RequestsPerSecond: 10,
		Burst:             5,
		Retry:             retry.RESTConfig(),
		Breaker:           circuitbreaker.RESTConfig(),
	}
}

// Client calls the record endpoints of a REST API.
type Client struct {
	base       *url.URL
	headers    map[string]string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      retry.Config
	breaker    *circuitbreaker.CircuitBreaker
	codec      codec.Codec
}

// New validates cfg and returns a Client. Payloads are exchanged as JSON.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("restclient: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("restclient: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("restclient: base URL must be http or https, got %q", cfg.BaseURL)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		base:       base,
		headers:    cfg.Headers,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		retry:      cfg.Retry,
		breaker:    circuitbreaker.New(cfg.Breaker),
		codec:      codec.JSON{},
	}, nil
}

// Fetch loads the payload of one record. A 404 returns entity.ErrNotFound.
func (c *Client) Fetch(ctx context.Context, endpoint string, id model.ID) (model.Payload, error) {
	return c.do(ctx, http.MethodGet, endpoint, recordPath(endpoint, id), nil, nil)
}

// List loads one page of endpoint. The response object is returned as is,
// so it can be hydrated into an entity.SearchResult.
func (c *Client) List(ctx context.Context, endpoint string, p pagination.Params) (model.Payload, error) {
	return c.do(ctx, http.MethodGet, endpoint, endpoint, p.Values(), nil)
}

// Save creates the record with POST when id is zero and replaces it with PUT
// otherwise. The server's response payload is returned, nil when it is empty.
func (c *Client) Save(ctx context.Context, endpoint string, id model.ID, payload model.Payload) (model.Payload, error) {
	if id.IsZero() {
		return c.do(ctx, http.MethodPost, endpoint, endpoint, nil, payload)
	}
	return c.do(ctx, http.MethodPut, endpoint, recordPath(endpoint, id), nil, payload)
}

// Delete removes one record. A 404 returns entity.ErrNotFound.
func (c *Client) Delete(ctx context.Context, endpoint string, id model.ID) error {
	_, err := c.do(ctx, http.MethodDelete, endpoint, recordPath(endpoint, id), nil, nil)
	return err
}

// BreakerOpen reports whether requests are currently rejected.
func (c *Client) BreakerOpen() bool {
	return c.breaker.IsOpen()
}

func recordPath(endpoint string, id model.ID) string {
	return strings.TrimRight(endpoint, "/") + "/" + url.PathEscape(id.String())
}

// response is the outcome of one attempt that reached the server.
type response struct {
	status int
	body   []byte
}

// do sends one request to path. endpoint is the collection path; metrics are
// labelled with it so that record ids do not create new series.
func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, payload model.Payload) (model.Payload, error) {
	var body []byte
	if payload != nil {
		raw, err := c.codec.Encode(payload)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
		body = raw
	}

	target := c.base.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	resp, err := circuitbreaker.Run(c.breaker, func() (response, error) {
		return retry.Do(ctx, c.retry, func() (response, error) {
			return c.attempt(ctx, method, target.String(), endpoint, path, body)
		})
	})
	if err != nil {
		if circuitbreaker.IsRejected(err) {
			return nil, fmt.Errorf("%s %s: circuit %s: %w", method, path, c.breaker.Name(), err)
		}
		return nil, err
	}

	switch {
	case resp.status == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", method, path, entity.ErrNotFound)
	case resp.status >= 400:
		return nil, &retry.HTTPError{
			StatusCode: resp.status,
			Method:     method,
			Endpoint:   path,
			Message:    snippet(resp.body),
		}
	}

	if len(bytes.TrimSpace(resp.body)) == 0 {
		return nil, nil
	}
	p, err := c.codec.Decode(resp.body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return p, nil
}

// attempt performs one HTTP exchange. Server errors, 408 and 429 are returned
// as *retry.HTTPError so that they are retried and counted by the breaker;
// other statuses are left to the caller.
func (c *Client) attempt(ctx context.Context, method, target, endpoint, path string, body []byte) (response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return response{}, fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return response{}, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Accept", c.codec.ContentType())
	if body != nil {
		req.Header.Set("Content-Type", c.codec.ContentType())
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordTransportRequest(method, endpoint, "error", time.Since(start), 0)
		return response{}, fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	metrics.RecordTransportRequest(method, endpoint, strconv.Itoa(res.StatusCode), time.Since(start), len(raw))
	if err != nil {
		return response{}, fmt.Errorf("read response body: %w", err)
	}

	logging.FromContext(ctx).Debug("rest request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", res.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if res.StatusCode >= 500 ||
		res.StatusCode == http.StatusTooManyRequests ||
		res.StatusCode == http.StatusRequestTimeout {
		return response{}, &retry.HTTPError{
			StatusCode: res.StatusCode,
			Method:     method,
			Endpoint:   path,
			Message:    snippet(raw),
		}
	}
	return response{status: res.StatusCode, body: raw}, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "empty response"
	}
	return s
}

// IsNotFound reports whether err is a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, entity.ErrNotFound)
}
