// Package api holds the typed clients for the storefront backend. It is the
// only place raw payloads are seen: every response is decoded loosely and
// normalized into domain types before it leaves the package.
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

	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
	maxBodyBytes         = 4 << 20
)

type BreakerSettings struct {
	// Consecutive failures that open the breaker.
	Failures uint32
	// How long the breaker stays open before letting a probe through.
	Timeout time.Duration
}

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client

	breaker *gobreaker.CircuitBreaker[*response]
}

type response struct {
	status int
	body   []byte
}

// NewHTTPClient returns a client whose transport is traced with otelhttp.
// No client-wide timeout: payment calls own theirs and reconciler fetches
// are bounded by their callers.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

func NewClient(name, baseURL string, httpClient *http.Client, bs BreakerSettings) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if bs.Failures == 0 {
		bs.Failures = 5
	}
	if bs.Timeout <= 0 {
		bs.Timeout = 30 * time.Second
	}

	c := &Client{Name: name, BaseURL: u, HTTP: httpClient}
	c.breaker = gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:    name,
		Timeout: bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.Failures
		},
		// 4xx is the backend answering; only transport errors and 5xx trip.
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < http.StatusInternalServerError
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "service", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// Do sends a JSON request and returns the raw response body of a 2xx answer.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("%s %s %s: marshal body: %w", c.Name, method, path, err)
		}
	}

	resp, err := c.breaker.Execute(func() (*response, error) {
		return c.send(ctx, method, path, query, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s %s %s: %w", c.Name, method, path, ErrBreakerOpen)
	}
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) (*response, error) {
	u := c.BaseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := tokenFrom(ctx); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	if id := logger.RequestID(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}
	if k := idempotencyFrom(ctx); k != "" && method != http.MethodGet {
		req.Header.Set(HeaderIdempotencyKey, k)
	}

	started := time.Now()
	res, err := c.HTTP.Do(req)
	if err != nil {
		metrics.ObserveUpstream(c.Name, method, 0, started)
		return nil, fmt.Errorf("%s %s %s: %w", c.Name, method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	metrics.ObserveUpstream(c.Name, method, res.StatusCode, started)
	if err != nil {
		return nil, fmt.Errorf("%s %s %s: read body: %w", c.Name, method, path, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{
			Service:    c.Name,
			Method:     method,
			Path:       path,
			StatusCode: res.StatusCode,
			Body:       string(data),
		}
	}
	return &response{status: res.StatusCode, body: data}, nil
}
