// Package transport is the thin JSON contract over the brokerage HTTP API.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"github.com/brokermobile/broker-client/internal/config"
	"github.com/brokermobile/broker-client/internal/logger"
)

// NetworkError reports a non-2xx response. The upstream contract defines no
// error body taxonomy, so the status line is all it carries.
type NetworkError struct {
	StatusCode int
	Status     string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network response was not ok: %s", e.Status)
}

// Client issues requests against the fixed base origin. It is stateless
// beyond the connection pool and the outbound request pacer. No retries, no
// timeouts, no auth.
type Client struct {
	c      *resty.Client
	rl     ratelimit.Limiter
	logger logger.Logger
}

func NewClient(cfg config.APIConfig, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json")

	return &Client{
		c:      client,
		rl:     ratelimit.New(cfg.RequestsPerMinute, ratelimit.Per(time.Minute)),
		logger: logger,
	}
}

// Get issues a GET against path and decodes the JSON body into T. The shape
// is not validated beyond what decoding enforces: callers own correctness.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return do[T](ctx, c, http.MethodGet, path, nil)
}

// Post JSON-encodes body, issues a POST against path and decodes the JSON
// response into T.
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return do[T](ctx, c, http.MethodPost, path, body)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	c.rl.Take()

	req := c.c.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString()).
		SetResult(new(T))
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return zero, fmt.Errorf("%w: can't send %s %s", err, method, path)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if !resp.IsSuccess() {
		return zero, &NetworkError{StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	return *resp.Result().(*T), nil
}
