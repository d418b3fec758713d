// Package livefeed reads the sports tree served by GET /api/live-matches.
package livefeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
	"github.com/valyala/fasthttp"
)

const (
	DefaultURL     = "http://localhost:5001/api/live-matches"
	defaultTimeout = 10 * time.Second
)

type ClientConfig struct {
	URL     string
	Timeout time.Duration
	// HTTPClient is optional; tests inject one dialing an in-memory listener.
	HTTPClient *fasthttp.Client
}

type Client struct {
	http    *fasthttp.Client
	url     string
	timeout time.Duration
}

type errorBody struct {
	Error string `json:"error"`
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = DefaultURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "parlaywatch-dashboard",
			MaxConnsPerHost:     16,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		}
	}

	return &Client{
		http:    httpClient,
		url:     url,
		timeout: timeout,
	}
}

// FetchSports performs one GET. The earlier of ctx's deadline and the client
// timeout bounds the request.
func (c *Client) FetchSports(ctx context.Context) ([]match.Sport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("get live matches: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The response buffer returns to the pool on release; decoded strings must not alias it.
	body := append([]byte(nil), resp.Body()...)

	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		var apiErr errorBody
		if err := sonic.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("live matches status=%d: %s", status, apiErr.Error)
		}
		return nil, fmt.Errorf("live matches status=%d", status)
	}

	var sports []match.Sport
	if err := sonic.Unmarshal(body, &sports); err != nil {
		return nil, fmt.Errorf("decode live matches: %w", err)
	}
	if sports == nil {
		sports = []match.Sport{}
	}
	return sports, nil
}
