package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/domain/scoreboard"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/resilience"
	"github.com/neilpattanaik/ParlayWatch/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL      = "https://site.api.espn.com/apis/v2/scoreboard/header"
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 8 << 20
)

const (
	fetchOK    = "ok"
	fetchError = "error"
)

// FetchMetrics records completed fetches with their latency. Breaker
// rejections never reach the network and are only counted.
type FetchMetrics interface {
	ObserveFetch(outcome string, duration time.Duration)
	RecordFetchRejected()
}

type nopFetchMetrics struct{}

func (nopFetchMetrics) ObserveFetch(string, time.Duration) {}
func (nopFetchMetrics) RecordFetchRejected()               {}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxBodyBytes   int64
	Logger         *logging.Logger
	Metrics        FetchMetrics
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches the ESPN scoreboard header. It never retries; a failed call
// is reported once as a fetch error.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxBodyBytes int64
	logger       *logging.Logger
	metrics      FetchMetrics
	breaker      *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopFetchMetrics{}
	}

	// The caller's client is copied so the timeout default stays local.
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	if cfg.HTTPClient != nil {
		clone := *cfg.HTTPClient
		httpClient = &clone
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = cfg.Timeout
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		maxBodyBytes: maxBody,
		logger:       logger,
		metrics:      metrics,
		breaker:      resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
}

func (c *Client) FetchRawFeed(ctx context.Context) (scoreboard.RawFeed, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
		c.metrics.RecordFetchRejected()
		return scoreboard.RawFeed{}, usecase.NewFetchError(
			fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err),
			"espn scoreboard",
		)
	}

	started := time.Now()
	feed, err := c.fetch(ctx)
	c.breaker.Done(err != nil)
	if err != nil {
		c.metrics.ObserveFetch(fetchError, time.Since(started))
		c.logger.WarnContext(ctx, "espn scoreboard request failed", "url", c.baseURL, "error", err)
		return scoreboard.RawFeed{}, usecase.NewFetchError(err, "espn scoreboard")
	}
	c.metrics.ObserveFetch(fetchOK, time.Since(started))

	return feed, nil
}

func (c *Client) fetch(ctx context.Context) (scoreboard.RawFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return scoreboard.RawFeed{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return scoreboard.RawFeed{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return scoreboard.RawFeed{}, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return scoreboard.RawFeed{}, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	feed, err := scoreboard.DecodeFeed(raw)
	if err != nil {
		return scoreboard.RawFeed{}, err
	}
	return feed, nil
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}
