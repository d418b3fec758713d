package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/resilience"
	"github.com/neilpattanaik/ParlayWatch/internal/usecase"
)

func newTestClient(baseURL string, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		BaseURL:        baseURL,
		Timeout:        2 * time.Second,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestClient_FetchRawFeed_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("accept") != "application/json" {
			t.Errorf("unexpected accept header: %q", r.Header.Get("accept"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sports":[{"id":"20","name":"Football","leagues":[]}]}`))
	}))
	defer srv.Close()

	feed, err := newTestClient(srv.URL, resilience.CircuitBreakerConfig{}).FetchRawFeed(context.Background())
	if err != nil {
		t.Fatalf("fetch raw feed: %v", err)
	}
	if len(feed.Sports) != 1 {
		t.Fatalf("unexpected sports count: %d", len(feed.Sports))
	}
}

func TestClient_FetchRawFeed_FailuresAreFetchErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("upstream down"))
			},
			wantMsg: "provider status=502",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>maintenance</html>`))
			},
			wantMsg: "decode scoreboard feed",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := newTestClient(srv.URL, resilience.CircuitBreakerConfig{}).FetchRawFeed(context.Background())
			if err == nil {
				t.Fatalf("expected error")
			}
			if !usecase.IsFetchError(err) {
				t.Fatalf("expected fetch error marker, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("expected %q in error, got %q", tc.wantMsg, err.Error())
			}
		})
	}
}

func TestClient_FetchRawFeed_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, resilience.CircuitBreakerConfig{}).FetchRawFeed(context.Background())
	if err == nil {
		t.Fatalf("expected error for closed server")
	}
	if !usecase.IsFetchError(err) {
		t.Fatalf("expected fetch error marker, got %v", err)
	}
}

func TestClient_FetchRawFeed_CircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 3; i++ {
		_, err := client.FetchRawFeed(context.Background())
		if !usecase.IsFetchError(err) {
			t.Fatalf("attempt %d: expected fetch error, got %v", i, err)
		}
	}
	if hits.Load() != 2 {
		t.Fatalf("expected breaker to stop the third request, hits=%d", hits.Load())
	}
	if client.breaker.State() != resilience.CircuitStateOpen {
		t.Fatalf("unexpected breaker state: %s", client.breaker.State())
	}
}

type recordingFetchMetrics struct {
	mu       sync.Mutex
	observed []string
	rejected int
}

func (m *recordingFetchMetrics) ObserveFetch(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observed = append(m.observed, outcome)
}

func (m *recordingFetchMetrics) RecordFetchRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected++
}

func TestClient_FetchRawFeed_MetricsOutcomes(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"sports":[]}`))
	}))
	defer srv.Close()

	metrics := &recordingFetchMetrics{}
	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
		Metrics: metrics,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchRawFeed(context.Background()); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	fail.Store(true)
	_, _ = client.FetchRawFeed(context.Background())
	_, _ = client.FetchRawFeed(context.Background())

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	if strings.Join(metrics.observed, ",") != "ok,error" {
		t.Fatalf("unexpected observed outcomes: %v", metrics.observed)
	}
	if metrics.rejected != 1 {
		t.Fatalf("expected one rejection, got %d", metrics.rejected)
	}
}

func TestNewClient_DoesNotMutateCallerHTTPClient(t *testing.T) {
	t.Parallel()

	shared := &http.Client{}
	client := NewClient(ClientConfig{HTTPClient: shared, Timeout: 3 * time.Second, Logger: logging.NewNop()})

	if shared.Timeout != 0 {
		t.Fatalf("caller client timeout changed to %s", shared.Timeout)
	}
	if client.httpClient == shared {
		t.Fatalf("expected the client to hold its own copy")
	}
	if client.httpClient.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %s", client.httpClient.Timeout)
	}

	defaulted := NewClient(ClientConfig{HTTPClient: &http.Client{}, Logger: logging.NewNop()})
	if defaulted.httpClient.Timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %s", defaulted.httpClient.Timeout)
	}
}
