package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/config"
	"github.com/neilpattanaik/ParlayWatch/internal/observability"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
)

func TestNewHTTPServer_ServesLiveMatchesFromUpstream(t *testing.T) {
	now := time.Now().UTC()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sports":[{"id":"40","name":"Basketball","leagues":[{"id":"46","name":"NBA","events":[
			{"id":"1","name":"Finished","date":"` + now.Add(-3*time.Hour).Format(time.RFC3339) + `","fullStatus":{"type":{"completed":true,"detail":"Final"}},
			 "competitors":[{"homeAway":"home","displayName":"Celtics","score":"101"},{"homeAway":"away","displayName":"Knicks","score":"99"}]},
			{"id":"2","name":"Tonight","date":"` + now.Add(3*time.Hour).Format(time.RFC3339) + `","fullStatus":{"type":{"completed":false,"detail":"7:30 PM"}}}
		]}]}]}`))
	}))
	defer upstream.Close()

	cfg := config.Config{
		HTTPAddr:           ":0",
		ESPNBaseURL:        upstream.URL,
		ESPNTimeout:        2 * time.Second,
		AggregationWorkers: 2,
		CORSAllowedOrigins: []string{"*"},
		MetricsEnabled:     true,
	}
	metrics := observability.NewMetrics()

	srv, cleanup, err := NewHTTPServer(cfg, logging.NewNop(), metrics)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	defer cleanup()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/live-matches", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"completed":[{"id":"1"`) {
		t.Fatalf("expected match 1 in completed bucket: %s", body)
	}
	if !strings.Contains(body, `"upcoming":[{"id":"2"`) {
		t.Fatalf("expected match 2 in upcoming bucket: %s", body)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `parlaywatch_upstream_fetch_total{outcome="ok"} 1`) {
		t.Fatalf("expected upstream fetch to be counted")
	}
}

func TestNewHTTPServer_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	srv, cleanup, err := NewHTTPServer(config.Config{
		HTTPAddr:           ":0",
		ESPNBaseURL:        upstream.URL,
		ESPNTimeout:        time.Second,
		CORSAllowedOrigins: []string{"*"},
	}, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	defer cleanup()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/live-matches", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Failed to fetch live matches"}` {
		t.Fatalf("unexpected body: %s", got)
	}
}
