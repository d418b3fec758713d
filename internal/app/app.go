package app

import (
	"fmt"
	"net/http"

	"github.com/neilpattanaik/ParlayWatch/external/espn"
	"github.com/neilpattanaik/ParlayWatch/internal/config"
	"github.com/neilpattanaik/ParlayWatch/internal/interfaces/httpapi"
	"github.com/neilpattanaik/ParlayWatch/internal/observability"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/resilience"
	"github.com/neilpattanaik/ParlayWatch/internal/usecase"
)

// NewHTTPServer builds the API server. The returned cleanup releases the
// aggregation worker pool and must run after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger, metrics *observability.Metrics) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	feed := espn.NewClient(espn.ClientConfig{
		BaseURL: cfg.ESPNBaseURL,
		Timeout: cfg.ESPNTimeout,
		Logger:  logger.Named("espn"),
		Metrics: metrics,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})

	liveMatchSvc, err := usecase.NewLiveMatchService(feed, usecase.LiveMatchServiceConfig{
		Workers: cfg.AggregationWorkers,
		Logger:  logger.Named("aggregation"),
		Metrics: metrics,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build live match service: %w", err)
	}

	var metricsHandler http.Handler
	if cfg.MetricsEnabled && metrics != nil {
		metricsHandler = metrics.Handler()
	}

	handler := httpapi.NewHandler(liveMatchSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, metricsHandler)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		liveMatchSvc.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, liveMatchSvc.Close, nil
}
