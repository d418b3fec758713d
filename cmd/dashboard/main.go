// Command dashboard is the terminal client for the live-matches API. It keeps
// an All Games listing and a personal dashboard of pinned matches refreshed on
// fixed intervals.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neilpattanaik/ParlayWatch/external/livefeed"
	"github.com/neilpattanaik/ParlayWatch/internal/config"
	"github.com/neilpattanaik/ParlayWatch/internal/dashboard"
	"github.com/neilpattanaik/ParlayWatch/internal/observability"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	apiURL       string
	feedInterval time.Duration
	pollInterval time.Duration
	fetchTimeout time.Duration
	watch        bool
	follow       []string
	metricsAddr  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Follow live matches from the terminal",
	Long: `dashboard polls the live-matches API and keeps two views fresh: every
game grouped by sport and league, and the matches you pinned.

Commands read from stdin:
  games            list every game
  show             show the pinned matches
  add <id>         pin a match
  remove <id>      unpin a match
  quit             exit

Examples:
  dashboard --follow 401547417 --watch
  dashboard --api-url http://localhost:5001/api/live-matches --poll-interval 5s`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runDashboard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "live matches endpoint (default DASHBOARD_API_URL)")
	rootCmd.PersistentFlags().DurationVar(&fetchTimeout, "fetch-timeout", 0, "per-request timeout (default DASHBOARD_FETCH_TIMEOUT)")
	rootCmd.Flags().DurationVar(&feedInterval, "feed-interval", 0, "All Games refresh period (default DASHBOARD_FEED_INTERVAL)")
	rootCmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "dashboard refresh period (default DASHBOARD_POLL_INTERVAL)")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "redraw the dashboard every poll interval")
	rootCmd.Flags().StringSliceVar(&follow, "follow", nil, "match ids to pin once the feed is loaded")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	rootCmd.AddCommand(gamesCmd)
}

func loadClientConfig() (config.ClientConfig, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return config.ClientConfig{}, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if feedInterval > 0 {
		cfg.FeedInterval = feedInterval
	}
	if pollInterval > 0 {
		cfg.PollInterval = pollInterval
	}
	if fetchTimeout > 0 {
		cfg.FetchTimeout = fetchTimeout
	}
	return cfg, nil
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	cfg, err := loadClientConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewConsole(cmd.ErrOrStderr(), cfg.LogLevel).With("component", "dashboard", "version", version)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if metricsAddr != "" {
		metrics = observability.NewMetrics()
		metricsServer := &http.Server{
			Addr:              metricsAddr,
			Handler:           metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	session, err := dashboard.NewSession(dashboard.SessionConfig{
		Source: livefeed.NewClient(livefeed.ClientConfig{
			URL:     cfg.APIURL,
			Timeout: cfg.FetchTimeout,
		}),
		FeedInterval:   cfg.FeedInterval,
		PollInterval:   cfg.PollInterval,
		FetchTimeout:   cfg.FetchTimeout,
		SharedCacheTTL: cfg.SharedCacheTTL,
		Logger:         logger,
		Metrics:        metrics,
	})
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	renderer := dashboard.NewRenderer(time.Local)
	out := cmd.OutOrStdout()

	if len(follow) > 0 {
		go pinWhenLoaded(ctx, session, follow, logger)
	}
	if watch {
		go redraw(ctx, out, renderer, session, cfg.PollInterval)
	}

	go func() {
		runCommands(ctx, cmd.InOrStdin(), out, session, renderer)
		cancel()
	}()

	return <-done
}

// pinWhenLoaded waits for the first All Games tree, then pins ids.
func pinWhenLoaded(ctx context.Context, session *dashboard.Session, ids []string, logger *logging.Logger) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for len(session.Games()) == 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
	for _, matchID := range ids {
		if _, err := session.Add(matchID); err != nil {
			logger.Warn("cannot follow match", "match_id", matchID, "error", err)
		}
	}
}
