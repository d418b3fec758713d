package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/cache"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/id"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const (
	ViewFeed      = "feed"
	ViewDashboard = "dashboard"

	sharedFeedKey = "live-matches"
)

var (
	ErrSourceRequired = errors.New("feed source is required")
	ErrUnknownMatch   = errors.New("match not in current feed")
)

type FeedSource interface {
	FetchSports(ctx context.Context) ([]match.Sport, error)
}

type SessionConfig struct {
	Source       FeedSource
	FeedInterval time.Duration
	PollInterval time.Duration
	FetchTimeout time.Duration
	// SharedCacheTTL > 0 lets both loops reuse one fetched tree within the TTL.
	SharedCacheTTL time.Duration
	Logger         *logging.Logger
	Metrics        PollMetrics
	IDs            id.Generator
	Now            func() time.Time
}

// Session is one viewer: a selection plus the All Games and Dashboard loops.
type Session struct {
	id        string
	logger    *logging.Logger
	selection *Selection
	feed      *FeedView
	dashboard *DashboardView
	shared    *cache.Store[[]match.Sport]

	feedPoller      *Poller[[]match.Sport]
	dashboardPoller *Poller[[]match.Sport]
}

func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Source == nil {
		return nil, ErrSourceRequired
	}
	if cfg.IDs == nil {
		cfg.IDs = id.NewUUIDGenerator()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	sessionID, err := cfg.IDs.NewID()
	if err != nil {
		return nil, fmt.Errorf("new session id: %w", err)
	}
	logger := cfg.Logger.With("session_id", sessionID)

	var shared *cache.Store[[]match.Sport]
	fetch := cfg.Source.FetchSports
	if cfg.SharedCacheTTL > 0 {
		shared = cache.NewStore[[]match.Sport](cfg.SharedCacheTTL)
		fetch = func(ctx context.Context) ([]match.Sport, error) {
			return shared.GetOrLoad(ctx, sharedFeedKey, cfg.Source.FetchSports)
		}
	}

	selection := NewSelection()
	s := &Session{
		id:        sessionID,
		logger:    logger,
		selection: selection,
		feed:      NewFeedView(cfg.Now),
		dashboard: NewDashboardView(selection, cfg.Now),
		shared:    shared,
	}
	s.feedPoller = NewPoller(PollerConfig[[]match.Sport]{
		View:         ViewFeed,
		Interval:     cfg.FeedInterval,
		FetchTimeout: cfg.FetchTimeout,
		Fetch:        fetch,
		Apply:        s.feed.Apply,
		Logger:       logger,
		Metrics:      cfg.Metrics,
	})
	s.dashboardPoller = NewPoller(PollerConfig[[]match.Sport]{
		View:         ViewDashboard,
		Interval:     cfg.PollInterval,
		FetchTimeout: cfg.FetchTimeout,
		Fetch:        fetch,
		Apply:        s.dashboard.Apply,
		Logger:       logger,
		Metrics:      cfg.Metrics,
	})

	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Run polls both views until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("dashboard session started")

	var wg conc.WaitGroup
	errs := make(chan error, 2)
	wg.Go(func() { errs <- s.feedPoller.Run(ctx) })
	wg.Go(func() { errs <- s.dashboardPoller.Run(ctx) })
	wg.Wait()
	close(errs)

	var joined error
	for err := range errs {
		joined = errors.Join(joined, err)
	}
	s.dropShared(context.WithoutCancel(ctx))
	s.logger.Info("dashboard session stopped")
	return joined
}

// Refresh drops the shared tree and asks both views to fetch now.
func (s *Session) Refresh(ctx context.Context) {
	s.dropShared(ctx)
	s.feedPoller.Trigger()
	s.dashboardPoller.Trigger()
}

func (s *Session) dropShared(ctx context.Context) {
	if s.shared == nil {
		return
	}
	s.shared.Delete(ctx, sharedFeedKey)
}

// Add pins a match from the latest All Games tree and refreshes the dashboard.
func (s *Session) Add(matchID string) (match.Match, error) {
	m, ok := s.feed.FindMatch(matchID)
	if !ok {
		return match.Match{}, fmt.Errorf("%w: %s", ErrUnknownMatch, matchID)
	}
	s.selection.Add(m)
	s.dashboardPoller.Trigger()
	return m, nil
}

// Remove unpins every entry for matchID. It reports whether anything changed.
func (s *Session) Remove(matchID string) bool {
	removed := s.selection.Remove(match.Match{ID: matchID})
	if removed {
		s.dashboardPoller.Trigger()
	}
	return removed
}

func (s *Session) Selection() *Selection {
	return s.selection
}

func (s *Session) Games() []match.Sport {
	return s.feed.Sports()
}

func (s *Session) Dashboard() match.Partition {
	return s.dashboard.Partition()
}
