package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
	"github.com/neilpattanaik/ParlayWatch/internal/domain/scoreboard"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
)

const defaultAggregationWorkers = 8

type LiveMatchServiceConfig struct {
	Workers int
	Logger  *logging.Logger
	Metrics AggregationMetrics
	Now     func() time.Time
}

// LiveMatchService rebuilds the sport, league and match tree from a fresh
// upstream snapshot on every call. Nothing is cached between calls.
type LiveMatchService struct {
	provider   FeedProvider
	normalizer *Normalizer
	pool       *ants.Pool
	logger     *logging.Logger
	metrics    AggregationMetrics
	now        func() time.Time
}

func NewLiveMatchService(provider FeedProvider, cfg LiveMatchServiceConfig) (*LiveMatchService, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: feed provider is required", ErrInvalidInput)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopAggregationMetrics{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultAggregationWorkers
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &LiveMatchService{
		provider:   provider,
		normalizer: NewNormalizer(logger, metrics),
		pool:       pool,
		logger:     logger,
		metrics:    metrics,
		now:        now,
	}, nil
}

func (s *LiveMatchService) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Release()
}

type leagueSlot struct {
	sportIdx  int
	leagueIdx int
	sportID   string
	raw       json.RawMessage
}

type normalizedLeague struct {
	id      string
	name    string
	matches []match.Match
}

// BuildSportsTree fetches, normalizes and classifies the feed. Sport and league
// order follow the upstream feed. Malformed records are skipped at the
// smallest enclosing unit; only a fetch failure fails the call.
func (s *LiveMatchService) BuildSportsTree(ctx context.Context) ([]match.Sport, error) {
	ctx, span := startSpan(ctx, "usecase.LiveMatchService.BuildSportsTree")

	started := time.Now()
	sports, err := s.buildSportsTree(ctx)
	if err != nil {
		s.metrics.ObserveBuild(outcomeError, time.Since(started))
		finishSpan(span, err)
		return nil, err
	}
	s.metrics.ObserveBuild(outcomeSuccess, time.Since(started))
	span.SetAttributes(attribute.Int("parlaywatch.sports", len(sports)))
	finishSpan(span, nil)
	return sports, nil
}

func (s *LiveMatchService) buildSportsTree(ctx context.Context) ([]match.Sport, error) {
	feed, err := s.provider.FetchRawFeed(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "fetch scoreboard feed failed", "error", err)
		return nil, newAggregationError(err)
	}
	now := s.now()

	rawSports := make([]*scoreboard.RawSport, len(feed.Sports))
	leagues := make([][]*normalizedLeague, len(feed.Sports))
	slots := make([]leagueSlot, 0, len(feed.Sports)*4)
	for i, raw := range feed.Sports {
		sport, err := scoreboard.DecodeSport(raw)
		if err != nil {
			s.skip(ctx, unitSport, err, "sport_index", i)
			continue
		}
		rawSports[i] = &sport
		leagues[i] = make([]*normalizedLeague, len(sport.Leagues))
		for j, rawLeague := range sport.Leagues {
			slots = append(slots, leagueSlot{
				sportIdx:  i,
				leagueIdx: j,
				sportID:   sport.ID.String(),
				raw:       rawLeague,
			})
		}
	}

	if err := s.normalizeLeagues(ctx, slots, leagues); err != nil {
		return nil, newAggregationError(err)
	}

	seen := make(map[string]struct{}, 256)
	out := make([]match.Sport, 0, len(rawSports))
	for i, sport := range rawSports {
		if sport == nil {
			continue
		}
		built := match.Sport{
			ID:      sport.ID.String(),
			Name:    string(sport.Name),
			Leagues: make([]match.League, 0, len(leagues[i])),
		}
		for _, league := range leagues[i] {
			if league == nil {
				continue
			}
			unique := make([]match.Match, 0, len(league.matches))
			for _, m := range league.matches {
				if _, dup := seen[m.ID]; dup {
					s.skip(ctx, unitEvent, fmt.Errorf("duplicate event id %q", m.ID), "league_id", league.id)
					continue
				}
				seen[m.ID] = struct{}{}
				unique = append(unique, m)
			}
			built.Leagues = append(built.Leagues, match.League{
				ID:      league.id,
				Name:    league.name,
				Matches: match.Classify(unique, now),
			})
		}
		out = append(out, built)
	}

	return out, nil
}

// normalizeLeagues runs one pool task per league and writes each result into
// its own slot, so no ordering work is needed afterwards.
func (s *LiveMatchService) normalizeLeagues(ctx context.Context, slots []leagueSlot, into [][]*normalizedLeague) error {
	var workers sync.WaitGroup
	for _, slot := range slots {
		slot := slot
		workers.Add(1)
		if err := s.pool.Submit(func() {
			defer workers.Done()
			into[slot.sportIdx][slot.leagueIdx] = s.normalizeLeague(ctx, slot)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return fmt.Errorf("submit league to worker pool: %w", err)
		}
	}
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (s *LiveMatchService) normalizeLeague(ctx context.Context, slot leagueSlot) *normalizedLeague {
	league, err := scoreboard.DecodeLeague(slot.raw)
	if err != nil {
		s.skip(ctx, unitLeague, err, "sport_id", slot.sportID, "league_index", slot.leagueIdx)
		return nil
	}

	out := &normalizedLeague{
		id:      league.ID.String(),
		name:    string(league.Name),
		matches: make([]match.Match, 0, len(league.Events)),
	}
	for k, rawEvent := range league.Events {
		event, err := scoreboard.DecodeEvent(rawEvent)
		if err != nil {
			s.skip(ctx, unitEvent, err, "league_id", out.id, "event_index", k)
			continue
		}
		m, err := s.normalizer.Normalize(ctx, event)
		if err != nil {
			s.skip(ctx, unitEvent, err, "league_id", out.id, "event_index", k)
			continue
		}
		out.matches = append(out.matches, m)
	}
	return out
}

func (s *LiveMatchService) skip(ctx context.Context, unit string, cause error, args ...any) {
	s.metrics.RecordMalformed(unit)
	if !IsMalformedRecord(cause) {
		cause = newMalformedRecord(unit, cause)
	}
	args = append(args, "unit", unit, "error", cause)
	s.logger.WarnContext(ctx, "skip malformed feed record", args...)
}
