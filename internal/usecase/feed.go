package usecase

import (
	"context"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/domain/scoreboard"
)

// FeedProvider returns one snapshot of the upstream scoreboard. Implementations
// report every failure as a fetch error (see NewFetchError).
type FeedProvider interface {
	FetchRawFeed(ctx context.Context) (scoreboard.RawFeed, error)
}

type AggregationMetrics interface {
	RecordMalformed(unit string)
	ObserveBuild(outcome string, duration time.Duration)
}

type nopAggregationMetrics struct{}

func (nopAggregationMetrics) RecordMalformed(string)              {}
func (nopAggregationMetrics) ObserveBuild(string, time.Duration) {}

const (
	unitSport  = "sport"
	unitLeague = "league"
	unitEvent  = "event"
	unitDate   = "date"

	outcomeSuccess = "success"
	outcomeError   = "error"
)
