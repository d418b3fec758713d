package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
)

const (
	PollOutcomeApplied   = "applied"
	PollOutcomeStale     = "stale"
	PollOutcomeFailed    = "failed"
	PollOutcomeDiscarded = "discarded"

	defaultPollInterval = time.Second
)

var ErrPollerStarted = errors.New("poller already started")

type PollMetrics interface {
	RecordPoll(view, outcome string)
}

type nopPollMetrics struct{}

func (nopPollMetrics) RecordPoll(string, string) {}

type PollerConfig[T any] struct {
	// View labels logs and metrics.
	View         string
	Interval     time.Duration
	FetchTimeout time.Duration
	Fetch        func(ctx context.Context) (T, error)
	// Apply runs under the poller lock, one call at a time.
	Apply   func(T)
	Logger  *logging.Logger
	Metrics PollMetrics
}

// Poller fetches on a fixed interval. Fetches may overlap; each one is numbered
// when issued and a completion is applied only if no later-issued fetch has been
// applied already. After Stop no fetch is issued and in-flight results are dropped.
type Poller[T any] struct {
	cfg PollerConfig[T]

	mu      sync.Mutex
	issued  uint64
	applied uint64
	started bool
	stopped bool

	cancel   context.CancelFunc
	trigger  chan struct{}
	done     chan struct{}
	inflight sync.WaitGroup
}

func NewPoller[T any](cfg PollerConfig[T]) *Poller[T] {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopPollMetrics{}
	}
	if cfg.Apply == nil {
		cfg.Apply = func(T) {}
	}

	return &Poller[T]{
		cfg:     cfg,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start issues the first fetch immediately and then one per interval until ctx
// ends or Stop is called.
func (p *Poller[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return ErrPollerStarted
	}
	p.started = true
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	go p.loop(runCtx)
	return nil
}

// Run blocks until ctx is done, then stops the poller.
func (p *Poller[T]) Run(ctx context.Context) error {
	if err := p.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	p.Stop()
	return nil
}

// Trigger requests an out-of-schedule fetch. Extra requests coalesce.
func (p *Poller[T]) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Stop is idempotent and returns once every in-flight fetch has finished.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	started := p.started
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if started {
		<-p.done
	}
	p.inflight.Wait()
}

func (p *Poller[T]) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.issue(ctx)
	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.stopped = true
			p.mu.Unlock()
			return
		case <-ticker.C:
			p.issue(ctx)
		case <-p.trigger:
			p.issue(ctx)
		}
	}
}

func (p *Poller[T]) issue(ctx context.Context) {
	seq, ok := p.nextSeq()
	if !ok {
		return
	}

	go func() {
		defer p.inflight.Done()

		fetchCtx := ctx
		if p.cfg.FetchTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, p.cfg.FetchTimeout)
			defer cancel()
		}

		value, err := p.cfg.Fetch(fetchCtx)
		p.complete(seq, value, err)
	}()
}

// nextSeq reserves a sequence number and an in-flight slot.
func (p *Poller[T]) nextSeq() (uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return 0, false
	}
	p.issued++
	p.inflight.Add(1)
	return p.issued, true
}

func (p *Poller[T]) complete(seq uint64, value T, err error) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	outcome := PollOutcomeApplied
	switch {
	case p.stopped:
		outcome = PollOutcomeDiscarded
	case err != nil:
		outcome = PollOutcomeFailed
		p.cfg.Logger.Warn("poll failed, keeping previous state",
			"view", p.cfg.View,
			"seq", seq,
			"error", err,
		)
	case seq < p.applied:
		outcome = PollOutcomeStale
		p.cfg.Logger.Debug("drop stale poll result",
			"view", p.cfg.View,
			"seq", seq,
			"applied_seq", p.applied,
		)
	default:
		p.applied = seq
		p.cfg.Apply(value)
	}

	p.cfg.Metrics.RecordPoll(p.cfg.View, outcome)
	return outcome
}
