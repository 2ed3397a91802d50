// Package poller refreshes dashboard data on a fixed schedule and caches
// the latest snapshot so page renders never block on the backend.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/franfreezy/abdata/pkg/observability"
)

// Fetch produces one fresh snapshot
type Fetch[T any] func(ctx context.Context) (T, error)

// Poller runs a Fetch on an interval and keeps the most recent successful
// result. Once stopped it discards any fetch still in flight: a response
// that arrives after Stop is never applied.
type Poller[T any] struct {
	fetch    Fetch[T]
	interval time.Duration
	logger   *observability.Logger
	metrics  *observability.Metrics

	cron *cron.Cron

	mu      sync.Mutex
	latest  *T
	fetched time.Time
	gen     uint64
	stopped bool
}

// Option configures a Poller
type Option[T any] func(*Poller[T])

// WithLogger overrides the default logger
func WithLogger[T any](l *observability.Logger) Option[T] {
	return func(p *Poller[T]) { p.logger = l }
}

// WithMetrics records refresh outcomes on the given metrics
func WithMetrics[T any](m *observability.Metrics) Option[T] {
	return func(p *Poller[T]) { p.metrics = m }
}

// New creates a poller that runs fetch every interval once started
func New[T any](fetch Fetch[T], interval time.Duration, opts ...Option[T]) *Poller[T] {
	p := &Poller[T]{
		fetch:    fetch,
		interval: interval,
		logger:   observability.NewLogger(observability.InfoLevel, nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start schedules the refresh and fires one immediately so the first render
// has data without waiting a full interval.
func (p *Poller[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cron != nil {
		p.mu.Unlock()
		return fmt.Errorf("poller already started")
	}
	c := cron.New()
	p.stopped = false
	p.cron = c
	p.mu.Unlock()

	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.interval), func() {
		p.Refresh(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	c.Start()

	go p.Refresh(ctx)
	return nil
}

// Refresh runs one fetch and applies the result unless the poller was
// stopped while the fetch was in flight.
func (p *Poller[T]) Refresh(ctx context.Context) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	gen := p.gen
	p.mu.Unlock()

	value, err := p.fetch(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("refresh failed, keeping previous snapshot")
		p.countRefresh("failure")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || gen != p.gen {
		p.countRefresh("stale_discarded")
		if p.metrics != nil {
			p.metrics.StatsStaleDiscarded.Inc()
		}
		return
	}
	p.latest = &value
	p.fetched = time.Now()
	p.countRefresh("success")
}

// Latest returns the most recent snapshot and when it was fetched. ok is
// false before the first successful refresh.
func (p *Poller[T]) Latest() (value T, fetchedAt time.Time, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		var zero T
		return zero, time.Time{}, false
	}
	return *p.latest, p.fetched, true
}

// Stop halts the schedule. The generation bump invalidates any fetch still
// in flight so its result cannot land after shutdown.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.gen++
	c := p.cron
	p.cron = nil
	p.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (p *Poller[T]) countRefresh(result string) {
	if p.metrics != nil {
		p.metrics.StatsRefreshTotal.WithLabelValues(result).Inc()
	}
}
