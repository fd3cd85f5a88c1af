// Package scheduler implements the periodic refresh loop. It runs every
// collector in the set at a fixed interval, forever, and is the sole
// writer of metric values; the exposition endpoint only ever reads.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vitalis-app/exporter/internal/collector"
)

// Scheduler drives periodic collection over one shared collector set.
type Scheduler struct {
	set      *collector.Set
	interval time.Duration
	logger   *zap.Logger
}

// New creates a Scheduler that collects every interval.
func New(set *collector.Set, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		set:      set,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the sampling loop. It blocks until the context is
// cancelled; there is no other way out. Individual collector failures are
// logged inside the set and never stop the loop.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Do an initial collection immediately so the first scrape after
	// startup already sees values.
	s.collect(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.collect(ctx)
		}
	}
}

func (s *Scheduler) collect(ctx context.Context) {
	start := time.Now()
	s.set.CollectAll(ctx)
	s.logger.Debug("Collected metrics", zap.Duration("elapsed", time.Since(start)))
}
