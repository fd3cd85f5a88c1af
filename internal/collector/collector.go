// Package collector defines the Collector interface and provides
// implementations for the exporter's metric domains. Each collector binds
// a platform sampler to a fixed group of registry metrics: Register
// creates the metrics once at startup, Collect refreshes the sampler and
// writes the current values.
package collector

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vitalis-app/exporter/internal/metrics"
)

// Collector is the interface that all metric collectors must implement.
type Collector interface {
	// Name returns the unique identifier for this collector.
	Name() string

	// Register creates the collector's metrics in the registry. It is
	// idempotent: the first call creates, later calls are no-ops.
	// A name collision with another collector's metrics is an error.
	Register(reg *metrics.Registry) error

	// Collect reads the sampler and writes current values into the bound
	// metrics. On a sampler failure it returns the error and leaves the
	// metrics at their last observed values.
	Collect(ctx context.Context) error
}

// Set is the fixed, ordered group of collectors built once at startup and
// shared between the scheduler and the exposition path. CollectAll holds
// one mutex for the whole pass so two ticks never interleave.
type Set struct {
	mu         sync.Mutex
	collectors []Collector
	logger     *zap.Logger
}

// NewSet creates a collector set with the given members, in order.
func NewSet(logger *zap.Logger, collectors ...Collector) *Set {
	return &Set{
		collectors: collectors,
		logger:     logger,
	}
}

// Register creates every member's metrics in the registry. The first
// failure aborts: a partially registered metric set must not serve traffic.
func (s *Set) Register(reg *metrics.Registry) error {
	for _, c := range s.collectors {
		if err := c.Register(reg); err != nil {
			return err
		}
		s.logger.Info("Registered collector", zap.String("name", c.Name()))
	}
	return nil
}

// CollectAll runs every member's Collect in set order, serially, under the
// set's mutex. Failed collectors are logged but do not stop the pass.
func (s *Set) CollectAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.collectors {
		if err := c.Collect(ctx); err != nil {
			s.logger.Error("Collection failed",
				zap.String("collector", c.Name()),
				zap.Error(err))
		}
	}
}

// Collectors returns a copy of the set's members.
func (s *Set) Collectors() []Collector {
	result := make([]Collector, len(s.collectors))
	copy(result, s.collectors)
	return result
}

// usagePercent computes used/total as a percentage, defined as 0 when
// total is 0.
func usagePercent(used, total float64) float64 {
	if total == 0 {
		return 0
	}
	return used / total * 100
}
