// Memory collector — usage percentage plus total/used/available bytes.
// Uses gopsutil for cross-platform memory sampling.
package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/vitalis-app/exporter/internal/metrics"
)

// MemoryStats holds one memory sample in bytes.
type MemoryStats struct {
	Total     uint64
	Used      uint64
	Available uint64
}

// MemorySampler reads current memory state.
type MemorySampler interface {
	Refresh(ctx context.Context) error
	Stats() MemoryStats
}

type gopsutilMemorySampler struct {
	stats MemoryStats
}

func (s *gopsutilMemorySampler) Refresh(ctx context.Context) error {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return fmt.Errorf("reading virtual memory: %w", err)
	}
	s.stats = MemoryStats{
		Total:     v.Total,
		Used:      v.Used,
		Available: v.Available,
	}
	return nil
}

func (s *gopsutilMemorySampler) Stats() MemoryStats { return s.stats }

// MemoryCollector collects memory metrics.
type MemoryCollector struct {
	sampler MemorySampler

	usagePct  *metrics.Gauge
	total     *metrics.Gauge
	used      *metrics.Gauge
	available *metrics.Gauge
}

// NewMemoryCollector creates a memory collector backed by the platform sampler.
func NewMemoryCollector() *MemoryCollector {
	return NewMemoryCollectorWith(&gopsutilMemorySampler{})
}

// NewMemoryCollectorWith creates a memory collector with a specific sampler.
func NewMemoryCollectorWith(sampler MemorySampler) *MemoryCollector {
	return &MemoryCollector{sampler: sampler}
}

// Name returns the collector identifier.
func (c *MemoryCollector) Name() string { return "memory" }

// Register creates the memory metrics in the registry.
func (c *MemoryCollector) Register(reg *metrics.Registry) error {
	if c.usagePct != nil {
		return nil
	}
	var err error
	if c.usagePct, err = reg.NewGauge("memory_usage_percent", "Memory usage in percentage"); err != nil {
		return err
	}
	if c.total, err = reg.NewGauge("memory_total_bytes", "Total memory in bytes"); err != nil {
		return err
	}
	if c.used, err = reg.NewGauge("memory_used_bytes", "Used memory in bytes"); err != nil {
		return err
	}
	if c.available, err = reg.NewGauge("memory_available_bytes", "Available memory in bytes"); err != nil {
		return err
	}
	return nil
}

// Collect refreshes the sampler and updates the bound metrics.
func (c *MemoryCollector) Collect(ctx context.Context) error {
	if c.usagePct == nil {
		return fmt.Errorf("memory collector: collect before register")
	}
	if err := c.sampler.Refresh(ctx); err != nil {
		return fmt.Errorf("memory sampler: %w", err)
	}

	stats := c.sampler.Stats()
	c.usagePct.Set(usagePercent(float64(stats.Used), float64(stats.Total)))
	c.total.Set(float64(stats.Total))
	c.used.Set(float64(stats.Used))
	c.available.Set(float64(stats.Available))
	return nil
}
