// System collector — load averages, uptime and process count.
// Uses gopsutil for cross-platform host sampling.
package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/vitalis-app/exporter/internal/metrics"
)

// LoadAvg holds the 1/5/15 minute load averages.
type LoadAvg struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// SystemSampler reads host-wide state.
type SystemSampler interface {
	Refresh(ctx context.Context) error
	LoadAvg() LoadAvg
	UptimeSeconds() float64
	ProcessCount() int
}

type gopsutilSystemSampler struct {
	loadAvg   LoadAvg
	uptime    float64
	processes int
}

func (s *gopsutilSystemSampler) Refresh(ctx context.Context) error {
	// Load averages are not meaningful on every platform; leave the last
	// (or zero) values in place when the call fails.
	if avg, err := load.AvgWithContext(ctx); err == nil {
		s.loadAvg = LoadAvg{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}
	}

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return fmt.Errorf("reading uptime: %w", err)
	}
	s.uptime = float64(uptime)

	if pids, err := process.PidsWithContext(ctx); err == nil {
		s.processes = len(pids)
	}
	return nil
}

func (s *gopsutilSystemSampler) LoadAvg() LoadAvg       { return s.loadAvg }
func (s *gopsutilSystemSampler) UptimeSeconds() float64 { return s.uptime }
func (s *gopsutilSystemSampler) ProcessCount() int      { return s.processes }

// SystemCollector collects host-wide metrics.
type SystemCollector struct {
	sampler SystemSampler

	load1     *metrics.Gauge
	load5     *metrics.Gauge
	load15    *metrics.Gauge
	uptime    *metrics.Gauge
	processes *metrics.Gauge
}

// NewSystemCollector creates a system collector backed by the platform sampler.
func NewSystemCollector() *SystemCollector {
	return NewSystemCollectorWith(&gopsutilSystemSampler{})
}

// NewSystemCollectorWith creates a system collector with a specific sampler.
func NewSystemCollectorWith(sampler SystemSampler) *SystemCollector {
	return &SystemCollector{sampler: sampler}
}

// Name returns the collector identifier.
func (c *SystemCollector) Name() string { return "system" }

// Register creates the system metrics in the registry.
func (c *SystemCollector) Register(reg *metrics.Registry) error {
	if c.load1 != nil {
		return nil
	}
	var err error
	if c.load1, err = reg.NewGauge("load_average_1min", "System load average over 1 minute"); err != nil {
		return err
	}
	if c.load5, err = reg.NewGauge("load_average_5min", "System load average over 5 minutes"); err != nil {
		return err
	}
	if c.load15, err = reg.NewGauge("load_average_15min", "System load average over 15 minutes"); err != nil {
		return err
	}
	if c.uptime, err = reg.NewGauge("uptime_seconds", "System uptime in seconds"); err != nil {
		return err
	}
	if c.processes, err = reg.NewGauge("process_count", "Number of running processes"); err != nil {
		return err
	}
	return nil
}

// Collect refreshes the sampler and updates the bound metrics.
func (c *SystemCollector) Collect(ctx context.Context) error {
	if c.load1 == nil {
		return fmt.Errorf("system collector: collect before register")
	}
	if err := c.sampler.Refresh(ctx); err != nil {
		return fmt.Errorf("system sampler: %w", err)
	}

	avg := c.sampler.LoadAvg()
	c.load1.Set(avg.Load1)
	c.load5.Set(avg.Load5)
	c.load15.Set(avg.Load15)
	c.uptime.Set(c.sampler.UptimeSeconds())
	c.processes.Set(float64(c.sampler.ProcessCount()))
	return nil
}
