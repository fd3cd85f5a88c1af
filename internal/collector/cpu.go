// CPU collector — usage, core count, frequency, cumulative CPU time and
// a load distribution histogram. Uses gopsutil for cross-platform CPU
// sampling.
package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/vitalis-app/exporter/internal/metrics"
)

// cpuLoadBuckets are the upper bounds for the CPU load distribution
// histogram, in percent.
var cpuLoadBuckets = []float64{0, 10, 25, 50, 75, 90, 95, 99, 100}

// CPUTimes holds cumulative CPU time in seconds, split by mode.
type CPUTimes struct {
	User   float64
	System float64
	Idle   float64
}

// CPUSampler reads current CPU state. Refresh re-reads the platform
// counters; the accessors return the values held by the last refresh, or
// zero values when the platform has no data.
type CPUSampler interface {
	Refresh(ctx context.Context) error
	UsagePercent() float64
	Cores() int
	FrequencyMHz() float64
	Times() CPUTimes
}

// gopsutilCPUSampler is the production CPUSampler backed by gopsutil.
type gopsutilCPUSampler struct {
	usage float64
	cores int
	freq  float64
	times CPUTimes
}

func (s *gopsutilCPUSampler) Refresh(ctx context.Context) error {
	// Zero interval compares against the previous Percent call, so the
	// first refresh reads 0 and later ones cover one scheduler tick.
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return fmt.Errorf("reading cpu usage: %w", err)
	}
	if len(percents) > 0 {
		s.usage = percents[0]
	}

	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		s.cores = cores
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		s.freq = infos[0].Mhz
	}

	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return fmt.Errorf("reading cpu times: %w", err)
	}
	if len(times) > 0 {
		s.times = CPUTimes{
			User:   times[0].User,
			System: times[0].System,
			Idle:   times[0].Idle,
		}
	}
	return nil
}

func (s *gopsutilCPUSampler) UsagePercent() float64 { return s.usage }
func (s *gopsutilCPUSampler) Cores() int            { return s.cores }
func (s *gopsutilCPUSampler) FrequencyMHz() float64 { return s.freq }
func (s *gopsutilCPUSampler) Times() CPUTimes       { return s.times }

// CPUCollector collects CPU metrics.
type CPUCollector struct {
	sampler CPUSampler

	usage *metrics.Gauge
	cores *metrics.Gauge
	freq  *metrics.Gauge

	userTotal   *metrics.Counter
	systemTotal *metrics.Counter
	idleTotal   *metrics.Counter

	loadDist *metrics.Histogram

	lastTimes CPUTimes
	baselined bool
}

// NewCPUCollector creates a CPU collector backed by the platform sampler.
func NewCPUCollector() *CPUCollector {
	return NewCPUCollectorWith(&gopsutilCPUSampler{})
}

// NewCPUCollectorWith creates a CPU collector with a specific sampler.
func NewCPUCollectorWith(sampler CPUSampler) *CPUCollector {
	return &CPUCollector{sampler: sampler}
}

// Name returns the collector identifier.
func (c *CPUCollector) Name() string { return "cpu" }

// Register creates the CPU metrics in the registry.
func (c *CPUCollector) Register(reg *metrics.Registry) error {
	if c.usage != nil {
		return nil
	}
	var err error
	if c.usage, err = reg.NewGauge("cpu_usage_percent", "Current CPU usage percentage"); err != nil {
		return err
	}
	if c.cores, err = reg.NewGauge("cpu_cores_total", "Total number of CPU cores"); err != nil {
		return err
	}
	if c.freq, err = reg.NewGauge("cpu_frequency_mhz", "Current CPU frequency in MHz"); err != nil {
		return err
	}
	if c.userTotal, err = reg.NewCounter("cpu_time_user_seconds_total", "Total CPU time spent in user mode"); err != nil {
		return err
	}
	if c.systemTotal, err = reg.NewCounter("cpu_time_system_seconds_total", "Total CPU time spent in system mode"); err != nil {
		return err
	}
	if c.idleTotal, err = reg.NewCounter("cpu_time_idle_seconds_total", "Total CPU time spent idle"); err != nil {
		return err
	}
	if c.loadDist, err = reg.NewHistogram("cpu_load_distribution", "Distribution of CPU load measurements", cpuLoadBuckets); err != nil {
		return err
	}
	return nil
}

// Collect refreshes the sampler and updates the bound metrics. The CPU
// time counters advance by the delta since the previous collection; the
// first collection only establishes a baseline.
func (c *CPUCollector) Collect(ctx context.Context) error {
	if c.usage == nil {
		return fmt.Errorf("cpu collector: collect before register")
	}
	if err := c.sampler.Refresh(ctx); err != nil {
		return fmt.Errorf("cpu sampler: %w", err)
	}

	c.usage.Set(c.sampler.UsagePercent())
	c.cores.Set(float64(c.sampler.Cores()))
	c.freq.Set(c.sampler.FrequencyMHz())

	times := c.sampler.Times()
	if c.baselined {
		c.userTotal.Add(times.User - c.lastTimes.User)
		c.systemTotal.Add(times.System - c.lastTimes.System)
		c.idleTotal.Add(times.Idle - c.lastTimes.Idle)
	}
	c.lastTimes = times
	c.baselined = true

	c.loadDist.Observe(c.sampler.UsagePercent())
	return nil
}
