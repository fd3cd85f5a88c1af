// Disk collector — root filesystem space and inode gauges, cumulative
// I/O counters and an operation latency histogram. Uses gopsutil for
// cross-platform disk sampling.
package collector

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/vitalis-app/exporter/internal/metrics"
)

// diskLatencyBuckets are the upper bounds for the disk operation duration
// histogram, in seconds.
var diskLatencyBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// DiskUsage holds one space/inode sample for the root filesystem.
type DiskUsage struct {
	Total       uint64
	Used        uint64
	Available   uint64
	InodesTotal uint64
	InodesUsed  uint64
}

// DiskIO holds cumulative I/O counters aggregated over all devices.
// Read/write times are in milliseconds, as the platform reports them.
type DiskIO struct {
	ReadCount   uint64
	WriteCount  uint64
	ReadBytes   uint64
	WriteBytes  uint64
	ReadTimeMs  uint64
	WriteTimeMs uint64
}

// DiskSampler reads current disk state.
type DiskSampler interface {
	Refresh(ctx context.Context) error
	Usage() DiskUsage
	IO() DiskIO
}

type gopsutilDiskSampler struct {
	usage DiskUsage
	io    DiskIO
}

// rootPath is the filesystem whose space metrics the exporter reports.
func rootPath() string {
	if runtime.GOOS == "windows" {
		return "C:"
	}
	return "/"
}

func (s *gopsutilDiskSampler) Refresh(ctx context.Context) error {
	u, err := disk.UsageWithContext(ctx, rootPath())
	if err != nil {
		return fmt.Errorf("reading disk usage: %w", err)
	}
	s.usage = DiskUsage{
		Total:       u.Total,
		Used:        u.Used,
		Available:   u.Free,
		InodesTotal: u.InodesTotal,
		InodesUsed:  u.InodesUsed,
	}

	// I/O counters are best-effort: some platforms (containers, exotic
	// filesystems) report none, and the counter metrics then simply stay
	// at their last values.
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return nil
	}
	var io DiskIO
	for _, c := range counters {
		io.ReadCount += c.ReadCount
		io.WriteCount += c.WriteCount
		io.ReadBytes += c.ReadBytes
		io.WriteBytes += c.WriteBytes
		io.ReadTimeMs += c.ReadTime
		io.WriteTimeMs += c.WriteTime
	}
	s.io = io
	return nil
}

func (s *gopsutilDiskSampler) Usage() DiskUsage { return s.usage }
func (s *gopsutilDiskSampler) IO() DiskIO       { return s.io }

// DiskCollector collects disk metrics.
type DiskCollector struct {
	sampler DiskSampler

	usagePct    *metrics.Gauge
	total       *metrics.Gauge
	used        *metrics.Gauge
	available   *metrics.Gauge
	inodesTotal *metrics.Gauge
	inodesUsed  *metrics.Gauge

	readsTotal      *metrics.Counter
	writesTotal     *metrics.Counter
	readBytesTotal  *metrics.Counter
	writeBytesTotal *metrics.Counter

	opDuration *metrics.Histogram

	lastIO    DiskIO
	baselined bool
}

// NewDiskCollector creates a disk collector backed by the platform sampler.
func NewDiskCollector() *DiskCollector {
	return NewDiskCollectorWith(&gopsutilDiskSampler{})
}

// NewDiskCollectorWith creates a disk collector with a specific sampler.
func NewDiskCollectorWith(sampler DiskSampler) *DiskCollector {
	return &DiskCollector{sampler: sampler}
}

// Name returns the collector identifier.
func (c *DiskCollector) Name() string { return "disk" }

// Register creates the disk metrics in the registry.
func (c *DiskCollector) Register(reg *metrics.Registry) error {
	if c.usagePct != nil {
		return nil
	}
	var err error
	if c.usagePct, err = reg.NewGauge("disk_usage_percent", "Disk usage percentage for root filesystem"); err != nil {
		return err
	}
	if c.total, err = reg.NewGauge("disk_total_bytes", "Total disk space in bytes for root filesystem"); err != nil {
		return err
	}
	if c.used, err = reg.NewGauge("disk_used_bytes", "Used disk space in bytes for root filesystem"); err != nil {
		return err
	}
	if c.available, err = reg.NewGauge("disk_available_bytes", "Available disk space in bytes for root filesystem"); err != nil {
		return err
	}
	if c.inodesTotal, err = reg.NewGauge("disk_inodes_total", "Total number of inodes on root filesystem"); err != nil {
		return err
	}
	if c.inodesUsed, err = reg.NewGauge("disk_inodes_used", "Number of used inodes on root filesystem"); err != nil {
		return err
	}
	if c.readsTotal, err = reg.NewCounter("disk_reads_total", "Total number of disk read operations since start"); err != nil {
		return err
	}
	if c.writesTotal, err = reg.NewCounter("disk_writes_total", "Total number of disk write operations since start"); err != nil {
		return err
	}
	if c.readBytesTotal, err = reg.NewCounter("disk_read_bytes_total", "Total bytes read from disk since start"); err != nil {
		return err
	}
	if c.writeBytesTotal, err = reg.NewCounter("disk_write_bytes_total", "Total bytes written to disk since start"); err != nil {
		return err
	}
	if c.opDuration, err = reg.NewHistogram("disk_operation_duration_seconds", "Disk operation duration distribution in seconds", diskLatencyBuckets); err != nil {
		return err
	}
	return nil
}

// Collect refreshes the sampler and updates the bound metrics. I/O
// counters advance by the delta since the previous collection; the mean
// per-operation latency over the interval feeds the duration histogram.
func (c *DiskCollector) Collect(ctx context.Context) error {
	if c.usagePct == nil {
		return fmt.Errorf("disk collector: collect before register")
	}
	if err := c.sampler.Refresh(ctx); err != nil {
		return fmt.Errorf("disk sampler: %w", err)
	}

	usage := c.sampler.Usage()
	c.usagePct.Set(usagePercent(float64(usage.Used), float64(usage.Total)))
	c.total.Set(float64(usage.Total))
	c.used.Set(float64(usage.Used))
	c.available.Set(float64(usage.Available))
	c.inodesTotal.Set(float64(usage.InodesTotal))
	c.inodesUsed.Set(float64(usage.InodesUsed))

	io := c.sampler.IO()
	if c.baselined {
		reads := counterDelta(io.ReadCount, c.lastIO.ReadCount)
		writes := counterDelta(io.WriteCount, c.lastIO.WriteCount)
		c.readsTotal.Add(reads)
		c.writesTotal.Add(writes)
		c.readBytesTotal.Add(counterDelta(io.ReadBytes, c.lastIO.ReadBytes))
		c.writeBytesTotal.Add(counterDelta(io.WriteBytes, c.lastIO.WriteBytes))

		busyMs := counterDelta(io.ReadTimeMs, c.lastIO.ReadTimeMs) +
			counterDelta(io.WriteTimeMs, c.lastIO.WriteTimeMs)
		if ops := reads + writes; ops > 0 {
			c.opDuration.Observe(busyMs / ops / 1000)
		}
	}
	c.lastIO = io
	c.baselined = true
	return nil
}

// counterDelta returns cur-prev as float64, clamped at 0 when the source
// counter went backwards (reset or wrap).
func counterDelta(cur, prev uint64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur - prev)
}
