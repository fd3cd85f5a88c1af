// Network collector — per-interval traffic gauges, cumulative byte and
// packet counters and a sampling latency histogram. Uses gopsutil for
// cross-platform network sampling.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/net"

	"github.com/vitalis-app/exporter/internal/metrics"
)

// netLatencyBuckets are the upper bounds for the network sampling latency
// histogram, in seconds.
var netLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// NetCounters holds cumulative traffic counters aggregated over all
// network interfaces.
type NetCounters struct {
	BytesRecv   uint64
	BytesSent   uint64
	PacketsRecv uint64
	PacketsSent uint64
	ErrorsIn    uint64
	ErrorsOut   uint64
}

// NetSampler reads current network interface counters.
type NetSampler interface {
	Refresh(ctx context.Context) error
	Counters() NetCounters
}

type gopsutilNetSampler struct {
	counters NetCounters
}

func (s *gopsutilNetSampler) Refresh(ctx context.Context) error {
	stats, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return fmt.Errorf("reading network counters: %w", err)
	}
	if len(stats) == 0 {
		s.counters = NetCounters{}
		return nil
	}
	s.counters = NetCounters{
		BytesRecv:   stats[0].BytesRecv,
		BytesSent:   stats[0].BytesSent,
		PacketsRecv: stats[0].PacketsRecv,
		PacketsSent: stats[0].PacketsSent,
		ErrorsIn:    stats[0].Errin,
		ErrorsOut:   stats[0].Errout,
	}
	return nil
}

func (s *gopsutilNetSampler) Counters() NetCounters { return s.counters }

// NetworkCollector collects network metrics.
type NetworkCollector struct {
	sampler NetSampler

	bytesRecv   *metrics.Gauge
	bytesSent   *metrics.Gauge
	packetsRecv *metrics.Gauge
	packetsSent *metrics.Gauge
	errorsIn    *metrics.Gauge
	errorsOut   *metrics.Gauge

	bytesRecvTotal   *metrics.Counter
	bytesSentTotal   *metrics.Counter
	packetsRecvTotal *metrics.Counter
	packetsSentTotal *metrics.Counter

	latency *metrics.Histogram

	last      NetCounters
	baselined bool
}

// NewNetworkCollector creates a network collector backed by the platform sampler.
func NewNetworkCollector() *NetworkCollector {
	return NewNetworkCollectorWith(&gopsutilNetSampler{})
}

// NewNetworkCollectorWith creates a network collector with a specific sampler.
func NewNetworkCollectorWith(sampler NetSampler) *NetworkCollector {
	return &NetworkCollector{sampler: sampler}
}

// Name returns the collector identifier.
func (c *NetworkCollector) Name() string { return "network" }

// Register creates the network metrics in the registry.
func (c *NetworkCollector) Register(reg *metrics.Registry) error {
	if c.bytesRecv != nil {
		return nil
	}
	var err error
	if c.bytesRecv, err = reg.NewGauge("network_bytes_received", "Network bytes received during the last collection interval"); err != nil {
		return err
	}
	if c.bytesSent, err = reg.NewGauge("network_bytes_transmitted", "Network bytes transmitted during the last collection interval"); err != nil {
		return err
	}
	if c.packetsRecv, err = reg.NewGauge("network_packets_received", "Network packets received during the last collection interval"); err != nil {
		return err
	}
	if c.packetsSent, err = reg.NewGauge("network_packets_transmitted", "Network packets transmitted during the last collection interval"); err != nil {
		return err
	}
	if c.errorsIn, err = reg.NewGauge("network_errors_received", "Current network errors received"); err != nil {
		return err
	}
	if c.errorsOut, err = reg.NewGauge("network_errors_transmitted", "Current network errors transmitted"); err != nil {
		return err
	}
	if c.bytesRecvTotal, err = reg.NewCounter("network_bytes_received_total", "Total network bytes received since start"); err != nil {
		return err
	}
	if c.bytesSentTotal, err = reg.NewCounter("network_bytes_transmitted_total", "Total network bytes transmitted since start"); err != nil {
		return err
	}
	if c.packetsRecvTotal, err = reg.NewCounter("network_packets_received_total", "Total network packets received since start"); err != nil {
		return err
	}
	if c.packetsSentTotal, err = reg.NewCounter("network_packets_transmitted_total", "Total network packets transmitted since start"); err != nil {
		return err
	}
	if c.latency, err = reg.NewHistogram("network_latency_seconds", "Distribution of network counter sampling latency in seconds", netLatencyBuckets); err != nil {
		return err
	}
	return nil
}

// Collect refreshes the sampler and updates the bound metrics. Traffic
// gauges and counters advance by the delta since the previous collection;
// the first collection only establishes a baseline. The time the counter
// read itself takes feeds the latency histogram.
func (c *NetworkCollector) Collect(ctx context.Context) error {
	if c.bytesRecv == nil {
		return fmt.Errorf("network collector: collect before register")
	}
	start := time.Now()
	if err := c.sampler.Refresh(ctx); err != nil {
		return fmt.Errorf("network sampler: %w", err)
	}
	c.latency.Observe(time.Since(start).Seconds())

	cur := c.sampler.Counters()
	if c.baselined {
		bytesRecv := counterDelta(cur.BytesRecv, c.last.BytesRecv)
		bytesSent := counterDelta(cur.BytesSent, c.last.BytesSent)
		packetsRecv := counterDelta(cur.PacketsRecv, c.last.PacketsRecv)
		packetsSent := counterDelta(cur.PacketsSent, c.last.PacketsSent)

		c.bytesRecv.Set(bytesRecv)
		c.bytesSent.Set(bytesSent)
		c.packetsRecv.Set(packetsRecv)
		c.packetsSent.Set(packetsSent)

		c.bytesRecvTotal.Add(bytesRecv)
		c.bytesSentTotal.Add(bytesSent)
		c.packetsRecvTotal.Add(packetsRecv)
		c.packetsSentTotal.Add(packetsSent)
	}
	c.errorsIn.Set(float64(cur.ErrorsIn))
	c.errorsOut.Set(float64(cur.ErrorsOut))

	c.last = cur
	c.baselined = true
	return nil
}
