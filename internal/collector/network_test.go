package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalis-app/exporter/internal/metrics"
)

func TestNetworkCollector_Deltas(t *testing.T) {
	sampler := &fakeNetSampler{counters: NetCounters{
		BytesRecv:   10000,
		BytesSent:   5000,
		PacketsRecv: 100,
		PacketsSent: 50,
		ErrorsIn:    2,
		ErrorsOut:   1,
	}}
	c := NewNetworkCollectorWith(sampler)
	reg := metrics.NewRegistry()
	require.NoError(t, c.Register(reg))

	// Baseline tick: counters and traffic gauges stay zero, error gauges
	// track the absolute reading
	require.NoError(t, c.Collect(context.Background()))
	assert.Equal(t, 0.0, pointByName(t, reg, "network_bytes_received").Value)
	assert.Equal(t, 0.0, pointByName(t, reg, "network_bytes_received_total").Value)
	assert.Equal(t, 2.0, pointByName(t, reg, "network_errors_received").Value)

	sampler.counters = NetCounters{
		BytesRecv:   11500,
		BytesSent:   5600,
		PacketsRecv: 130,
		PacketsSent: 64,
		ErrorsIn:    2,
		ErrorsOut:   3,
	}
	require.NoError(t, c.Collect(context.Background()))
	assert.Equal(t, 1500.0, pointByName(t, reg, "network_bytes_received").Value)
	assert.Equal(t, 600.0, pointByName(t, reg, "network_bytes_transmitted").Value)
	assert.Equal(t, 30.0, pointByName(t, reg, "network_packets_received").Value)
	assert.Equal(t, 14.0, pointByName(t, reg, "network_packets_transmitted").Value)
	assert.Equal(t, 1500.0, pointByName(t, reg, "network_bytes_received_total").Value)
	assert.Equal(t, 600.0, pointByName(t, reg, "network_bytes_transmitted_total").Value)
	assert.Equal(t, 3.0, pointByName(t, reg, "network_errors_transmitted").Value)

	// Counters accumulate over further ticks
	sampler.counters.BytesRecv = 12000
	require.NoError(t, c.Collect(context.Background()))
	assert.Equal(t, 2000.0, pointByName(t, reg, "network_bytes_received_total").Value)
}

func TestNetworkCollector_LatencyHistogram(t *testing.T) {
	c := NewNetworkCollectorWith(&fakeNetSampler{})
	reg := metrics.NewRegistry()
	require.NoError(t, c.Register(reg))
	require.NoError(t, c.Collect(context.Background()))
	require.NoError(t, c.Collect(context.Background()))

	p := pointByName(t, reg, "network_latency_seconds")
	assert.Equal(t, uint64(2), p.Count, "every successful refresh observes one latency")
}

func TestNetworkCollector_CounterReset(t *testing.T) {
	sampler := &fakeNetSampler{counters: NetCounters{BytesRecv: 9000}}
	c := NewNetworkCollectorWith(sampler)
	reg := metrics.NewRegistry()
	require.NoError(t, c.Register(reg))
	require.NoError(t, c.Collect(context.Background()))

	// Interface counters reset (driver reload); totals must not decrease
	sampler.counters = NetCounters{BytesRecv: 100}
	require.NoError(t, c.Collect(context.Background()))
	assert.Equal(t, 0.0, pointByName(t, reg, "network_bytes_received_total").Value)

	sampler.counters = NetCounters{BytesRecv: 400}
	require.NoError(t, c.Collect(context.Background()))
	assert.Equal(t, 300.0, pointByName(t, reg, "network_bytes_received_total").Value)
}
