package collector

import "context"

// Fake samplers returning canned values, one per domain.

type fakeCPUSampler struct {
	usage float64
	cores int
	freq  float64
	times CPUTimes
	err   error
}

func (f *fakeCPUSampler) Refresh(ctx context.Context) error { return f.err }
func (f *fakeCPUSampler) UsagePercent() float64             { return f.usage }
func (f *fakeCPUSampler) Cores() int                        { return f.cores }
func (f *fakeCPUSampler) FrequencyMHz() float64             { return f.freq }
func (f *fakeCPUSampler) Times() CPUTimes                   { return f.times }

type fakeMemorySampler struct {
	stats MemoryStats
	err   error
}

func (f *fakeMemorySampler) Refresh(ctx context.Context) error { return f.err }
func (f *fakeMemorySampler) Stats() MemoryStats                { return f.stats }

type fakeDiskSampler struct {
	usage DiskUsage
	io    DiskIO
	err   error
}

func (f *fakeDiskSampler) Refresh(ctx context.Context) error { return f.err }
func (f *fakeDiskSampler) Usage() DiskUsage                  { return f.usage }
func (f *fakeDiskSampler) IO() DiskIO                        { return f.io }

type fakeNetSampler struct {
	counters NetCounters
	err      error
}

func (f *fakeNetSampler) Refresh(ctx context.Context) error { return f.err }
func (f *fakeNetSampler) Counters() NetCounters             { return f.counters }

type fakeSystemSampler struct {
	loadAvg   LoadAvg
	uptime    float64
	processes int
	err       error
}

func (f *fakeSystemSampler) Refresh(ctx context.Context) error { return f.err }
func (f *fakeSystemSampler) LoadAvg() LoadAvg                  { return f.loadAvg }
func (f *fakeSystemSampler) UptimeSeconds() float64            { return f.uptime }
func (f *fakeSystemSampler) ProcessCount() int                 { return f.processes }
