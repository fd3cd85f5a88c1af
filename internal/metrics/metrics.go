// Package metrics implements the in-process metric registry and the three
// metric kinds the exporter exposes: gauges, counters and histograms.
// Values are written by the collection scheduler and read concurrently by
// the exposition endpoint, so every metric synchronizes its own storage.
package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// Kind identifies the metric type for exposition.
type Kind int

const (
	KindGauge Kind = iota
	KindCounter
	KindHistogram
)

// String returns the exposition-format type name.
func (k Kind) String() string {
	switch k {
	case KindGauge:
		return "gauge"
	case KindCounter:
		return "counter"
	case KindHistogram:
		return "histogram"
	default:
		return "untyped"
	}
}

// Desc describes a registered metric.
type Desc struct {
	Name string
	Help string
	Kind Kind
}

// BucketCount is one cumulative histogram bucket in a snapshot.
type BucketCount struct {
	UpperBound float64
	Count      uint64
}

// Point is one metric's descriptor plus its value(s) at snapshot time.
// Gauges and counters use Value; histograms use Buckets, Sum and Count.
type Point struct {
	Desc    Desc
	Value   float64
	Buckets []BucketCount
	Sum     float64
	Count   uint64
}

// metric is the internal contract each kind satisfies for snapshotting.
type metric interface {
	desc() Desc
	point() Point
}

// Gauge is a last-write-wins current value. All methods are safe for
// concurrent use; the value is stored as atomic float64 bits so readers
// never observe a torn update.
type Gauge struct {
	d    Desc
	bits atomic.Uint64
}

// Set overwrites the gauge value.
func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}

// Add adjusts the gauge by delta (may be negative).
func (g *Gauge) Add(delta float64) {
	for {
		old := g.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if g.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Value returns the current gauge value.
func (g *Gauge) Value() float64 {
	return math.Float64frombits(g.bits.Load())
}

func (g *Gauge) desc() Desc { return g.d }

func (g *Gauge) point() Point {
	return Point{Desc: g.d, Value: g.Value()}
}

// Counter is a monotonically non-decreasing accumulator. Negative deltas
// are dropped rather than applied; a source counter that wraps or resets
// must never be allowed to move the exposed value backwards.
type Counter struct {
	d    Desc
	bits atomic.Uint64
}

// Add increases the counter by delta. Deltas below zero are ignored.
func (c *Counter) Add(delta float64) {
	if delta < 0 || math.IsNaN(delta) {
		return
	}
	for {
		old := c.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if c.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Inc increases the counter by 1.
func (c *Counter) Inc() { c.Add(1) }

// Value returns the accumulated total.
func (c *Counter) Value() float64 {
	return math.Float64frombits(c.bits.Load())
}

func (c *Counter) desc() Desc { return c.d }

func (c *Counter) point() Point {
	return Point{Desc: c.d, Value: c.Value()}
}

// Histogram records a distribution in fixed cumulative buckets. Bucket
// bounds are set at creation and never change; observations update the
// counts, sum and count under one mutex so a snapshot of a single
// histogram is internally consistent.
type Histogram struct {
	d      Desc
	bounds []float64

	mu     sync.Mutex
	counts []uint64 // cumulative, counts[i] covers bounds[i]
	sum    float64
	count  uint64
}

// Observe records one value. Every bucket whose upper bound is >= v is
// incremented, along with the running sum and count.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, b := range h.bounds {
		if v <= b {
			h.counts[i]++
		}
	}
	h.sum += v
	h.count++
}

func (h *Histogram) desc() Desc { return h.d }

func (h *Histogram) point() Point {
	h.mu.Lock()
	defer h.mu.Unlock()
	buckets := make([]BucketCount, len(h.bounds))
	for i, b := range h.bounds {
		buckets[i] = BucketCount{UpperBound: b, Count: h.counts[i]}
	}
	return Point{
		Desc:    h.d,
		Buckets: buckets,
		Sum:     h.sum,
		Count:   h.count,
	}
}
