package metrics

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrDuplicateMetric is returned when a metric name is registered twice.
	ErrDuplicateMetric = errors.New("duplicate metric name")

	// ErrInvalidBuckets is returned when histogram bounds are empty or not
	// strictly ascending.
	ErrInvalidBuckets = errors.New("invalid histogram buckets")
)

// Registry maps metric names to metric objects. Names are unique for the
// process lifetime; metrics are registered once at startup and never
// removed. Snapshot may be called concurrently with any number of metric
// updates.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]metric
	ordered []metric
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]metric)}
}

// NewGauge registers a gauge under name. It fails with ErrDuplicateMetric
// if name is already taken.
func (r *Registry) NewGauge(name, help string) (*Gauge, error) {
	g := &Gauge{d: Desc{Name: name, Help: help, Kind: KindGauge}}
	if err := r.add(name, g); err != nil {
		return nil, err
	}
	return g, nil
}

// NewCounter registers a counter under name.
func (r *Registry) NewCounter(name, help string) (*Counter, error) {
	c := &Counter{d: Desc{Name: name, Help: help, Kind: KindCounter}}
	if err := r.add(name, c); err != nil {
		return nil, err
	}
	return c, nil
}

// NewHistogram registers a histogram with the given bucket upper bounds.
// Bounds must be non-empty and strictly ascending.
func (r *Registry) NewHistogram(name, help string, buckets []float64) (*Histogram, error) {
	if len(buckets) == 0 {
		return nil, fmt.Errorf("metric %q: %w: no bounds", name, ErrInvalidBuckets)
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return nil, fmt.Errorf("metric %q: %w: bounds not strictly ascending at index %d",
				name, ErrInvalidBuckets, i)
		}
	}
	bounds := make([]float64, len(buckets))
	copy(bounds, buckets)
	h := &Histogram{
		d:      Desc{Name: name, Help: help, Kind: KindHistogram},
		bounds: bounds,
		counts: make([]uint64, len(bounds)),
	}
	if err := r.add(name, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *Registry) add(name string, m metric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("metric %q: %w", name, ErrDuplicateMetric)
	}
	r.byName[name] = m
	r.ordered = append(r.ordered, m)
	return nil
}

// Snapshot returns every registered metric's descriptor and current
// value(s) in registration order. Each metric's value is read atomically,
// but the snapshot as a whole is not a cross-metric consistent cut; a
// scrape racing a collection tick may see some metrics from before the
// tick and some from after.
func (r *Registry) Snapshot() []Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	points := make([]Point, 0, len(r.ordered))
	for _, m := range r.ordered {
		points = append(points, m.point())
	}
	return points
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}
