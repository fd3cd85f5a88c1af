package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGauge(t *testing.T) {
	reg := NewRegistry()
	g, err := reg.NewGauge("test_gauge", "help")
	require.NoError(t, err)

	g.Set(42.5)
	assert.Equal(t, 42.5, g.Value())

	// Last write wins, including decreases
	g.Set(1.0)
	assert.Equal(t, 1.0, g.Value())

	g.Add(2.5)
	assert.Equal(t, 3.5, g.Value())
	g.Add(-1.5)
	assert.Equal(t, 2.0, g.Value())
}

func TestCounter_Monotonic(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.NewCounter("test_counter", "help")
	require.NoError(t, err)

	var prev float64
	for _, delta := range []float64{0, 1, 0.5, 100, 0} {
		c.Add(delta)
		require.GreaterOrEqual(t, c.Value(), prev)
		prev = c.Value()
	}
	assert.Equal(t, 101.5, c.Value())

	c.Inc()
	assert.Equal(t, 102.5, c.Value())
}

func TestCounter_DropsNegativeDelta(t *testing.T) {
	reg := NewRegistry()
	c, err := reg.NewCounter("test_counter", "help")
	require.NoError(t, err)

	c.Add(10)
	c.Add(-5)
	assert.Equal(t, 10.0, c.Value(), "negative delta must not decrease the counter")
}

func TestHistogram_Observe(t *testing.T) {
	reg := NewRegistry()
	h, err := reg.NewHistogram("test_hist", "help", []float64{1, 5, 10})
	require.NoError(t, err)

	// 3 lands in buckets 5 and 10, not 1
	h.Observe(3)
	p := h.point()
	require.Len(t, p.Buckets, 3)
	assert.Equal(t, uint64(0), p.Buckets[0].Count)
	assert.Equal(t, uint64(1), p.Buckets[1].Count)
	assert.Equal(t, uint64(1), p.Buckets[2].Count)
	assert.Equal(t, uint64(1), p.Count)
	assert.Equal(t, 3.0, p.Sum)

	// Boundary value counts into its own bucket
	h.Observe(5)
	// Above all bounds: only sum and count move
	h.Observe(100)

	p = h.point()
	assert.Equal(t, uint64(0), p.Buckets[0].Count)
	assert.Equal(t, uint64(2), p.Buckets[1].Count)
	assert.Equal(t, uint64(2), p.Buckets[2].Count)
	assert.Equal(t, uint64(3), p.Count)
	assert.Equal(t, 108.0, p.Sum)

	// Bucket counts are non-decreasing as the bound increases
	for i := 1; i < len(p.Buckets); i++ {
		assert.GreaterOrEqual(t, p.Buckets[i].Count, p.Buckets[i-1].Count)
	}
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	reg := NewRegistry()
	g, err := reg.NewGauge("load", "help")
	require.NoError(t, err)
	c, err := reg.NewCounter("ops", "help")
	require.NoError(t, err)
	h, err := reg.NewHistogram("lat", "help", []float64{0.1, 1, 10})
	require.NoError(t, err)

	stop := make(chan struct{})
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			g.Set(float64(i))
			c.Add(1)
			h.Observe(float64(i % 12))
		}
	}()

	var readers sync.WaitGroup
	for i := 0; i < 8; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for j := 0; j < 200; j++ {
				for _, p := range reg.Snapshot() {
					// A torn float64 read would show up as garbage here
					if p.Desc.Kind != KindHistogram {
						assert.False(t, p.Value < 0, "metric %s went negative", p.Desc.Name)
					}
				}
			}
		}()
	}

	readers.Wait()
	close(stop)
	writer.Wait()
}
