package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile_IndexRule(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	// index = ceil(p*n)-1
	assert.Equal(t, 50.0, Percentile(sorted, 0.5))
	assert.Equal(t, 100.0, Percentile(sorted, 0.95))
	assert.Equal(t, 100.0, Percentile(sorted, 0.99))
	assert.Equal(t, 10.0, Percentile(sorted, 0.0))
	assert.Equal(t, 100.0, Percentile(sorted, 1.0))
}

func TestPercentile_SmallSets(t *testing.T) {
	assert.Equal(t, 0.0, Percentile([]float64{}, 0.95))
	assert.Equal(t, 42.0, Percentile([]float64{42}, 0.5))
	assert.Equal(t, 42.0, Percentile([]float64{42}, 0.99))
	assert.Equal(t, 1.0, Percentile([]float64{1, 2}, 0.5))
	assert.Equal(t, 2.0, Percentile([]float64{1, 2}, 0.95))
}

func TestPercentile_LargeSet(t *testing.T) {
	sorted := make([]float64, 100)
	for i := range sorted {
		sorted[i] = float64(i + 1)
	}
	assert.Equal(t, 95.0, Percentile(sorted, 0.95))
	assert.Equal(t, 99.0, Percentile(sorted, 0.99))
	assert.Equal(t, 50.0, Percentile(sorted, 0.5))
}

func TestPercentile_Ordering(t *testing.T) {
	// For any sample set p99 >= p95 >= median.
	sets := [][]float64{
		{5},
		{1, 1000},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{0.1, 0.1, 0.1, 5000},
	}
	for _, sorted := range sets {
		p50 := Percentile(sorted, 0.5)
		p95 := Percentile(sorted, 0.95)
		p99 := Percentile(sorted, 0.99)
		assert.GreaterOrEqual(t, p95, p50)
		assert.GreaterOrEqual(t, p99, p95)
	}
}

func TestNewDistribution(t *testing.T) {
	d := NewDistribution([]float64{30, 10, 20, 50, 40})
	assert.Equal(t, uint64(5), d.Count)
	assert.Equal(t, 150.0, d.Sum)
	assert.Equal(t, 10.0, d.Min)
	assert.Equal(t, 50.0, d.Max)
	assert.Equal(t, 30.0, d.Avg)
	assert.Equal(t, 30.0, d.Median)
	assert.Equal(t, 50.0, d.P95)
	assert.Equal(t, 50.0, d.P99)
}

func TestNewDistribution_Empty(t *testing.T) {
	d := NewDistribution(nil)
	assert.Equal(t, Distribution{}, d)
}

func TestNewDistribution_DoesNotMutateInput(t *testing.T) {
	samples := []float64{3, 1, 2}
	NewDistribution(samples)
	assert.Equal(t, []float64{3, 1, 2}, samples)
}

func TestNewDistribution_ShiftingLoadMovesPercentiles(t *testing.T) {
	w := New(100)

	for i := 0; i < 100; i++ {
		w.Add(10)
	}
	low := NewDistribution(w.Snapshot())

	for i := 0; i < 100; i++ {
		w.Add(100)
	}
	moderate := NewDistribution(w.Snapshot())

	for i := 0; i < 100; i++ {
		w.Add(1000)
	}
	high := NewDistribution(w.Snapshot())

	assert.Less(t, low.P95, moderate.P95)
	assert.Less(t, moderate.P95, high.P95)
	assert.Less(t, low.P99, moderate.P99)
	assert.Less(t, moderate.P99, high.P99)
}

func TestNewHistogram(t *testing.T) {
	boundaries := []float64{10, 50, 100}
	h := NewHistogram([]float64{5, 10, 30, 75, 200}, boundaries)

	assert.Equal(t, uint64(5), h.Count)
	assert.Equal(t, 320.0, h.Sum)
	// Cumulative: <=10 holds 5 and 10, <=50 adds 30, <=100 adds 75.
	assert.Equal(t, []uint64{2, 3, 4}, h.CumulativeCounts)
	assert.Equal(t, map[float64]uint64{10: 2, 50: 3, 100: 4}, h.Buckets())
}

func TestNewHistogram_CumulativeCountsNonDecreasing(t *testing.T) {
	boundaries := []float64{5, 10, 25, 50, 100, 250, 500, 1000}
	h := NewHistogram([]float64{1, 7, 7, 42, 99, 800, 5000}, boundaries)
	for i := 1; i < len(h.CumulativeCounts); i++ {
		assert.GreaterOrEqual(t, h.CumulativeCounts[i], h.CumulativeCounts[i-1])
	}
	assert.GreaterOrEqual(t, h.Count, h.CumulativeCounts[len(h.CumulativeCounts)-1])
}

func TestNewHistogram_Empty(t *testing.T) {
	h := NewHistogram(nil, []float64{10, 100})
	assert.Equal(t, uint64(0), h.Count)
	assert.Equal(t, 0.0, h.Sum)
	assert.Equal(t, []uint64{0, 0}, h.CumulativeCounts)
}
