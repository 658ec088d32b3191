package window

import (
	"math"
	"sort"
)

// Distribution summarises a sample set. The zero value describes an empty
// set; every statistic of an empty set is zero.
type Distribution struct {
	Count  uint64
	Sum    float64
	Min    float64
	Max    float64
	Avg    float64
	Median float64
	P95    float64
	P99    float64
}

func NewDistribution(samples []float64) Distribution {
	d := Distribution{Count: uint64(len(samples))}
	if len(samples) == 0 {
		return d
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	for _, v := range sorted {
		d.Sum += v
	}
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.Avg = d.Sum / float64(len(sorted))
	d.Median = Percentile(sorted, 0.5)
	d.P95 = Percentile(sorted, 0.95)
	d.P99 = Percentile(sorted, 0.99)
	return d
}

// Percentile computes the p-th percentile of an ascending sorted sample set:
// index ceil(p*n)-1, clamped to [0, n-1]. For any n >= 1 the p99 index is
// >= the p95 index is >= the median index.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	index := int(math.Ceil(p*float64(n))) - 1
	if index < 0 {
		index = 0
	}
	if index >= n {
		index = n - 1
	}
	return sorted[index]
}

// Histogram holds cumulative bucket counts over a fixed boundary set.
// CumulativeCounts[i] is the number of samples <= Boundaries[i]; the
// unbounded top bucket is implied by Count.
type Histogram struct {
	Boundaries       []float64
	CumulativeCounts []uint64
	Count            uint64
	Sum              float64
}

func NewHistogram(samples []float64, boundaries []float64) Histogram {
	h := Histogram{
		Boundaries:       append([]float64(nil), boundaries...),
		CumulativeCounts: make([]uint64, len(boundaries)),
		Count:            uint64(len(samples)),
	}
	for _, v := range samples {
		h.Sum += v
		for i, boundary := range h.Boundaries {
			if v <= boundary {
				h.CumulativeCounts[i]++
			}
		}
	}
	return h
}

// Buckets returns the cumulative counts keyed by boundary, in the shape
// expected by prometheus const histograms.
func (h Histogram) Buckets() map[float64]uint64 {
	buckets := make(map[float64]uint64, len(h.Boundaries))
	for i, boundary := range h.Boundaries {
		buckets[boundary] = h.CumulativeCounts[i]
	}
	return buckets
}
