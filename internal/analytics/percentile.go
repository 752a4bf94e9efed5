// internal/analytics/percentile.go
package analytics

import "sort"

// Percentile returns the linearly interpolated percentile of values at
// p in [0,1], or nil for empty input. The rank is index = (n-1)*p, so
// p=0 is the minimum and p=1 the maximum. The input slice is not mutated.
func Percentile(values []float64, p float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := float64(len(sorted)-1) * p
	lo := int(idx)
	hi := lo + 1
	if hi >= len(sorted) {
		v := sorted[lo]
		return &v
	}

	frac := idx - float64(lo)
	v := sorted[lo] + (sorted[hi]-sorted[lo])*frac
	return &v
}

// Median is the 50th percentile.
func Median(values []float64) *float64 {
	return Percentile(values, 0.5)
}
