package analysis

import (
	"math"
	"sort"
)

// Quantile returns the p-quantile of sorted using linear interpolation
// between order statistics at h = (n-1)p (Hyndman-Fan type 7). sorted must
// be in increasing order. gonum's stat.Quantile offers only the empirical
// and type 4 rules, which disagree with the pandas and R defaults.
func Quantile(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 0 || p < 0 || p > 1 || math.IsNaN(p) {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// sortedCopy returns an increasing copy of x
func sortedCopy(x []float64) []float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return s
}
