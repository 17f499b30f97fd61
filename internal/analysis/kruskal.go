package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// Rank assigns 1-based ranks to x, giving tied values the mean of the ranks
// they span. It also returns the tie term sum(t^3 - t) over tie blocks.
func Rank(x []float64) (ranks []float64, tieSum float64) {
	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && x[idx[j]] == x[idx[i]] {
			j++
		}
		// positions i..j-1 share ranks i+1..j
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		if t := float64(j - i); t > 1 {
			tieSum += t*t*t - t
		}
		i = j
	}
	return ranks, tieSum
}

// KruskalWallis computes the tie-corrected H statistic over global average
// ranks and its chi-square tail probability on k-1 degrees of freedom.
func KruskalWallis(groups []Group) (KruskalResult, error) {
	if err := checkGroups("Kruskal-Wallis", groups); err != nil {
		return KruskalResult{}, err
	}

	var all []float64
	for _, g := range groups {
		all = append(all, g.Values...)
	}
	n := float64(len(all))

	ranks, tieSum := Rank(all)
	correction := 1 - tieSum/(n*n*n-n)
	if correction <= 0 {
		return KruskalResult{}, apperrors.NewPreconditionError("Kruskal-Wallis: all observations are tied")
	}

	var sum float64
	offset := 0
	for _, g := range groups {
		var r float64
		for i := 0; i < g.N(); i++ {
			r += ranks[offset+i]
		}
		offset += g.N()
		sum += r * r / float64(g.N())
	}

	h := (12/(n*(n+1))*sum - 3*(n+1)) / correction
	if h < 0 {
		// rounding noise when every group has the same mean rank
		h = 0
	}
	df := len(groups) - 1

	return KruskalResult{
		K:             len(groups),
		N:             len(all),
		DF:            df,
		H:             h,
		P:             distuv.ChiSquared{K: float64(df)}.Survival(h),
		TieCorrection: correction,
	}, nil
}
