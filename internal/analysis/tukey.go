package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// TukeyHSD runs all pairwise comparisons of the group means with the
// Tukey-Kramer standard error and family-wise confidence level 1-alpha.
// Pairs follow group order: (g0,g1), (g0,g2), ..., (g1,g2), ...
func TukeyHSD(groups []Group, alpha float64) ([]TukeyPair, error) {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return nil, apperrors.NewPreconditionError(fmt.Sprintf("Tukey HSD: alpha must be in (0, 1), got %v", alpha))
	}
	if err := checkGroups("Tukey HSD", groups); err != nil {
		return nil, err
	}

	ssw, n := withinGroup(groups)
	k := len(groups)
	df := n - k
	// the studentized range is defined for df >= 2
	if df < 2 {
		return nil, apperrors.NewPreconditionError(
			fmt.Sprintf("Tukey HSD needs at least 2 error degrees of freedom, got N=%d k=%d", n, k))
	}
	mse := ssw / float64(df)
	if mse <= 0 {
		return nil, apperrors.NewPreconditionError("Tukey HSD: zero within-group variance")
	}

	qcrit := StudentizedRangeQuantile(1-alpha, k, float64(df))

	means := make([]float64, k)
	for i, g := range groups {
		means[i] = stat.Mean(g.Values, nil)
	}

	pairs := make([]TukeyPair, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			diff := means[j] - means[i]
			se := math.Sqrt(mse / 2 * (1/float64(groups[i].N()) + 1/float64(groups[j].N())))
			margin := qcrit * se

			p := 1 - StudentizedRangeCDF(math.Abs(diff)/se, k, float64(df))
			if p < 0 {
				p = 0
			}

			pairs = append(pairs, TukeyPair{
				Group1:   groups[i].Label,
				Group2:   groups[j].Label,
				MeanDiff: diff,
				PAdj:     p,
				Lower:    diff - margin,
				Upper:    diff + margin,
				Reject:   math.Abs(diff) > margin,
			})
		}
	}
	return pairs, nil
}
