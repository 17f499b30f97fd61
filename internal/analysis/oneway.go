package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// checkGroups enforces the preconditions shared by the k-sample tests
func checkGroups(test string, groups []Group) error {
	if len(groups) < 2 {
		return apperrors.NewPreconditionError(fmt.Sprintf("%s needs at least 2 groups, got %d", test, len(groups)))
	}
	for _, g := range groups {
		if g.N() == 0 {
			return apperrors.NewPreconditionError(fmt.Sprintf("%s: group %q is empty", test, g.Label))
		}
	}
	return nil
}

// withinGroup returns the pooled within-group sum of squares and total N
func withinGroup(groups []Group) (ssw float64, n int) {
	for _, g := range groups {
		m := stat.Mean(g.Values, nil)
		for _, v := range g.Values {
			d := v - m
			ssw += d * d
		}
		n += g.N()
	}
	return ssw, n
}

// OneWayANOVA tests equality of group means with
// F = MS_between / MS_within on (k-1, N-k) degrees of freedom.
func OneWayANOVA(groups []Group) (OneWayResult, error) {
	if err := checkGroups("one-way ANOVA", groups); err != nil {
		return OneWayResult{}, err
	}

	ssw, n := withinGroup(groups)
	k := len(groups)
	if n-k < 1 {
		return OneWayResult{}, apperrors.NewPreconditionError(
			fmt.Sprintf("one-way ANOVA needs more observations than groups, got N=%d k=%d", n, k))
	}
	if ssw == 0 {
		return OneWayResult{}, apperrors.NewPreconditionError(
			"one-way ANOVA: zero within-group variance, every group is constant")
	}

	var grand float64
	for _, g := range groups {
		for _, v := range g.Values {
			grand += v
		}
	}
	grand /= float64(n)

	var ssb float64
	for _, g := range groups {
		d := stat.Mean(g.Values, nil) - grand
		ssb += float64(g.N()) * d * d
	}

	res := OneWayResult{
		K:         k,
		N:         n,
		DFBetween: k - 1,
		DFWithin:  n - k,
		SSBetween: ssb,
		SSWithin:  ssw,
	}
	res.MSBetween = ssb / float64(res.DFBetween)
	res.MSWithin = ssw / float64(res.DFWithin)
	res.F = res.MSBetween / res.MSWithin
	res.P = distuv.F{D1: float64(res.DFBetween), D2: float64(res.DFWithin)}.Survival(res.F)

	return res, nil
}
