package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xopraneet789/cycling-performance-analysis/internal/dataset"
	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

func obs(rider, stage string, points float64) dataset.Observation {
	return dataset.Observation{Rider: "r", RiderClass: rider, Stage: "1", StageClass: stage, Points: points}
}

// scenarioRows is three well separated rider classes on a single stage type
func scenarioRows() []dataset.Observation {
	var rows []dataset.Observation
	for _, v := range []float64{10, 12, 11} {
		rows = append(rows, obs("A", "flat", v))
	}
	for _, v := range []float64{20, 22, 19} {
		rows = append(rows, obs("B", "flat", v))
	}
	for _, v := range []float64{15, 14, 16} {
		rows = append(rows, obs("C", "flat", v))
	}
	return rows
}

func TestGroupBy(t *testing.T) {
	rows := []dataset.Observation{
		obs("Sprinter", "flat", 5),
		obs("GC", "mount", 7),
		obs("", "flat", 3),
		obs("GC", "flat", math.NaN()),
		obs("GC", "hills", 1),
	}

	groups := GroupBy(rows, dataset.FactorRiderClass)
	require.Len(t, groups, 2)
	assert.Equal(t, "GC", groups[0].Label)
	assert.Equal(t, []float64{7, 1}, groups[0].Values)
	assert.Equal(t, "Sprinter", groups[1].Label)
	assert.Equal(t, 1, groups[1].N())
}

func TestDescribe(t *testing.T) {
	t.Run("by rider class", func(t *testing.T) {
		stats, err := Describe(scenarioRows(), dataset.FactorRiderClass)
		require.NoError(t, err)
		require.Len(t, stats, 3)

		a := stats[0]
		assert.Equal(t, []string{"A"}, a.Levels)
		assert.Equal(t, 3, a.N)
		assert.InDelta(t, 11.0, a.Mean, 1e-12)
		assert.InDelta(t, 1.0, a.SD, 1e-12)
		assert.InDelta(t, 11.0, a.Median, 1e-12)
		assert.InDelta(t, 10.5, a.Q1, 1e-12)
		assert.InDelta(t, 11.5, a.Q3, 1e-12)

		b := stats[1]
		assert.InDelta(t, 61.0/3, b.Mean, 1e-12)
		assert.InDelta(t, math.Sqrt(7.0/3), b.SD, 1e-12)
	})

	t.Run("crossed factors are ordered first factor major", func(t *testing.T) {
		rows := []dataset.Observation{
			obs("Sprinter", "mount", 1),
			obs("GC", "mount", 2),
			obs("GC", "flat", 3),
			obs("Sprinter", "flat", 4),
			obs("GC", "flat", 5),
		}
		stats, err := Describe(rows, dataset.FactorStageClass, dataset.FactorRiderClass)
		require.NoError(t, err)

		var got [][]string
		for _, s := range stats {
			got = append(got, s.Levels)
		}
		assert.Equal(t, [][]string{
			{"flat", "GC"},
			{"flat", "Sprinter"},
			{"mount", "GC"},
			{"mount", "Sprinter"},
		}, got)
		assert.Equal(t, 2, stats[0].N)
		assert.InDelta(t, 4.0, stats[0].Mean, 1e-12)
	})

	t.Run("single observation has undefined SD", func(t *testing.T) {
		stats, err := Describe([]dataset.Observation{obs("GC", "flat", 8)}, dataset.FactorRiderClass)
		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.True(t, math.IsNaN(stats[0].SD))
		assert.Equal(t, 8.0, stats[0].Median)
		assert.Equal(t, 8.0, stats[0].Q1)
	})

	t.Run("no factors", func(t *testing.T) {
		_, err := Describe(scenarioRows())
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypePrecondition))
	})

	t.Run("no complete rows", func(t *testing.T) {
		_, err := Describe([]dataset.Observation{obs("GC", "", 1), obs("GC", "flat", math.NaN())},
			dataset.FactorRiderClass, dataset.FactorStageClass)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypePrecondition))
	})
}

func TestDescribeInvariants(t *testing.T) {
	rows := append(scenarioRows(),
		obs("A", "mount", 3),
		obs("B", "mount", 40),
		obs("B", "mount", 7),
		obs("C", "hills", 25),
		obs("", "flat", 18),
		obs("A", "", 5),
		obs("B", "flat", math.NaN()),
		obs("", "", math.NaN()),
	)
	table := dataset.NewTable(rows)

	factorSets := [][]dataset.Factor{
		{dataset.FactorRiderClass},
		{dataset.FactorStageClass},
		{dataset.FactorRiderClass, dataset.FactorStageClass},
	}
	for _, factors := range factorSets {
		stats, err := Describe(rows, factors...)
		require.NoError(t, err)

		total := 0
		for _, s := range stats {
			total += s.N
			assert.LessOrEqual(t, s.Q1, s.Median, "levels %v", s.Levels)
			assert.LessOrEqual(t, s.Median, s.Q3, "levels %v", s.Levels)
		}
		assert.Equal(t, len(table.Complete(factors...)), total, "factors %v", factors)
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		p      float64
		sorted []float64
		want   float64
	}{
		{"lower quartile interpolates", 0.25, []float64{1, 2, 3, 4}, 1.75},
		{"median of even count", 0.5, []float64{1, 2, 3, 4}, 2.5},
		{"upper quartile interpolates", 0.75, []float64{1, 2, 3, 4}, 3.25},
		{"minimum", 0, []float64{1, 2, 3, 4}, 1},
		{"maximum", 1, []float64{1, 2, 3, 4}, 4},
		{"exact order statistic", 0.5, []float64{1, 5, 9}, 5},
		{"single value", 0.3, []float64{7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.p, tt.sorted), 1e-12)
		})
	}

	assert.True(t, math.IsNaN(Quantile(0.5, nil)))
	assert.True(t, math.IsNaN(Quantile(1.5, []float64{1})))
}
