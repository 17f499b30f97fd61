package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xopraneet789/cycling-performance-analysis/internal/dataset"
	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

func TestOneWayANOVA(t *testing.T) {
	groups := GroupBy(scenarioRows(), dataset.FactorRiderClass)

	res, err := OneWayANOVA(groups)
	require.NoError(t, err)

	assert.Equal(t, 3, res.K)
	assert.Equal(t, 9, res.N)
	assert.Equal(t, 2, res.DFBetween)
	assert.Equal(t, 6, res.DFWithin)
	assert.InDelta(t, 1184.0/9, res.SSBetween, 1e-9)
	assert.InDelta(t, 26.0/3, res.SSWithin, 1e-9)
	assert.InDelta(t, 26.0/18, res.MSWithin, 1e-9)

	wantF := (1184.0 / 18) / (26.0 / 18)
	assert.InDelta(t, wantF, res.F, 1e-9)
	// F(2, 6) upper tail is (1 + F/3)^-3
	assert.InDelta(t, math.Pow(1+wantF/3, -3), res.P, 1e-9)
	assert.Less(t, res.P, 0.01)
}

func TestOneWayANOVAPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		groups []Group
	}{
		{"single group", []Group{{Label: "A", Values: []float64{1, 2, 3}}}},
		{"empty group", []Group{{Label: "A", Values: []float64{1, 2}}, {Label: "B"}}},
		{"one observation per group", []Group{{Label: "A", Values: []float64{1}}, {Label: "B", Values: []float64{2}}}},
		{"constant groups", []Group{{Label: "A", Values: []float64{1, 1}}, {Label: "B", Values: []float64{2, 2}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OneWayANOVA(tt.groups)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypePrecondition))
		})
	}
}

func TestOneWayANOVAEqualMeans(t *testing.T) {
	res, err := OneWayANOVA([]Group{
		{Label: "A", Values: []float64{1, 2, 3}},
		{Label: "B", Values: []float64{3, 2, 1}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.F, 1e-12)
	assert.InDelta(t, 1.0, res.P, 1e-12)
}
