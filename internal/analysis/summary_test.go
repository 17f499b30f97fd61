package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xopraneet789/cycling-performance-analysis/internal/dataset"
)

func TestSummarize(t *testing.T) {
	groups := GroupBy(scenarioRows(), dataset.FactorRiderClass)
	ow, err := OneWayANOVA(groups)
	require.NoError(t, err)
	kw, err := KruskalWallis(groups)
	require.NoError(t, err)

	rows := Summarize(ow, kw)
	require.Len(t, rows, 2)

	assert.Equal(t, SummaryRow{Test: "One-way ANOVA", Statistic: ow.F, DF: "2, 6", P: ow.P}, rows[0])
	assert.Equal(t, SummaryRow{Test: "Kruskal-Wallis", Statistic: kw.H, DF: "2", P: kw.P}, rows[1])
}
