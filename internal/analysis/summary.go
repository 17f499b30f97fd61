package analysis

import "fmt"

// Test names used in the comparison table
const (
	OneWayTestName  = "One-way ANOVA"
	KruskalTestName = "Kruskal-Wallis"
)

// Summarize lays the one-way ANOVA and Kruskal-Wallis results side by side
func Summarize(ow OneWayResult, kw KruskalResult) []SummaryRow {
	return []SummaryRow{
		{
			Test:      OneWayTestName,
			Statistic: ow.F,
			DF:        fmt.Sprintf("%d, %d", ow.DFBetween, ow.DFWithin),
			P:         ow.P,
		},
		{
			Test:      KruskalTestName,
			Statistic: kw.H,
			DF:        fmt.Sprintf("%d", kw.DF),
			P:         kw.P,
		},
	}
}
