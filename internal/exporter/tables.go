package exporter

import (
	"strings"

	"github.com/xopraneet789/cycling-performance-analysis/internal/analysis"
	"github.com/xopraneet789/cycling-performance-analysis/internal/config"
	"github.com/xopraneet789/cycling-performance-analysis/internal/dataset"
)

// Table is one output table: a file name, a header row and formatted records.
// The first Labels columns hold factor levels or row names and are always text.
type Table struct {
	File    string
	Headers []string
	Records [][]string
	Labels  int
}

// Sheet returns the workbook sheet name, the file name without extension
func (t Table) Sheet() string {
	return strings.TrimSuffix(t.File, ".csv")
}

// Results gathers everything the statistics pipeline reports
type Results struct {
	ByRider      []analysis.GroupStats
	ByStage      []analysis.GroupStats
	ByRiderStage []analysis.GroupStats
	OneWay       analysis.OneWayResult
	Kruskal      analysis.KruskalResult
	TwoWay       analysis.TwoWayResult
	Tukey        []analysis.TukeyPair
	Summary      []analysis.SummaryRow
}

// Tables returns the eight report tables in file order
func (r *Results) Tables() []Table {
	return []Table{
		DescriptiveTable(config.Table1DescriptiveRiderClass, r.ByRider, dataset.FactorRiderClass),
		DescriptiveTable(config.Table2DescriptiveStageClass, r.ByStage, dataset.FactorStageClass),
		OneWayTable(r.OneWay),
		KruskalTable(r.Kruskal),
		TwoWayTable(r.TwoWay),
		TukeyTable(r.Tukey),
		DescriptiveTable(config.Table7DescriptiveRiderStage, r.ByRiderStage, dataset.FactorRiderClass, dataset.FactorStageClass),
		SummaryTable(r.Summary),
	}
}

// DescriptiveTable lays out grouped statistics with one column per factor
func DescriptiveTable(file string, stats []analysis.GroupStats, factors ...dataset.Factor) Table {
	headers := make([]string, 0, len(factors)+6)
	for _, f := range factors {
		headers = append(headers, string(f))
	}
	headers = append(headers, "N", "Mean", "SD", "Median", "Q1", "Q3")

	records := make([][]string, 0, len(stats))
	for _, s := range stats {
		rec := append([]string(nil), s.Levels...)
		rec = append(rec,
			FormatInt(s.N),
			FormatFloat(s.Mean),
			FormatFloat(s.SD),
			FormatFloat(s.Median),
			FormatFloat(s.Q1),
			FormatFloat(s.Q3),
		)
		records = append(records, rec)
	}
	return Table{File: file, Headers: headers, Records: records, Labels: len(factors)}
}

// OneWayTable reports the rider class F test and the within-group df
func OneWayTable(r analysis.OneWayResult) Table {
	return Table{
		File:    config.Table3OneWayANOVA,
		Labels:  1,
		Headers: []string{"Source", "df", "F", "p"},
		Records: [][]string{
			{"Rider class", FormatInt(r.DFBetween), FormatFloat(r.F), FormatFloat(r.P)},
			{"Within", FormatInt(r.DFWithin), "", ""},
		},
	}
}

// KruskalTable reports the H statistic
func KruskalTable(r analysis.KruskalResult) Table {
	return Table{
		File:    config.Table4KruskalWallis,
		Labels:  1,
		Headers: []string{"Test", "df", "H", "p"},
		Records: [][]string{
			{"Kruskal-Wallis H", FormatInt(r.DF), FormatFloat(r.H), FormatFloat(r.P)},
		},
	}
}

// TwoWayTable reports every model term and the residual
func TwoWayTable(r analysis.TwoWayResult) Table {
	records := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		records = append(records, []string{
			row.Source,
			FormatFloat(row.SS),
			FormatFloat(row.DF),
			FormatFloat(row.F),
			FormatFloat(row.P),
		})
	}
	return Table{
		File:    config.Table5TwoWayANOVA,
		Labels:  1,
		Headers: []string{"Source", "SS", "df", "F", "p"},
		Records: records,
	}
}

// TukeyTable reports each pairwise comparison at full precision
func TukeyTable(pairs []analysis.TukeyPair) Table {
	records := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		records = append(records, []string{
			p.Group1,
			p.Group2,
			FormatFloat(p.MeanDiff),
			FormatFloat(p.PAdj),
			FormatFloat(p.Lower),
			FormatFloat(p.Upper),
			FormatBool(p.Reject),
		})
	}
	return Table{
		File:    config.Table6PosthocTukey,
		Labels:  2,
		Headers: []string{"group1", "group2", "mean_diff", "p_adj", "lower", "upper", "reject"},
		Records: records,
	}
}

// SummaryTable is the side-by-side parametric and rank test comparison
func SummaryTable(rows []analysis.SummaryRow) Table {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Test, FormatFloat(r.Statistic), r.DF, FormatFloat(r.P)})
	}
	return Table{
		File:    config.Table8ANOVAKWSummary,
		Labels:  1,
		Headers: []string{"Test", "Statistic", "df", "p"},
		Records: records,
	}
}
