package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/xopraneet789/cycling-performance-analysis/internal/exporter"
)

// printSummary writes the test comparison and the Tukey pairs to w
func printSummary(w io.Writer, res *exporter.Results) error {
	fmt.Fprintln(w, "Rider class effect on points")

	tests := tablewriter.NewWriter(w)
	tests.SetHeader([]string{"Test", "Statistic", "df", "p"})
	for _, r := range res.Summary {
		tests.Append([]string{r.Test, fmt.Sprintf("%.4f", r.Statistic), r.DF, formatP(r.P)})
	}
	tests.Render()

	if len(res.TwoWay.Rows) > 0 {
		fmt.Fprintf(w, "\nTwo-way ANOVA (Type %s)\n", res.TwoWay.Type)
		twoWay := tablewriter.NewWriter(w)
		twoWay.SetHeader([]string{"Source", "SS", "df", "F", "p"})
		for _, r := range res.TwoWay.Rows {
			twoWay.Append([]string{r.Source, fmt.Sprintf("%.4f", r.SS), fmt.Sprintf("%g", r.DF), formatStat(r.F), formatP(r.P)})
		}
		twoWay.Render()
	}

	if len(res.Tukey) > 0 {
		fmt.Fprintln(w, "\nTukey HSD")
		tukey := tablewriter.NewWriter(w)
		tukey.SetHeader([]string{"Group 1", "Group 2", "Mean diff", "p adj", "Reject"})
		for _, p := range res.Tukey {
			tukey.Append([]string{p.Group1, p.Group2, fmt.Sprintf("%.4f", p.MeanDiff), formatP(p.PAdj), exporter.FormatBool(p.Reject)})
		}
		tukey.Render()
	}

	_, err := fmt.Fprintln(w)
	return err
}

func formatStat(x float64) string {
	if s := exporter.FormatFloat(x); s == "" {
		return ""
	}
	return fmt.Sprintf("%.4f", x)
}

func formatP(p float64) string {
	switch {
	case exporter.FormatFloat(p) == "":
		return ""
	case p < 1e-4:
		return "<0.0001"
	default:
		return fmt.Sprintf("%.4f", p)
	}
}
