package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/xopraneet789/cycling-performance-analysis/internal/dataset"
	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// GroupBy partitions the points of complete rows by factor level. Groups are
// ordered by label and only observed levels appear.
func GroupBy(rows []dataset.Observation, factor dataset.Factor) []Group {
	byLevel := make(map[string][]float64)
	for _, r := range rows {
		lv := r.Level(factor)
		if lv == "" || !r.HasPoints() {
			continue
		}
		byLevel[lv] = append(byLevel[lv], r.Points)
	}

	labels := make([]string, 0, len(byLevel))
	for lv := range byLevel {
		labels = append(labels, lv)
	}
	sort.Strings(labels)

	groups := make([]Group, len(labels))
	for i, lv := range labels {
		groups[i] = Group{Label: lv, Values: byLevel[lv]}
	}
	return groups
}

// Describe computes N, mean, sample SD, median and quartiles of points for
// each observed combination of the factors' levels. Rows missing points or
// any factor are skipped. Groups are ordered by level, first factor major.
func Describe(rows []dataset.Observation, factors ...dataset.Factor) ([]GroupStats, error) {
	if len(factors) == 0 {
		return nil, apperrors.NewPreconditionError("descriptive statistics need at least one grouping factor")
	}

	type cell struct {
		levels []string
		values []float64
	}
	cells := make(map[string]*cell)

	for _, r := range rows {
		if !r.HasPoints() {
			continue
		}
		levels := make([]string, len(factors))
		complete := true
		for i, f := range factors {
			levels[i] = r.Level(f)
			if levels[i] == "" {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		key := strings.Join(levels, "\x00")
		c, ok := cells[key]
		if !ok {
			c = &cell{levels: levels}
			cells[key] = c
		}
		c.values = append(c.values, r.Points)
	}

	if len(cells) == 0 {
		return nil, apperrors.NewPreconditionError(fmt.Sprintf("no complete observations for %s", factorList(factors)))
	}

	ordered := make([]*cell, 0, len(cells))
	for _, c := range cells {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i].levels, ordered[j].levels
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})

	out := make([]GroupStats, len(ordered))
	for i, c := range ordered {
		out[i] = summarize(c.levels, c.values)
	}
	return out, nil
}

// summarize computes the statistics of one group
func summarize(levels []string, values []float64) GroupStats {
	sorted := sortedCopy(values)

	gs := GroupStats{
		Levels: levels,
		N:      len(values),
		Mean:   stat.Mean(values, nil),
		SD:     math.NaN(),
		Median: Quantile(0.5, sorted),
		Q1:     Quantile(0.25, sorted),
		Q3:     Quantile(0.75, sorted),
	}
	if len(values) > 1 {
		gs.SD = stat.StdDev(values, nil)
	}
	return gs
}

func factorList(factors []dataset.Factor) string {
	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = string(f)
	}
	return strings.Join(names, " x ")
}
