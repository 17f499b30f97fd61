package dataset

import (
	"math"
	"sort"
)

// Factor names a categorical column used for grouping
type Factor string

const (
	FactorRiderClass Factor = "rider_class"
	FactorStageClass Factor = "stage_class"
)

// Column names expected in the header, in their conventional order
const (
	ColumnRider      = "all_riders"
	ColumnRiderClass = "rider_class"
	ColumnStage      = "stage"
	ColumnPoints     = "points"
	ColumnStageClass = "stage_class"
)

// ExpectedColumns is the required schema. Order in the file is free.
var ExpectedColumns = []string{ColumnRider, ColumnRiderClass, ColumnStage, ColumnPoints, ColumnStageClass}

// Observation is one rider-stage result. Missing points are NaN and
// missing categorical values are empty strings.
type Observation struct {
	Rider      string
	RiderClass string
	Stage      string
	Points     float64
	StageClass string
}

// Level returns the observation's value for a factor
func (o Observation) Level(f Factor) string {
	switch f {
	case FactorRiderClass:
		return o.RiderClass
	case FactorStageClass:
		return o.StageClass
	default:
		return ""
	}
}

// HasPoints reports whether points is present
func (o Observation) HasPoints() bool {
	return !math.IsNaN(o.Points)
}

// Table is the loaded observation set. It is not modified after Load.
type Table struct {
	rows      []Observation
	columns   []string
	delimiter rune
}

// NewTable wraps rows in a Table. The slice is copied.
func NewTable(rows []Observation) *Table {
	cp := make([]Observation, len(rows))
	copy(cp, rows)
	return &Table{rows: cp, columns: append([]string(nil), ExpectedColumns...)}
}

// Len returns the number of rows, complete or not
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of every row in file order
func (t *Table) Rows() []Observation {
	cp := make([]Observation, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Columns returns the header as it appeared in the file
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Delimiter returns the sniffed field delimiter. A space means runs of whitespace.
func (t *Table) Delimiter() rune {
	return t.delimiter
}

// Levels returns the sorted distinct non-missing levels of a factor
func (t *Table) Levels(f Factor) []string {
	seen := make(map[string]struct{})
	for _, r := range t.rows {
		if lv := r.Level(f); lv != "" {
			seen[lv] = struct{}{}
		}
	}

	levels := make([]string, 0, len(seen))
	for lv := range seen {
		levels = append(levels, lv)
	}
	sort.Strings(levels)
	return levels
}

// Complete returns the rows that have points and every named factor present
func (t *Table) Complete(factors ...Factor) []Observation {
	out := make([]Observation, 0, len(t.rows))
	for _, r := range t.rows {
		if !r.HasPoints() {
			continue
		}
		ok := true
		for _, f := range factors {
			if r.Level(f) == "" {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

// Points returns every non-missing points value in file order
func (t *Table) Points() []float64 {
	out := make([]float64, 0, len(t.rows))
	for _, r := range t.rows {
		if r.HasPoints() {
			out = append(out, r.Points)
		}
	}
	return out
}
