package analysis

// Group is one level of a factor and its points values
type Group struct {
	Label  string
	Values []float64
}

// N returns the group size
func (g Group) N() int {
	return len(g.Values)
}

// GroupStats holds the descriptive statistics of one group. Levels has one
// entry per grouping factor, in factor order.
type GroupStats struct {
	Levels []string
	N      int
	Mean   float64
	SD     float64 // NaN when N == 1
	Median float64
	Q1     float64
	Q3     float64
}

// OneWayResult is a one-way ANOVA decomposition
type OneWayResult struct {
	K         int
	N         int
	DFBetween int
	DFWithin  int
	SSBetween float64
	SSWithin  float64
	MSBetween float64
	MSWithin  float64
	F         float64
	P         float64
}

// KruskalResult is a Kruskal-Wallis H test
type KruskalResult struct {
	K  int
	N  int
	DF int
	H  float64
	P  float64
	// TieCorrection is the divisor applied to the raw statistic
	TieCorrection float64
}

// SumOfSquaresType selects the two-way ANOVA decomposition
type SumOfSquaresType int

const (
	TypeII  SumOfSquaresType = 2
	TypeIII SumOfSquaresType = 3
)

// String implements fmt.Stringer
func (t SumOfSquaresType) String() string {
	switch t {
	case TypeII:
		return "II"
	case TypeIII:
		return "III"
	default:
		return "unknown"
	}
}

// ResidualSource labels the error row of an ANOVA table
const ResidualSource = "Residual"

// ANOVARow is one line of an ANOVA table. F and P are NaN on the residual row
// and on a term whose columns are fully aliased.
type ANOVARow struct {
	Source string
	SS     float64
	DF     float64
	F      float64
	P      float64
}

// TwoWayResult is a two-way ANOVA table with interaction
type TwoWayResult struct {
	Type SumOfSquaresType
	N    int
	Rows []ANOVARow
}

// Row returns the row for source, if present
func (r TwoWayResult) Row(source string) (ANOVARow, bool) {
	for _, row := range r.Rows {
		if row.Source == source {
			return row, true
		}
	}
	return ANOVARow{}, false
}

// TukeyPair is one Tukey HSD comparison. MeanDiff is mean(Group2) - mean(Group1).
type TukeyPair struct {
	Group1   string
	Group2   string
	MeanDiff float64
	PAdj     float64
	Lower    float64
	Upper    float64
	Reject   bool
}

// SummaryRow is one line of the ANOVA / Kruskal-Wallis comparison table
type SummaryRow struct {
	Test      string
	Statistic float64
	DF        string
	P         float64
}
