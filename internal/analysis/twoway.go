package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/xopraneet789/cycling-performance-analysis/internal/dataset"
	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// term flags select the blocks of a two-factor design matrix
const (
	termA = 1 << iota
	termB
	termAB
)

// design builds design matrices for points ~ A + B + A:B
type design struct {
	y       []float64
	a, b    []int // level index per row
	nA, nB  int
	effects bool // sum-to-zero coding instead of treatment coding
}

// code returns the contrast columns for level lv of a factor with n levels.
// Treatment coding drops the first level; sum coding maps the last level to -1.
func (d *design) code(lv, n int) []float64 {
	cols := make([]float64, n-1)
	if d.effects {
		if lv == n-1 {
			for i := range cols {
				cols[i] = -1
			}
		} else {
			cols[lv] = 1
		}
		return cols
	}
	if lv > 0 {
		cols[lv-1] = 1
	}
	return cols
}

// matrix assembles the intercept plus the requested term blocks
func (d *design) matrix(terms int) *mat.Dense {
	width := 1
	if terms&termA != 0 {
		width += d.nA - 1
	}
	if terms&termB != 0 {
		width += d.nB - 1
	}
	if terms&termAB != 0 {
		width += (d.nA - 1) * (d.nB - 1)
	}

	x := mat.NewDense(len(d.y), width, nil)
	for i := range d.y {
		ca := d.code(d.a[i], d.nA)
		cb := d.code(d.b[i], d.nB)

		col := 0
		x.Set(i, col, 1)
		col++
		if terms&termA != 0 {
			for _, v := range ca {
				x.Set(i, col, v)
				col++
			}
		}
		if terms&termB != 0 {
			for _, v := range cb {
				x.Set(i, col, v)
				col++
			}
		}
		if terms&termAB != 0 {
			for _, va := range ca {
				for _, vb := range cb {
					x.Set(i, col, va*vb)
					col++
				}
			}
		}
	}
	return x
}

// fit is the residual sum of squares and rank of a least-squares fit
type fit struct {
	rss  float64
	rank int
}

// leastSquares projects y onto the column space of x through a thin SVD,
// which tolerates the rank deficiency of empty design cells.
func leastSquares(x *mat.Dense, y []float64) (fit, error) {
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThinU); !ok {
		return fit{}, fmt.Errorf("SVD factorization failed")
	}

	s := svd.Values(nil)
	rows, cols := x.Dims()
	tol := float64(max(rows, cols)) * s[0] * 2.220446049250313e-16
	rank := 0
	for _, v := range s {
		if v > tol {
			rank++
		}
	}

	var u mat.Dense
	svd.UTo(&u)

	fitted := make([]float64, rows)
	for j := 0; j < rank; j++ {
		var c float64
		for i := 0; i < rows; i++ {
			c += u.At(i, j) * y[i]
		}
		for i := 0; i < rows; i++ {
			fitted[i] += u.At(i, j) * c
		}
	}

	var rss float64
	for i := range y {
		r := y[i] - fitted[i]
		rss += r * r
	}
	return fit{rss: rss, rank: rank}, nil
}

// TwoWayANOVA fits points ~ A + B + A:B by ordinary least squares and
// decomposes the sums of squares with the requested type. Term degrees of
// freedom are rank differences of the nested design matrices.
func TwoWayANOVA(rows []dataset.Observation, a, b dataset.Factor, ssType SumOfSquaresType) (TwoWayResult, error) {
	if ssType != TypeII && ssType != TypeIII {
		return TwoWayResult{}, apperrors.NewPreconditionError(fmt.Sprintf("unsupported sum of squares type %d", int(ssType)))
	}

	d, err := newDesign(rows, a, b)
	if err != nil {
		return TwoWayResult{}, err
	}
	d.effects = ssType == TypeIII

	fits := make(map[int]fit)
	models := []int{termA | termB | termAB, termA | termB, termA, termB}
	if ssType == TypeIII {
		models = []int{termA | termB | termAB, termB | termAB, termA | termAB, termA | termB}
	}
	for _, m := range models {
		f, err := leastSquares(d.matrix(m), d.y)
		if err != nil {
			return TwoWayResult{}, apperrors.NewPreconditionError("two-way ANOVA: " + err.Error())
		}
		fits[m] = f
	}

	full := fits[termA|termB|termAB]
	n := len(d.y)
	dfRes := n - full.rank
	if dfRes < 1 {
		return TwoWayResult{}, apperrors.NewPreconditionError(
			fmt.Sprintf("two-way ANOVA: no residual degrees of freedom (N=%d, rank=%d)", n, full.rank))
	}

	var mean, tss float64
	for _, v := range d.y {
		mean += v
	}
	mean /= float64(n)
	for _, v := range d.y {
		tss += (v - mean) * (v - mean)
	}
	if full.rss <= 1e-12*tss || full.rss == 0 {
		return TwoWayResult{}, apperrors.NewPreconditionError("two-way ANOVA: zero residual sum of squares")
	}

	// reduced[t] is the model compared against when testing term t
	var reduced, against map[int]int
	if ssType == TypeII {
		main := termA | termB
		reduced = map[int]int{termA: termB, termB: termA, termAB: main}
		against = map[int]int{termA: main, termB: main, termAB: termA | termB | termAB}
	} else {
		all := termA | termB | termAB
		reduced = map[int]int{termA: termB | termAB, termB: termA | termAB, termAB: termA | termB}
		against = map[int]int{termA: all, termB: all, termAB: all}
	}

	mse := full.rss / float64(dfRes)
	labels := map[int]string{
		termA:  string(a),
		termB:  string(b),
		termAB: string(a) + ":" + string(b),
	}

	res := TwoWayResult{Type: ssType, N: n}
	for _, t := range []int{termA, termB, termAB} {
		small, big := fits[reduced[t]], fits[against[t]]
		ss := small.rss - big.rss
		if ss < 0 && -ss <= 1e-9*tss {
			ss = 0
		}
		df := big.rank - small.rank

		row := ANOVARow{Source: labels[t], SS: ss, DF: float64(df), F: math.NaN(), P: math.NaN()}
		if df > 0 {
			row.F = (ss / float64(df)) / mse
			row.P = distuv.F{D1: float64(df), D2: float64(dfRes)}.Survival(row.F)
		}
		res.Rows = append(res.Rows, row)
	}
	res.Rows = append(res.Rows, ANOVARow{
		Source: ResidualSource,
		SS:     full.rss,
		DF:     float64(dfRes),
		F:      math.NaN(),
		P:      math.NaN(),
	})

	return res, nil
}

// newDesign collects complete rows and indexes their levels
func newDesign(rows []dataset.Observation, a, b dataset.Factor) (*design, error) {
	complete := make([]dataset.Observation, 0, len(rows))
	for _, r := range rows {
		if r.HasPoints() && r.Level(a) != "" && r.Level(b) != "" {
			complete = append(complete, r)
		}
	}

	levelsA := levelIndex(complete, a)
	levelsB := levelIndex(complete, b)
	if len(levelsA) < 2 {
		return nil, apperrors.NewPreconditionError(fmt.Sprintf("two-way ANOVA: %s needs at least 2 levels, got %d", a, len(levelsA)))
	}
	if len(levelsB) < 2 {
		return nil, apperrors.NewPreconditionError(fmt.Sprintf("two-way ANOVA: %s needs at least 2 levels, got %d", b, len(levelsB)))
	}

	d := &design{
		y:  make([]float64, len(complete)),
		a:  make([]int, len(complete)),
		b:  make([]int, len(complete)),
		nA: len(levelsA),
		nB: len(levelsB),
	}
	for i, r := range complete {
		d.y[i] = r.Points
		d.a[i] = levelsA[r.Level(a)]
		d.b[i] = levelsB[r.Level(b)]
	}
	return d, nil
}

// levelIndex maps each observed level to its position in sorted order
func levelIndex(rows []dataset.Observation, f dataset.Factor) map[string]int {
	groups := GroupBy(rows, f)
	idx := make(map[string]int, len(groups))
	for i, g := range groups {
		idx[g.Label] = i
	}
	return idx
}
