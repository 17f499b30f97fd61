package figures

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/xopraneet789/cycling-performance-analysis/internal/analysis"
	"github.com/xopraneet789/cycling-performance-analysis/internal/dataset"
	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// Figure sizes in inches
const (
	narrowWidth = 8
	wideWidth   = 9
	height      = 6
)

// Options controls rendering
type Options struct {
	DPI  int
	Bins int
}

// DefaultOptions returns 300 DPI output with 20 histogram bins
func DefaultOptions() Options {
	return Options{DPI: 300, Bins: 20}
}

// Renderer draws the four report figures
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer, filling unset options with defaults
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.DPI <= 0 {
		opts.DPI = def.DPI
	}
	if opts.Bins <= 0 {
		opts.Bins = def.Bins
	}
	return &Renderer{opts: opts}
}

// RiderBoxplot draws points by rider class
func (r *Renderer) RiderBoxplot(rows []dataset.Observation, path string) error {
	groups := analysis.GroupBy(rows, dataset.FactorRiderClass)
	if len(groups) == 0 {
		return apperrors.NewPreconditionError("rider class box plot: no complete observations")
	}

	p := plot.New()
	p.Title.Text = "Points Distribution by Rider Class"
	p.X.Label.Text = "Rider Class"
	p.Y.Label.Text = "Points"

	names := make([]string, len(groups))
	for i, g := range groups {
		b, err := newBox(vg.Points(40), float64(i), g.Values, plotutil.Color(i))
		if err != nil {
			return fmt.Errorf("rider class box plot: %w", err)
		}
		p.Add(b)
		names[i] = g.Label
	}
	p.NominalX(names...)

	return r.save(p, narrowWidth, height, path)
}

// StageBoxplot draws points by stage class with one box per rider class
// inside each stage group
func (r *Renderer) StageBoxplot(rows []dataset.Observation, path string) error {
	complete := completeRows(rows)
	stages := levels(complete, dataset.FactorStageClass)
	riders := levels(complete, dataset.FactorRiderClass)
	if len(stages) == 0 || len(riders) == 0 {
		return apperrors.NewPreconditionError("stage class box plot: no complete observations")
	}

	cells := cellValues(complete)

	p := plot.New()
	p.Title.Text = "Points by Rider Class Across Stage Types"
	p.X.Label.Text = "Stage Class"
	p.Y.Label.Text = "Points"
	p.Legend.Top = true
	p.Legend.Add("Rider Class")

	// boxes of one stage share 80% of a unit slot
	slot := 0.8 / float64(len(riders))
	width := vg.Points(120 / float64(len(riders)))
	if width > vg.Points(40) {
		width = vg.Points(40)
	}

	for j, rider := range riders {
		clr := plotutil.Color(j)
		for i, stage := range stages {
			values := cells[cellKey{rider: rider, stage: stage}]
			if len(values) == 0 {
				continue
			}
			loc := float64(i) - 0.4 + slot*(float64(j)+0.5)
			b, err := newBox(width, loc, values, clr)
			if err != nil {
				return fmt.Errorf("stage class box plot: %w", err)
			}
			p.Add(b)
		}
		p.Legend.Add(rider, swatch{color: clr})
	}
	p.NominalX(stages...)

	return r.save(p, wideWidth, height, path)
}

// cellKey identifies one rider class by stage class cell
type cellKey struct {
	rider, stage string
}

func cellValues(rows []dataset.Observation) map[cellKey][]float64 {
	cells := make(map[cellKey][]float64)
	for _, o := range rows {
		k := cellKey{rider: o.RiderClass, stage: o.StageClass}
		cells[k] = append(cells[k], o.Points)
	}
	return cells
}

// completeRows keeps rows with points and both factors present
func completeRows(rows []dataset.Observation) []dataset.Observation {
	out := make([]dataset.Observation, 0, len(rows))
	for _, o := range rows {
		if o.HasPoints() && o.RiderClass != "" && o.StageClass != "" {
			out = append(out, o)
		}
	}
	return out
}

func levels(rows []dataset.Observation, f dataset.Factor) []string {
	groups := analysis.GroupBy(rows, f)
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Label
	}
	return out
}

// faded returns c with reduced opacity for box fills
func faded(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 160}
}
