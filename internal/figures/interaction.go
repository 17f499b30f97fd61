package figures

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/xopraneet789/cycling-performance-analysis/internal/dataset"
	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// markers cycle circle, square, diamond, triangle
var markers = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.BoxGlyph{},
	diamondGlyph{},
	draw.PyramidGlyph{},
}

// diamondGlyph is a filled square rotated by 45 degrees
type diamondGlyph struct{}

// DrawGlyph implements draw.GlyphDrawer
func (diamondGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius * 1.3
	c.FillPolygon(sty.Color, []vg.Point{
		{X: pt.X, Y: pt.Y + r},
		{X: pt.X + r, Y: pt.Y},
		{X: pt.X, Y: pt.Y - r},
		{X: pt.X - r, Y: pt.Y},
	})
}

// MeanLine is the mean points of one rider class at each stage class.
// Stages with no observations are absent from Means.
type MeanLine struct {
	RiderClass string
	Means      map[string]float64
}

// InteractionMeans returns the stage levels and one mean line per rider class
func InteractionMeans(rows []dataset.Observation) ([]string, []MeanLine) {
	complete := completeRows(rows)
	stages := levels(complete, dataset.FactorStageClass)
	riders := levels(complete, dataset.FactorRiderClass)
	cells := cellValues(complete)

	lines := make([]MeanLine, len(riders))
	for j, rider := range riders {
		line := MeanLine{RiderClass: rider, Means: make(map[string]float64)}
		for _, stage := range stages {
			if v := cells[cellKey{rider: rider, stage: stage}]; len(v) > 0 {
				line.Means[stage] = stat.Mean(v, nil)
			}
		}
		lines[j] = line
	}
	return stages, lines
}

// Interaction draws mean points per stage class, one line per rider class
func (r *Renderer) Interaction(rows []dataset.Observation, path string) error {
	stages, lines := InteractionMeans(rows)
	if len(stages) == 0 {
		return apperrors.NewPreconditionError("interaction plot: no complete observations")
	}

	p := plot.New()
	p.Title.Text = "Interaction Effect: Rider Class and Stage Type"
	p.X.Label.Text = "Stage Class"
	p.Y.Label.Text = "Mean Points"
	p.Legend.Top = true
	p.Legend.Add("Rider Class")

	for j, ml := range lines {
		xys := make(plotter.XYs, 0, len(stages))
		for i, stage := range stages {
			if m, ok := ml.Means[stage]; ok {
				xys = append(xys, plotter.XY{X: float64(i), Y: m})
			}
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("interaction plot: %w", err)
		}
		clr := plotutil.Color(j)
		line.Color = clr
		line.Width = vg.Points(1.5)
		points.Color = clr
		points.Shape = markers[j%len(markers)]
		points.Radius = vg.Points(4)

		p.Add(line, points)
		p.Legend.Add(ml.RiderClass, line, points)
	}
	p.NominalX(stages...)

	return r.save(p, wideWidth, height, path)
}
