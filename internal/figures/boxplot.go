package figures

import (
	"image/color"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// newBox builds a filled box plot at loc
func newBox(width vg.Length, loc float64, values []float64, clr color.Color) (*plotter.BoxPlot, error) {
	b, err := plotter.NewBoxPlot(width, loc, plotter.Values(values))
	if err != nil {
		return nil, err
	}
	b.FillColor = faded(clr)
	b.BoxStyle.Width = vg.Points(1)
	b.MedianStyle.Width = vg.Points(1.5)
	return b, nil
}

// swatch is a filled legend thumbnail
type swatch struct {
	color color.Color
}

// Thumbnail implements plot.Thumbnailer
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(faded(s.color), pts)
}
