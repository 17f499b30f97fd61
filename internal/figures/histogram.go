package figures

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

const kdeSamples = 200

// Histogram draws the distribution of every points value with a Gaussian
// kernel density estimate scaled to the bin counts
func (r *Renderer) Histogram(points []float64, path string) error {
	if len(points) == 0 {
		return apperrors.NewPreconditionError("points histogram: no points values")
	}

	p := plot.New()
	p.Title.Text = "Distribution of Points"
	p.X.Label.Text = "Points"
	p.Y.Label.Text = "Frequency"

	h, err := plotter.NewHist(plotter.Values(points), r.opts.Bins)
	if err != nil {
		return fmt.Errorf("points histogram: %w", err)
	}
	h.FillColor = faded(plotutil.Color(0))
	p.Add(h)

	if curve := KDECurve(points, kdeSamples); curve != nil {
		scale := float64(len(points)) * h.Width
		xys := make(plotter.XYs, len(curve))
		for i, pt := range curve {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y * scale}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("points histogram: %w", err)
		}
		line.Color = plotutil.Color(0)
		line.Width = vg.Points(1.5)
		p.Add(line)
	}

	return r.save(p, narrowWidth, height, path)
}

// ScottBandwidth is sd * n^(-1/5), or 0 when it is undefined
func ScottBandwidth(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil) * math.Pow(float64(len(x)), -0.2)
}

// KDECurve evaluates a Gaussian kernel density estimate with Scott's
// bandwidth at n evenly spaced points over the data range. It returns nil
// when the bandwidth is zero.
func KDECurve(x []float64, n int) plotter.XYs {
	bw := ScottBandwidth(x)
	if bw <= 0 || n < 2 {
		return nil
	}

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	kernels := make([]distuv.Normal, len(x))
	for i, v := range x {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}

	out := make(plotter.XYs, n)
	for i := range out {
		at := lo + (hi-lo)*float64(i)/float64(n-1)
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(at)
		}
		out[i] = plotter.XY{X: at, Y: sum / float64(len(x))}
	}
	return out
}
