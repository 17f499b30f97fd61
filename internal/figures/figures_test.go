package figures

import (
	"image"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xopraneet789/cycling-performance-analysis/internal/dataset"
	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

func sampleRows() []dataset.Observation {
	data := []struct {
		rider, stage string
		points       float64
	}{
		{"GC", "flat", 10}, {"GC", "flat", 12}, {"GC", "mount", 40}, {"GC", "mount", 35},
		{"Sprinter", "flat", 50}, {"Sprinter", "flat", 45}, {"Sprinter", "mount", 5},
		{"Climber", "mount", 30}, {"Climber", "hills", 22}, {"Climber", "hills", 18},
		{"", "flat", 3}, {"GC", "hills", math.NaN()},
	}
	rows := make([]dataset.Observation, len(data))
	for i, d := range data {
		rows[i] = dataset.Observation{Rider: "r", RiderClass: d.rider, Stage: "1", StageClass: d.stage, Points: d.points}
	}
	return rows
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	return cfg.Width, cfg.Height
}

func TestRendererFigures(t *testing.T) {
	r := NewRenderer(Options{DPI: 72, Bins: 10})
	rows := sampleRows()
	dir := t.TempDir()

	var points []float64
	for _, o := range rows {
		if o.HasPoints() {
			points = append(points, o.Points)
		}
	}

	tests := []struct {
		name          string
		draw          func(path string) error
		width, height int
	}{
		{"rider boxplot", func(p string) error { return r.RiderBoxplot(rows, p) }, 8 * 72, 6 * 72},
		{"stage boxplot", func(p string) error { return r.StageBoxplot(rows, p) }, 9 * 72, 6 * 72},
		{"interaction", func(p string) error { return r.Interaction(rows, p) }, 9 * 72, 6 * 72},
		{"histogram", func(p string) error { return r.Histogram(points, p) }, 8 * 72, 6 * 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", tt.name+".png")
			require.NoError(t, tt.draw(path))

			w, h := decodeSize(t, path)
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}
}

func TestRendererNoData(t *testing.T) {
	r := NewRenderer(Options{})
	dir := t.TempDir()
	empty := []dataset.Observation{{RiderClass: "GC", StageClass: "flat", Points: math.NaN()}}

	checks := map[string]error{
		"rider":       r.RiderBoxplot(empty, filepath.Join(dir, "a.png")),
		"stage":       r.StageBoxplot(empty, filepath.Join(dir, "b.png")),
		"interaction": r.Interaction(empty, filepath.Join(dir, "c.png")),
		"histogram":   r.Histogram(nil, filepath.Join(dir, "d.png")),
	}
	for name, err := range checks {
		require.Error(t, err, name)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypePrecondition), name)
	}
}

func TestNewRendererDefaults(t *testing.T) {
	r := NewRenderer(Options{})
	assert.Equal(t, DefaultOptions(), r.opts)

	r = NewRenderer(Options{DPI: 150, Bins: 5})
	assert.Equal(t, Options{DPI: 150, Bins: 5}, r.opts)
}

func TestInteractionMeans(t *testing.T) {
	stages, lines := InteractionMeans(sampleRows())
	assert.Equal(t, []string{"flat", "hills", "mount"}, stages)
	require.Len(t, lines, 3)

	assert.Equal(t, "Climber", lines[0].RiderClass)
	assert.Equal(t, map[string]float64{"hills": 20, "mount": 30}, lines[0].Means)

	assert.Equal(t, "GC", lines[1].RiderClass)
	assert.Equal(t, map[string]float64{"flat": 11, "mount": 37.5}, lines[1].Means)

	assert.Equal(t, "Sprinter", lines[2].RiderClass)
	assert.InDelta(t, 47.5, lines[2].Means["flat"], 1e-12)
}

func TestKDECurve(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	bw := ScottBandwidth(x)
	assert.InDelta(t, math.Sqrt(2.5)*math.Pow(5, -0.2), bw, 1e-12)

	curve := KDECurve(x, 101)
	require.Len(t, curve, 101)
	assert.Equal(t, 1.0, curve[0].X)
	assert.Equal(t, 5.0, curve[100].X)

	// symmetric data gives a symmetric curve peaking at the centre
	assert.InDelta(t, curve[10].Y, curve[90].Y, 1e-12)
	for _, pt := range curve {
		assert.LessOrEqual(t, pt.Y, curve[50].Y+1e-12)
	}

	// mean of the Gaussian kernels centred on each value
	var want float64
	for _, v := range x {
		z := (3 - v) / bw
		want += math.Exp(-0.5*z*z) / (bw * math.Sqrt(2*math.Pi))
	}
	assert.InDelta(t, want/5, curve[50].Y, 1e-12)

	assert.Nil(t, KDECurve([]float64{3, 3, 3}, 50))
	assert.Nil(t, KDECurve([]float64{3}, 50))
	assert.Zero(t, ScottBandwidth(nil))
}
