package figures

import (
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// save renders p as a PNG of the given size in inches at the configured DPI
func (r *Renderer) save(p *plot.Plot, widthIn, heightIn float64, path string) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(r.opts.DPI),
	)
	p.Draw(draw.New(c))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewOutputError("failed to create directory", err).WithContext("path", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewOutputError("failed to create figure", err).WithContext("path", path)
	}
	defer f.Close()

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		return apperrors.NewOutputError("failed to encode figure", err).WithContext("path", path)
	}
	return f.Close()
}
