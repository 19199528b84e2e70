// Package chart renders the population charts: continent and top-N bar
// charts, a country growth line with its projected point (PNG via gonum
// plot), and the choropleth and major-cities layers as GeoJSON.
package chart

import (
	"image/color"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Options sizes rendered images.
type Options struct {
	WidthInches  float64
	HeightInches float64
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.WidthInches, o.HeightInches
	if w <= 0 {
		w = 10
	}
	if h <= 0 {
		h = 6
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

var (
	barColor        = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	lineColor       = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	projectionColor = color.RGBA{R: 139, G: 0, B: 0, A: 255}
)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func save(p *plot.Plot, path string, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "chart: create dir for %s", path)
	}
	w, h := opts.size()
	if err := p.Save(w, h, path); err != nil {
		return eris.Wrapf(err, "chart: save %s", path)
	}
	return nil
}
