package chart

import (
	"fmt"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sells-group/worldpop-cli/internal/model"
)

// GrowthLine writes the population trend of one country to path. When proj
// is non-nil the fitted line is drawn through to the projected point.
func GrowthLine(series model.TrendSeries, proj *model.Projection, path string, opts Options) error {
	if series.Len() == 0 {
		return eris.Errorf("chart: empty series for %q", series.Country)
	}

	pts := make(plotter.XYs, series.Len())
	for i, pt := range series.Points {
		pts[i].X = float64(pt.Year)
		pts[i].Y = pt.Population / 1e6
	}

	p := newPlot(fmt.Sprintf("Population growth of %s", series.Country), "Year", "Population (millions)")

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return eris.Wrap(err, "chart: growth line")
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	points.Color = lineColor
	p.Add(line, points)
	p.Legend.Add("observed", line, points)

	if proj != nil {
		first := series.Points[0].Year
		fit := plotter.NewFunction(func(x float64) float64 {
			return (proj.Model.Slope*x + proj.Model.Intercept) / 1e6
		})
		fit.XMin = float64(first)
		fit.XMax = float64(proj.TargetYear)
		fit.Color = projectionColor
		fit.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

		target, err := plotter.NewScatter(plotter.XYs{{X: float64(proj.TargetYear), Y: proj.Value / 1e6}})
		if err != nil {
			return eris.Wrap(err, "chart: projection point")
		}
		target.GlyphStyle.Color = projectionColor
		target.GlyphStyle.Shape = draw.CircleGlyph{}
		target.GlyphStyle.Radius = vg.Points(5)

		p.Add(fit, target)
		p.Legend.Add(fmt.Sprintf("projected %d", proj.TargetYear), target)
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true
	return save(p, path, opts)
}

func yearTitle(title string, year int) string {
	return fmt.Sprintf("%s (%d)", title, year)
}
