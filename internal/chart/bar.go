package chart

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sells-group/worldpop-cli/internal/model"
)

// ContinentBar writes a bar chart of continent totals (as returned by
// analysis.ContinentRanking) to path.
func ContinentBar(ranking []model.RankEntry, year int, path string, opts Options) error {
	return rankingBar(ranking, "Population by continent", year, path, opts)
}

// TopBar writes a bar chart of the top-N countries to path.
func TopBar(top []model.RankEntry, year int, path string, opts Options) error {
	return rankingBar(top, "Most populous countries", year, path, opts)
}

func rankingBar(entries []model.RankEntry, title string, year int, path string, opts Options) error {
	if len(entries) == 0 {
		return eris.Errorf("chart: nothing to plot for %s", path)
	}

	values := make(plotter.Values, len(entries))
	labels := make([]string, len(entries))
	for i, e := range entries {
		values[i] = float64(e.Population) / 1e6
		labels[i] = e.Name
	}

	p := newPlot(yearTitle(title, year), "", "Population (millions)")
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return eris.Wrap(err, "chart: bar chart")
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.Add(plotter.NewGrid())
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0

	return save(p, path, opts)
}
