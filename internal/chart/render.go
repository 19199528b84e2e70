package chart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/dataset"
	"github.com/sells-group/worldpop-cli/internal/model"
)

// Bundle is the input of RenderAll. Nil or empty parts are not rendered.
type Bundle struct {
	Table      *dataset.Table
	Aggregate  *model.AggregateResult
	Series     model.TrendSeries
	Projection *model.Projection
	Shapes     Shapes
	Cities     []model.City
}

// RenderAll writes every chart the bundle supports into dir concurrently and
// returns the written paths in a stable order.
func RenderAll(ctx context.Context, b Bundle, dir string, opts Options) ([]string, error) {
	type job struct {
		path   string
		render func() error
	}
	var jobs []job

	if agg := b.Aggregate; agg != nil {
		if len(agg.ByContinent) > 0 {
			path := filepath.Join(dir, fmt.Sprintf("continents_%d.png", agg.Year))
			ranking := analysis.ContinentRanking(agg.ByContinent)
			jobs = append(jobs, job{path, func() error { return ContinentBar(ranking, agg.Year, path, opts) }})
		}
		if len(agg.Top) > 0 {
			path := filepath.Join(dir, fmt.Sprintf("top_%d.png", agg.Year))
			jobs = append(jobs, job{path, func() error { return TopBar(agg.Top, agg.Year, path, opts) }})
		}
	}

	if b.Series.Len() > 0 {
		path := filepath.Join(dir, fmt.Sprintf("growth_%s.png", fileSlug(b.Series.Country)))
		jobs = append(jobs, job{path, func() error { return GrowthLine(b.Series, b.Projection, path, opts) }})
	}

	if b.Table != nil {
		year := 0
		if b.Aggregate != nil {
			year = b.Aggregate.Year
		} else if latest, ok := b.Table.LatestYear(); ok {
			year = latest
		}
		for _, metric := range []string{MetricPopulation, MetricDensity} {
			path := filepath.Join(dir, fmt.Sprintf("choropleth_%s.geojson", metric))
			jobs = append(jobs, job{path, func() error {
				fc, err := Choropleth(b.Table, year, metric, b.Shapes)
				if err != nil {
					return err
				}
				return WriteGeoJSON(fc, path)
			}})
		}
	}

	if len(b.Cities) > 0 {
		path := filepath.Join(dir, "cities.geojson")
		jobs = append(jobs, job{path, func() error {
			fc, err := Cities(b.Cities)
			if err != nil {
				return err
			}
			return WriteGeoJSON(fc, path)
		}})
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "chart: create %s", dir)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return j.render()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, len(jobs))
	for i, j := range jobs {
		paths[i] = j.path
	}
	zap.L().Info("chart: rendered", zap.String("dir", dir), zap.Int("files", len(paths)))
	return paths, nil
}

func fileSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
