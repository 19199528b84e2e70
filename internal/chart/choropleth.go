package chart

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/dataset"
	"github.com/sells-group/worldpop-cli/internal/model"
)

// Choropleth metrics.
const (
	MetricPopulation = "population"
	MetricDensity    = "density"
)

// Choropleth builds a GeoJSON feature collection with one feature per country.
// For MetricPopulation the value is the population in year; for MetricDensity
// it is log10(density+1). Countries without a value carry a null value, and
// countries absent from shapes carry a null geometry.
func Choropleth(t *dataset.Table, year int, metric string, shapes Shapes) (*geojson.FeatureCollection, error) {
	switch metric {
	case MetricPopulation:
		if !t.HasYear(year) {
			return nil, eris.Wrapf(analysis.ErrMissingColumn, "year %d", year)
		}
	case MetricDensity:
	default:
		return nil, eris.Wrapf(analysis.ErrInvalidArgument, "unknown choropleth metric %q", metric)
	}

	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, t.Len())}
	t.Each(func(r model.CountryRecord) {
		props := map[string]interface{}{
			"name":      r.Name,
			"code":      r.Code,
			"continent": r.Continent,
			"metric":    metric,
			"value":     nil,
		}
		switch metric {
		case MetricPopulation:
			props["year"] = year
			if v, ok := r.PopulationIn(year); ok {
				props["value"] = v
			}
		case MetricDensity:
			if r.Density != nil {
				props["density"] = *r.Density
			}
			if v, ok := dataset.LogDensity(r); ok {
				props["value"] = v
			}
		}

		f := &geojson.Feature{ID: r.Code, Properties: props}
		if g, ok := shapes[r.Code]; ok && r.Code != "" {
			f.Geometry = g
		}
		fc.Features = append(fc.Features, f)
	})
	return fc, nil
}

// WriteGeoJSON writes fc to path.
func WriteGeoJSON(fc *geojson.FeatureCollection, path string) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrap(err, "chart: marshal geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "chart: write %s", path)
	}
	return nil
}
