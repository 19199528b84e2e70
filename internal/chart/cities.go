package chart

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/model"
)

// Cities builds the major-cities point layer: one feature per city at
// (longitude, latitude), sized by its population in millions.
func Cities(cities []model.City) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(cities))}
	for _, c := range cities {
		if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
			return nil, eris.Wrapf(analysis.ErrInvalidArgument, "city %s at (%v, %v)", c.Name, c.Latitude, c.Longitude)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       c.Name,
			Geometry: geom.NewPointFlat(geom.XY, []float64{c.Longitude, c.Latitude}).SetSRID(4326),
			Properties: map[string]interface{}{
				"name":                c.Name,
				"country":             c.Country,
				"population_millions": c.PopulationMillions,
			},
		})
	}
	return fc, nil
}
