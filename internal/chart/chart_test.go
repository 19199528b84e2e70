package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/dataset"
	"github.com/sells-group/worldpop-cli/internal/model"
)

func f64(v float64) *float64 { return &v }

func testTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable([]model.CountryRecord{
		{Name: "Morocco", Code: "MAR", Continent: "Africa", Density: f64(83.8831),
			Population: map[int]int64{2022: 37457971, 2010: 32464865, 1970: 15274351}},
		{Name: "Peru", Code: "PER", Continent: "South America",
			Population: map[int]int64{2022: 34049588, 2010: 29229572}},
		{Name: "Atlantis", Continent: "Oceania", Population: map[int]int64{1970: 10}},
	})
	require.NoError(t, err)
	return tbl
}

func square(x, y float64) []shp.Point {
	return []shp.Point{{X: x, Y: y}, {X: x, Y: y + 1}, {X: x + 1, Y: y + 1}, {X: x + 1, Y: y}, {X: x, Y: y}}
}

func writeShapefile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "countries.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("ISO_A3", 3)}))

	two := append(square(-8, 30), square(-10, 28)...)
	w.Write(&shp.Polygon{
		Box:       shp.Box{MinX: -10, MinY: 28, MaxX: -7, MaxY: 31},
		NumParts:  2,
		NumPoints: int32(len(two)),
		Parts:     []int32{0, 5},
		Points:    two,
	})
	require.NoError(t, w.WriteAttribute(0, 0, "MAR"))

	w.Write(&shp.Polygon{
		Box:       shp.Box{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1},
		NumParts:  1,
		NumPoints: 5,
		Parts:     []int32{0},
		Points:    square(0, 0),
	})
	require.NoError(t, w.WriteAttribute(1, 0, "-99"))
	w.Close()

	// go-shp's writer names the attribute table "<base>dbf" while its reader
	// opens "<base>.dbf".
	base := strings.TrimSuffix(path, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	return path
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "%s is not a PNG", path)
}

func TestContinentBar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "continents.png")
	ranking := analysis.ContinentRanking(map[string]int64{"Asia": 4700000000, "Africa": 1400000000})

	require.NoError(t, ContinentBar(ranking, 2022, path, Options{WidthInches: 6, HeightInches: 4}))
	assertPNG(t, path)
}

func TestTopBar_Empty(t *testing.T) {
	err := TopBar(nil, 2022, filepath.Join(t.TempDir(), "top.png"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to plot")
}

func TestGrowthLine(t *testing.T) {
	series, err := analysis.Extract(testTable(t), "Morocco", analysis.CensusYears)
	require.NoError(t, err)
	m, err := analysis.Fit(series)
	require.NoError(t, err)
	proj := &model.Projection{Country: "Morocco", TargetYear: 2030, Model: m, Value: analysis.Predict(m, 2030)}

	path := filepath.Join(t.TempDir(), "nested", "growth.png")
	require.NoError(t, GrowthLine(series, proj, path, Options{}))
	assertPNG(t, path)

	require.NoError(t, GrowthLine(series, nil, path, Options{}))
	assert.Error(t, GrowthLine(model.TrendSeries{Country: "X"}, nil, path, Options{}))
}

func TestWriteShapefile_HasAttributeTable(t *testing.T) {
	r, err := shp.Open(writeShapefile(t))
	require.NoError(t, err)
	defer r.Close() //nolint:errcheck

	fields := r.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "ISO_A3", fields[0].String())
}

func TestLoadShapes(t *testing.T) {
	shapes, err := LoadShapes(writeShapefile(t), "")
	require.NoError(t, err)
	require.Len(t, shapes, 1, "the -99 placeholder is skipped")

	mp, ok := shapes["MAR"].(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestLoadShapes_Errors(t *testing.T) {
	_, err := LoadShapes(writeShapefile(t), "ADM0_A3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no field")

	_, err = LoadShapes(filepath.Join(t.TempDir(), "missing.shp"), "")
	assert.Error(t, err)
}

func TestPolygonToMultiPolygon_Empty(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
	assert.Nil(t, shapeToGeom(&shp.PolyLine{}))
}

type featureJSON struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

func decodeFeatures(t *testing.T, v interface{}) map[string]featureJSON {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var fc struct {
		Type     string        `json:"type"`
		Features []featureJSON `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)

	out := make(map[string]featureJSON, len(fc.Features))
	for _, f := range fc.Features {
		out[f.Properties["name"].(string)] = f
	}
	return out
}

func TestChoropleth_Population(t *testing.T) {
	shapes, err := LoadShapes(writeShapefile(t), "")
	require.NoError(t, err)

	fc, err := Choropleth(testTable(t), 2022, MetricPopulation, shapes)
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)

	byName := decodeFeatures(t, fc)
	mar := byName["Morocco"]
	assert.Equal(t, "MAR", mar.ID)
	assert.InDelta(t, 37457971.0, mar.Properties["value"], 0.5)
	assert.Contains(t, string(mar.Geometry), "MultiPolygon")

	peru := byName["Peru"]
	assert.True(t, len(peru.Geometry) == 0 || string(peru.Geometry) == "null", "no outline for PER")

	atl := byName["Atlantis"]
	assert.Nil(t, atl.Properties["value"])
}

func TestChoropleth_Density(t *testing.T) {
	fc, err := Choropleth(testTable(t), 0, MetricDensity, nil)
	require.NoError(t, err)

	byName := decodeFeatures(t, fc)
	v, ok := byName["Morocco"].Properties["value"].(float64)
	require.True(t, ok)
	assert.InDelta(t, 1.9288, v, 1e-3)
	assert.Nil(t, byName["Peru"].Properties["value"])
}

func TestChoropleth_Errors(t *testing.T) {
	_, err := Choropleth(testTable(t), 1999, MetricPopulation, nil)
	assert.ErrorIs(t, err, analysis.ErrMissingColumn)

	_, err = Choropleth(testTable(t), 2022, "area", nil)
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)
}

func TestRenderAll(t *testing.T) {
	tbl := testTable(t)
	agg, err := analysis.Aggregate(tbl, 2022, 2)
	require.NoError(t, err)
	proj, series, err := analysis.Project(tbl, "Morocco", analysis.CensusYears, 2030)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	paths, err := RenderAll(context.Background(), Bundle{
		Table:      tbl,
		Aggregate:  agg,
		Series:     series,
		Projection: proj,
		Cities:     dataset.MajorCities()[:3],
	}, dir, Options{WidthInches: 5, HeightInches: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "continents_2022.png"),
		filepath.Join(dir, "top_2022.png"),
		filepath.Join(dir, "growth_morocco.png"),
		filepath.Join(dir, "choropleth_population.geojson"),
		filepath.Join(dir, "choropleth_density.geojson"),
		filepath.Join(dir, "cities.geojson"),
	}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}

func TestCities(t *testing.T) {
	fc, err := Cities(dataset.MajorCities())
	require.NoError(t, err)
	require.Len(t, fc.Features, 30)

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	var decoded struct {
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	tokyo := decoded.Features[0]
	assert.Equal(t, "Point", tokyo.Geometry.Type)
	assert.InDeltaSlice(t, []float64{139.6503, 35.6762}, tokyo.Geometry.Coordinates, 1e-9, "longitude first")
	assert.Equal(t, "Tokyo", tokyo.Properties["name"])
	assert.Equal(t, "Japan", tokyo.Properties["country"])
	assert.InDelta(t, 37.4, tokyo.Properties["population_millions"], 1e-9)
}

func TestCities_InvalidCoordinates(t *testing.T) {
	_, err := Cities([]model.City{{Name: "Nowhere", Latitude: 120}})
	assert.ErrorIs(t, err, analysis.ErrInvalidArgument)

	fc, err := Cities(nil)
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}

func TestRenderAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RenderAll(ctx, Bundle{Table: testTable(t)}, t.TempDir(), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSlug(t *testing.T) {
	assert.Equal(t, "cote_d_ivoire", fileSlug("Cote d'Ivoire"))
	assert.Equal(t, "united_states", fileSlug("United States"))
}
