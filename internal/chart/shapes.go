package chart

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// DefaultCodeField is the ISO 3166-1 alpha-3 attribute of Natural Earth
// admin-0 shapefiles.
const DefaultCodeField = "ISO_A3"

// Shapes maps an upper-case ISO-A3 code to its country outline.
type Shapes map[string]geom.T

// LoadShapes reads country polygons from a shapefile, keyed by codeField.
// Records with no code, a "-99" placeholder code, or an unusable geometry
// are skipped.
func LoadShapes(path, codeField string) (Shapes, error) {
	if codeField == "" {
		codeField = DefaultCodeField
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "chart: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	codeIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, codeField) {
			codeIdx = i
			break
		}
	}
	if codeIdx < 0 {
		return nil, eris.Errorf("chart: shapefile %s has no field %q", path, codeField)
	}

	shapes := make(Shapes)
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		code := strings.ToUpper(strings.TrimSpace(strings.TrimRight(reader.Attribute(codeIdx), "\x00")))
		if code == "" || code == "-99" {
			skipped++
			continue
		}
		g := shapeToGeom(shape)
		if g == nil {
			skipped++
			continue
		}
		shapes[code] = g
	}

	if skipped > 0 {
		zap.L().Debug("chart: skipped shapefile records", zap.String("path", path), zap.Int("skipped", skipped))
	}
	return shapes, nil
}

func shapeToGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Polygon:
		return polygonToMultiPolygon(s)
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y}).SetSRID(4326)
	default:
		return nil
	}
}

// polygonToMultiPolygon turns every part of a shapefile polygon into its own
// polygon. Holes are not reconstructed.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("chart: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("chart: skipping malformed polygon", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
