package report

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/model"
)

// Format is an export encoding.
type Format string

// Supported export formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("report: unknown export format %q", s)
	}
}

// Row is one line of the flat CSV export.
type Row struct {
	Section string  `csv:"section"`
	Name    string  `csv:"name"`
	Year    int     `csv:"year,omitempty"`
	Value   float64 `csv:"value"`
}

// Rows flattens res into CSV rows: world total, continents (descending),
// top-N, trend points, then the projection.
func Rows(res *model.RunResult) []Row {
	var rows []Row
	if agg := res.Aggregate; agg != nil {
		rows = append(rows, Row{Section: "world", Name: "World", Year: agg.Year, Value: float64(agg.WorldTotal)})
		for _, e := range analysis.ContinentRanking(agg.ByContinent) {
			rows = append(rows, Row{Section: "continent", Name: e.Name, Year: agg.Year, Value: float64(e.Population)})
		}
		for _, e := range agg.Top {
			rows = append(rows, Row{Section: "top", Name: e.Name, Year: agg.Year, Value: float64(e.Population)})
		}
	}
	if s := res.Series; s != nil {
		for _, p := range s.Points {
			rows = append(rows, Row{Section: "trend", Name: s.Country, Year: p.Year, Value: p.Population})
		}
	}
	if p := res.Projection; p != nil {
		rows = append(rows,
			Row{Section: "slope", Name: p.Country, Value: p.Model.Slope},
			Row{Section: "intercept", Name: p.Country, Value: p.Model.Intercept},
			Row{Section: "projection", Name: p.Country, Year: p.TargetYear, Value: p.Value},
		)
	}
	return rows
}

// Export encodes res to w in the given format.
func Export(w io.Writer, res *model.RunResult, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(res), "report: encode json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return eris.Wrap(err, "report: encode yaml")
		}
		return eris.Wrap(enc.Close(), "report: encode yaml")
	case FormatCSV:
		data, err := csvutil.Marshal(Rows(res))
		if err != nil {
			return eris.Wrap(err, "report: encode csv")
		}
		_, err = w.Write(data)
		return eris.Wrap(err, "report: write csv")
	case FormatXLSX:
		f, err := Workbook(res)
		if err != nil {
			return err
		}
		return eris.Wrap(f.Write(w), "report: write xlsx")
	default:
		return eris.Errorf("report: unknown export format %q", format)
	}
}

// ExportFile writes res to path. An empty format is taken from the extension.
func ExportFile(path string, res *model.RunResult, format Format) error {
	if format == "" {
		var err error
		if format, err = ParseFormat(filepath.Ext(path)); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	if err := Export(f, res, format); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "report: close %s", path)
}
