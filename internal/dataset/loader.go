package dataset

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/worldpop-cli/internal/fetcher"
	"github.com/sells-group/worldpop-cli/internal/model"
)

// Options configures Load.
type Options struct {
	// Format forces "csv" or "xlsx"; empty selects by file extension.
	Format string
	// Sheet names the XLSX worksheet; empty reads the first sheet.
	Sheet string
	// CacheDir receives downloaded sources and extracted archive members.
	CacheDir string
	Fetch    fetcher.Options
}

// Load resolves src (path, file://, http(s)://, ftp://, optionally a .zip
// holding one dataset), parses it, and returns the resulting Table.
func Load(ctx context.Context, src string, opts Options) (*Table, error) {
	if opts.CacheDir == "" {
		opts.CacheDir = filepath.Join(os.TempDir(), "worldpop")
	}

	path, err := fetcher.Localize(ctx, src, opts.CacheDir, opts.Fetch)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: resolve %s", src)
	}

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		path, err = fetcher.ExtractDataset(path, opts.CacheDir)
		if err != nil {
			return nil, eris.Wrap(err, "dataset: extract archive")
		}
	}

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	var header []string
	var rows [][]string
	switch format {
	case "xlsx":
		header, rows, err = fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: opts.Sheet})
	default:
		header, rows, err = readCSVFile(ctx, path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", path)
	}

	t, err := Parse(header, rows)
	if err != nil {
		return nil, err
	}

	zap.L().Info("dataset: loaded",
		zap.String("source", src),
		zap.String("format", format),
		zap.Int("records", t.Len()),
		zap.Ints("years", t.Years()),
	)
	return t, nil
}

func readCSVFile(ctx context.Context, path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "open csv")
	}
	defer f.Close() //nolint:errcheck

	return fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{TrimSpace: true, LazyQuotes: true})
}

// Parse builds a Table from a header row and data rows. Only column presence
// is validated; blank cells become absent values and fully blank rows are
// ignored.
func Parse(header []string, rows [][]string) (*Table, error) {
	cm := mapColumns(header)
	if missing := cm.missing(); len(missing) > 0 {
		return nil, eris.Errorf("dataset: missing required columns: %s", strings.Join(missing, ", "))
	}

	records := make([]model.CountryRecord, 0, len(rows))
	for i, row := range rows {
		if blank(row) {
			continue
		}
		line := i + 2 // 1-based, after the header

		rec := model.CountryRecord{
			Name:       cell(row, cm.name),
			Code:       strings.ToUpper(cell(row, cm.code)),
			Continent:  cell(row, cm.continent),
			Population: make(map[int]int64, len(cm.years)),
		}

		for year, idx := range cm.years {
			raw := cell(row, idx)
			if raw == "" {
				continue
			}
			v, err := parsePopulation(raw)
			if err != nil {
				return nil, eris.Wrapf(err, "dataset: row %d column %s", line, header[idx])
			}
			rec.Population[year] = v
		}

		var err error
		if rec.Density, err = optionalFloat(row, cm.density); err != nil {
			return nil, eris.Wrapf(err, "dataset: row %d column %s", line, header[cm.density])
		}
		if rec.Area, err = optionalFloat(row, cm.area); err != nil {
			return nil, eris.Wrapf(err, "dataset: row %d column %s", line, header[cm.area])
		}

		records = append(records, rec)
	}

	return NewTable(records)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parsePopulation accepts plain integers, thousands-separated integers, and
// float renderings such as spreadsheet "3.7457971e+07".
func parsePopulation(raw string) (int64, error) {
	clean := strings.NewReplacer(",", "", "_", "", " ", "").Replace(raw)
	if v, err := strconv.ParseInt(clean, 10, 64); err == nil {
		if v < 0 {
			return 0, eris.Errorf("negative population %q", raw)
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, eris.Errorf("invalid population %q", raw)
	}
	if f < 0 {
		return 0, eris.Errorf("negative population %q", raw)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if f >= math.MaxInt64 {
		return 0, eris.Errorf("population %q out of range", raw)
	}
	return int64(math.Round(f)), nil
}

func optionalFloat(row []string, idx int) (*float64, error) {
	raw := cell(row, idx)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, eris.Errorf("invalid number %q", raw)
	}
	if f < 0 {
		return nil, eris.Errorf("negative value %q", raw)
	}
	return &f, nil
}
