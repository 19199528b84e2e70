package analysis

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/worldpop-cli/internal/dataset"
	"github.com/sells-group/worldpop-cli/internal/model"
)

// CensusYears are the population columns the trend is drawn from.
var CensusYears = []int{1970, 1980, 1990, 2000, 2010, 2015, 2020, 2022}

// Extract returns the population series of country over years. Lookup is
// case-sensitive and exact. Years the record has no value for are skipped.
// The series is ordered by year regardless of the order years are given in.
func Extract(t *dataset.Table, country string, years []int) (model.TrendSeries, error) {
	rec, ok := t.Lookup(country)
	if !ok {
		return model.TrendSeries{}, eris.Wrapf(ErrCountryNotFound, "%q", country)
	}

	wanted := append([]int(nil), years...)
	sort.Ints(wanted)

	series := model.TrendSeries{Country: rec.Name, Points: make([]model.TrendPoint, 0, len(wanted))}
	for i, y := range wanted {
		if i > 0 && y == wanted[i-1] {
			continue
		}
		if v, ok := rec.PopulationIn(y); ok {
			series.Points = append(series.Points, model.TrendPoint{Year: y, Population: float64(v)})
		}
	}
	if series.Len() == 0 {
		return model.TrendSeries{}, eris.Wrapf(ErrEmptySeries, "%q", country)
	}
	return series, nil
}
