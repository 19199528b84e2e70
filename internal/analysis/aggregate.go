package analysis

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/worldpop-cli/internal/dataset"
	"github.com/sells-group/worldpop-cli/internal/model"
)

func requireYear(t *dataset.Table, year int) error {
	if !t.HasYear(year) {
		return eris.Wrapf(ErrMissingColumn, "year %d", year)
	}
	return nil
}

// TotalPopulation sums the populations present for year. Records without a
// value for year do not contribute.
func TotalPopulation(t *dataset.Table, year int) (int64, error) {
	if err := requireYear(t, year); err != nil {
		return 0, err
	}
	var total int64
	t.Each(func(r model.CountryRecord) {
		if v, ok := r.PopulationIn(year); ok {
			total += v
		}
	})
	return total, nil
}

// ByContinent sums present populations per continent. A continent appears
// only if at least one of its records has a value for year.
func ByContinent(t *dataset.Table, year int) (map[string]int64, error) {
	if err := requireYear(t, year); err != nil {
		return nil, err
	}
	out := make(map[string]int64)
	t.Each(func(r model.CountryRecord) {
		if v, ok := r.PopulationIn(year); ok {
			out[r.Continent] += v
		}
	})
	return out, nil
}

// TopN returns up to n countries ordered by descending population in year.
// Equal populations are ordered by ascending name.
func TopN(t *dataset.Table, year, n int) ([]model.RankEntry, error) {
	if n <= 0 {
		return nil, eris.Wrapf(ErrInvalidArgument, "n must be positive, got %d", n)
	}
	if err := requireYear(t, year); err != nil {
		return nil, err
	}

	entries := make([]model.RankEntry, 0, t.Len())
	t.Each(func(r model.CountryRecord) {
		if v, ok := r.PopulationIn(year); ok {
			entries = append(entries, model.RankEntry{Name: r.Name, Population: v})
		}
	})
	sortRanking(entries)

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Aggregate bundles TotalPopulation, ByContinent and TopN for one year.
func Aggregate(t *dataset.Table, year, n int) (*model.AggregateResult, error) {
	total, err := TotalPopulation(t, year)
	if err != nil {
		return nil, err
	}
	byContinent, err := ByContinent(t, year)
	if err != nil {
		return nil, err
	}
	top, err := TopN(t, year, n)
	if err != nil {
		return nil, err
	}
	return &model.AggregateResult{
		Year:        year,
		WorldTotal:  total,
		ByContinent: byContinent,
		Top:         top,
	}, nil
}

// ContinentRanking orders continent totals descending, ties by name.
func ContinentRanking(byContinent map[string]int64) []model.RankEntry {
	out := make([]model.RankEntry, 0, len(byContinent))
	for name, pop := range byContinent {
		out = append(out, model.RankEntry{Name: name, Population: pop})
	}
	sortRanking(out)
	return out
}

func sortRanking(entries []model.RankEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Population != entries[j].Population {
			return entries[i].Population > entries[j].Population
		}
		return entries[i].Name < entries[j].Name
	})
}
