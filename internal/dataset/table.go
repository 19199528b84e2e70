// Package dataset holds the immutable in-memory population table and the
// loaders that build it from CSV or XLSX sources.
package dataset

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/worldpop-cli/internal/model"
)

// Table is an immutable set of country records keyed by unique name.
// Every accessor returns copies; derivations build a new Table.
type Table struct {
	records []model.CountryRecord
	byName  map[string]int
	years   []int
}

// NewTable validates records and builds a Table from deep copies of them.
// Names must be non-empty and unique, and populations non-negative.
func NewTable(records []model.CountryRecord) (*Table, error) {
	t := &Table{
		records: make([]model.CountryRecord, 0, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	yearSet := make(map[int]struct{})

	for i, r := range records {
		if r.Name == "" {
			return nil, eris.Errorf("dataset: record %d has an empty name", i)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, eris.Errorf("dataset: duplicate country %q", r.Name)
		}
		for y, v := range r.Population {
			if v < 0 {
				return nil, eris.Errorf("dataset: %s has negative population %d for %d", r.Name, v, y)
			}
			yearSet[y] = struct{}{}
		}
		t.byName[r.Name] = len(t.records)
		t.records = append(t.records, r.Clone())
	}

	t.years = make([]int, 0, len(yearSet))
	for y := range yearSet {
		t.years = append(t.years, y)
	}
	sort.Ints(t.years)
	return t, nil
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// Records returns a deep copy of every record in load order.
func (t *Table) Records() []model.CountryRecord {
	out := make([]model.CountryRecord, len(t.records))
	for i, r := range t.records {
		out[i] = r.Clone()
	}
	return out
}

// Each calls fn for every record in load order. fn receives a copy.
func (t *Table) Each(fn func(model.CountryRecord)) {
	for _, r := range t.records {
		fn(r.Clone())
	}
}

// Lookup returns the record with the exact (case-sensitive) name.
func (t *Table) Lookup(name string) (model.CountryRecord, bool) {
	i, ok := t.byName[name]
	if !ok {
		return model.CountryRecord{}, false
	}
	return t.records[i].Clone(), true
}

// LookupCode returns the first record whose code matches.
func (t *Table) LookupCode(code string) (model.CountryRecord, bool) {
	for _, r := range t.records {
		if r.Code == code && code != "" {
			return r.Clone(), true
		}
	}
	return model.CountryRecord{}, false
}

// Years returns every year present in at least one record, ascending.
func (t *Table) Years() []int {
	return append([]int(nil), t.years...)
}

// HasYear reports whether any record carries a value for year.
func (t *Table) HasYear(year int) bool {
	i := sort.SearchInts(t.years, year)
	return i < len(t.years) && t.years[i] == year
}

// LatestYear returns the most recent year present in the table.
func (t *Table) LatestYear() (int, bool) {
	if len(t.years) == 0 {
		return 0, false
	}
	return t.years[len(t.years)-1], true
}

// Continents returns the distinct continent names, sorted.
func (t *Table) Continents() []string {
	seen := make(map[string]struct{})
	for _, r := range t.records {
		seen[r.Continent] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
