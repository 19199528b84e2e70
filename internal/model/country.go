package model

import "sort"

// CountryRecord is one row of the population table.
type CountryRecord struct {
	Name       string        `json:"name" yaml:"name"`
	Code       string        `json:"code,omitempty" yaml:"code,omitempty"` // CCA3, not validated
	Continent  string        `json:"continent" yaml:"continent"`
	Population map[int]int64 `json:"population" yaml:"population"` // sparse: year -> population
	Density    *float64      `json:"density,omitempty" yaml:"density,omitempty"`
	Area       *float64      `json:"area,omitempty" yaml:"area,omitempty"`
}

// PopulationIn returns the population for year and whether it is present.
func (r CountryRecord) PopulationIn(year int) (int64, bool) {
	v, ok := r.Population[year]
	return v, ok
}

// Years returns the years present on the record in ascending order.
func (r CountryRecord) Years() []int {
	years := make([]int, 0, len(r.Population))
	for y := range r.Population {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// LatestYear returns the most recent year with a population value.
func (r CountryRecord) LatestYear() (int, bool) {
	years := r.Years()
	if len(years) == 0 {
		return 0, false
	}
	return years[len(years)-1], true
}

// Clone returns a deep copy so derived tables never share maps or pointers.
func (r CountryRecord) Clone() CountryRecord {
	out := r
	out.Population = make(map[int]int64, len(r.Population))
	for y, v := range r.Population {
		out.Population[y] = v
	}
	if r.Density != nil {
		d := *r.Density
		out.Density = &d
	}
	if r.Area != nil {
		a := *r.Area
		out.Area = &a
	}
	return out
}
