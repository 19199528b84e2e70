package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryRecord_Years(t *testing.T) {
	r := CountryRecord{Name: "Morocco", Population: map[int]int64{2020: 3, 1970: 1, 2000: 2}}
	assert.Equal(t, []int{1970, 2000, 2020}, r.Years())

	latest, ok := r.LatestYear()
	require.True(t, ok)
	assert.Equal(t, 2020, latest)
}

func TestCountryRecord_LatestYear_Empty(t *testing.T) {
	_, ok := CountryRecord{Name: "Nowhere"}.LatestYear()
	assert.False(t, ok)
}

func TestCountryRecord_PopulationIn(t *testing.T) {
	r := CountryRecord{Name: "Peru", Population: map[int]int64{2022: 34049588}}

	v, ok := r.PopulationIn(2022)
	assert.True(t, ok)
	assert.Equal(t, int64(34049588), v)

	_, ok = r.PopulationIn(1970)
	assert.False(t, ok)
}

func TestCountryRecord_CloneIsIndependent(t *testing.T) {
	d, a := 80.0, 446550.0
	orig := CountryRecord{
		Name:       "Morocco",
		Population: map[int]int64{2022: 37457971},
		Density:    &d,
		Area:       &a,
	}

	c := orig.Clone()
	c.Population[2022] = 1
	*c.Density = 1
	*c.Area = 1

	assert.Equal(t, int64(37457971), orig.Population[2022])
	assert.InDelta(t, 80.0, *orig.Density, 0.0001)
	assert.InDelta(t, 446550.0, *orig.Area, 0.0001)
}

func TestTrendSeries_XY(t *testing.T) {
	s := TrendSeries{Country: "X", Points: []TrendPoint{{Year: 2010, Population: 100}, {Year: 2020, Population: 200}}}
	xs, ys := s.XY()
	assert.Equal(t, []float64{2010, 2020}, xs)
	assert.Equal(t, []float64{100, 200}, ys)
	assert.Equal(t, 2, s.Len())
}
