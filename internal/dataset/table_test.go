package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/worldpop-cli/internal/model"
)

func TestNewTable_RejectsEmptyName(t *testing.T) {
	_, err := NewTable([]model.CountryRecord{{Name: "", Continent: "Asia"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty name")
}

func TestNewTable_RejectsDuplicates(t *testing.T) {
	_, err := NewTable([]model.CountryRecord{
		{Name: "Chad", Continent: "Africa"},
		{Name: "Chad", Continent: "Africa"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate country "Chad"`)
}

func TestNewTable_RejectsNegativePopulation(t *testing.T) {
	_, err := NewTable([]model.CountryRecord{
		{Name: "Chad", Continent: "Africa", Population: map[int]int64{2022: -1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative population")
}

func TestTable_IsImmutable(t *testing.T) {
	src := []model.CountryRecord{{Name: "Chad", Continent: "Africa", Population: map[int]int64{2022: 10}}}
	tbl, err := NewTable(src)
	require.NoError(t, err)

	src[0].Population[2022] = 99
	got, ok := tbl.Lookup("Chad")
	require.True(t, ok)
	assert.Equal(t, int64(10), got.Population[2022], "construction copies input")

	got.Population[2022] = 42
	again, _ := tbl.Lookup("Chad")
	assert.Equal(t, int64(10), again.Population[2022], "lookup returns a copy")

	recs := tbl.Records()
	recs[0].Population[2022] = 7
	tbl.Each(func(r model.CountryRecord) { assert.Equal(t, int64(10), r.Population[2022]) })
}

func TestTable_YearsAndLookups(t *testing.T) {
	tbl, err := NewTable([]model.CountryRecord{
		{Name: "Chad", Code: "TCD", Continent: "Africa", Population: map[int]int64{2022: 10, 1970: 3}},
		{Name: "Peru", Code: "PER", Continent: "South America", Population: map[int]int64{2010: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []int{1970, 2010, 2022}, tbl.Years())
	assert.True(t, tbl.HasYear(2010))
	assert.False(t, tbl.HasYear(2015))

	latest, ok := tbl.LatestYear()
	require.True(t, ok)
	assert.Equal(t, 2022, latest)

	_, ok = tbl.Lookup("chad")
	assert.False(t, ok, "lookup is case-sensitive")

	r, ok := tbl.LookupCode("PER")
	require.True(t, ok)
	assert.Equal(t, "Peru", r.Name)

	_, ok = tbl.LookupCode("")
	assert.False(t, ok)

	assert.Equal(t, []string{"Africa", "South America"}, tbl.Continents())
}

func TestTable_EmptyLatestYear(t *testing.T) {
	tbl, err := NewTable(nil)
	require.NoError(t, err)
	_, ok := tbl.LatestYear()
	assert.False(t, ok)
}
