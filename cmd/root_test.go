package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/worldpop-cli/internal/model"
)

const sampleCSV = `Rank,CCA3,Country/Territory,Capital,Continent,2022 Population,2020 Population,2015 Population,2010 Population,2000 Population,1990 Population,1980 Population,1970 Population,Area (km²),Density (per km²),Growth Rate,World Population Percentage
1,CHN,China,Beijing,Asia,1425887337,1424929781,1393715448,1348191368,1264099069,1153704252,982372466,822534450,9706961,146.8933,1.0000,17.88
2,IND,India,New Delhi,Asia,1417173173,1396387127,1322866505,1240613620,1059633675,870452165,696828385,557501301,3287590,431.0675,1.0068,17.77
39,MAR,Morocco,Rabat,Africa,37457971,36688772,34663603,32464865,28554415,24570814,19678444,15274351,446550,83.8831,1.0099,0.47
43,PER,Peru,Lima,South America,34049588,33304756,30711863,29229572,26654439,22109099,17492406,13562371,1285216,26.4933,1.0099,0.43
172,ESH,Western Sahara,El Aaiún,Africa,575986,556048,491824,413296,270375,178529,116775,,266000,,1.0184,0.01
`

// setupEnv writes the sample dataset and points the configuration at it and
// at a temp SQLite store.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "world_population.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	t.Setenv("WORLDPOP_DATASET_PATH", path)
	t.Setenv("WORLDPOP_STORE_DATABASE_URL", filepath.Join(dir, "runs.db"))
	t.Setenv("WORLDPOP_CHART_OUTPUT_DIR", filepath.Join(dir, "charts"))
	t.Setenv("WORLDPOP_LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"summary", "trend", "project", "report", "charts", "export", "serve", "runs", "migrate", "import"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "worldpop", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("dataset"))
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
	assert.NotNil(t, serveCmd.Flags().Lookup("no-store"))
}

func TestReportCommand_Flags(t *testing.T) {
	for _, name := range []string{"year", "target", "out", "export", "no-save", "no-charts"} {
		assert.NotNil(t, reportCmd.Flags().Lookup(name), "report should have --%s flag", name)
	}
}

func TestRunsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range runsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "stats"} {
		assert.True(t, names[name], "runs should have subcommand %q", name)
	}
}

func TestSummaryCommand_JSON(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "summary", "--format", "json", "--year", "2022", "--top", "2")
	require.NoError(t, err)

	var agg model.AggregateResult
	require.NoError(t, json.Unmarshal([]byte(out), &agg))
	assert.Equal(t, 2022, agg.Year)
	assert.Equal(t, int64(2915144055), agg.WorldTotal)
	require.Len(t, agg.Top, 2)
	assert.Equal(t, "China", agg.Top[0].Name)
	assert.Equal(t, "India", agg.Top[1].Name)
}

func TestProjectCommand_UnknownCountry(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "project", "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "country not found")
}

func TestReportCommand_SavesRunAndRendersCharts(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "report", "Peru", "--target", "2034")
	require.NoError(t, err)
	assert.Contains(t, out, "Projected population of Peru in 2034: 38,731,697")
	assert.FileExists(t, filepath.Join(dir, "charts", "continents_2022.png"))
	assert.FileExists(t, filepath.Join(dir, "charts", "growth_peru.png"))
	assert.FileExists(t, filepath.Join(dir, "charts", "cities.geojson"))

	out, err = execute(t, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Peru")
	assert.Contains(t, out, "world_population.csv")
}
