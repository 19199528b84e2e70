package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/worldpop-cli/internal/model"
	"github.com/sells-group/worldpop-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded analysis runs",
	Long:  "Commands for listing, viewing, and summarizing recorded report runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		ds, _ := cmd.Flags().GetString("dataset-name")
		country, _ := cmd.Flags().GetString("country")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Dataset: ds,
			Country: country,
			Limit:   limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No runs found.")
			return nil
		}

		formatRunsList(cmd.OutOrStdout(), runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

// -- runs stats --

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run counts per country",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runs, err := st.ListRuns(ctx, store.RunFilter{Limit: 10000})
		if err != nil {
			return eris.Wrap(err, "runs stats")
		}

		formatRunStats(cmd.OutOrStdout(), computeRunStats(runs))
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("dataset-name", "", "filter by dataset file name")
	runsListCmd.Flags().String("country", "", "filter by projected country")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsStatsCmd)
	rootCmd.AddCommand(runsCmd)
}

type countryCount struct {
	Country string
	Runs    int
}

// runStats holds aggregate statistics computed from a set of runs.
type runStats struct {
	Total     int
	Datasets  int
	Countries []countryCount
	First     time.Time
	Last      time.Time
}

func computeRunStats(runs []model.Run) runStats {
	s := runStats{Total: len(runs)}

	datasets := make(map[string]bool)
	counts := make(map[string]int)
	for _, r := range runs {
		datasets[r.Dataset] = true
		counts[r.Country]++
		if s.First.IsZero() || r.CreatedAt.Before(s.First) {
			s.First = r.CreatedAt
		}
		if r.CreatedAt.After(s.Last) {
			s.Last = r.CreatedAt
		}
	}
	s.Datasets = len(datasets)

	for c, n := range counts {
		s.Countries = append(s.Countries, countryCount{Country: c, Runs: n})
	}
	sort.Slice(s.Countries, func(i, j int) bool {
		if s.Countries[i].Runs != s.Countries[j].Runs {
			return s.Countries[i].Runs > s.Countries[j].Runs
		}
		return s.Countries[i].Country < s.Countries[j].Country
	})
	return s
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATASET\tCOUNTRY\tYEAR\tTARGET\tPROJECTED\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-------\t-------\t----\t------\t---------\t-------")

	for _, r := range runs {
		projected := "-"
		if r.Result != nil && r.Result.Projection != nil {
			projected = fmt.Sprintf("%.0f", r.Result.Projection.Value)
		}

		ds := r.Dataset
		if len(ds) > 30 {
			ds = ds[:27] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			truncateID(r.ID),
			ds,
			r.Country,
			r.Year,
			r.TargetYear,
			projected,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// formatRunStats writes aggregate stats to w.
func formatRunStats(out io.Writer, s runStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total runs:\t%d\n", s.Total)
	_, _ = fmt.Fprintf(w, "Datasets:\t%d\n", s.Datasets)
	if s.Total > 0 {
		_, _ = fmt.Fprintf(w, "First run:\t%s\n", s.First.Format("2006-01-02 15:04"))
		_, _ = fmt.Fprintf(w, "Last run:\t%s\n", s.Last.Format("2006-01-02 15:04"))
	}
	for _, c := range s.Countries {
		_, _ = fmt.Fprintf(w, "  %s:\t%d\n", c.Country, c.Runs)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
