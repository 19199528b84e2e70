package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/chart"
	"github.com/sells-group/worldpop-cli/internal/dataset"
	"github.com/sells-group/worldpop-cli/internal/model"
	"github.com/sells-group/worldpop-cli/internal/report"
)

type reportParams struct {
	Year       int
	TopN       int
	Country    string
	TargetYear int
}

var reportCmd = &cobra.Command{
	Use:   "report [country]",
	Short: "Run the full analysis: summary, trend, projection and charts",
	Long:  "Aggregates the table, projects one country's population, renders the charts, records the run in the store and prints the result.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		noSave, _ := cmd.Flags().GetBool("no-save")
		noCharts, _ := cmd.Flags().GetBool("no-charts")
		exportPath, _ := cmd.Flags().GetString("export")
		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.Chart.OutputDir
		}

		params := reportParams{
			Year:       cfg.Analysis.Year,
			TopN:       cfg.Analysis.TopN,
			Country:    countryArg(args),
			TargetYear: cfg.Analysis.TargetYear,
		}
		if v, _ := cmd.Flags().GetInt("year"); v != 0 {
			params.Year = v
		}
		if v, _ := cmd.Flags().GetInt("target"); v != 0 {
			params.TargetYear = v
		}

		mode := "analyze"
		if !noSave {
			mode = "store"
		}
		if err := cfg.Validate(mode); err != nil {
			return err
		}

		t, err := loadTable(ctx)
		if err != nil {
			return err
		}

		res, err := runReport(ctx, t, params)
		if err != nil {
			return err
		}

		if !noCharts {
			shapes, err := loadShapes()
			if err != nil {
				return err
			}
			cities, err := loadCities()
			if err != nil {
				return err
			}
			paths, err := chart.RenderAll(ctx, chart.Bundle{
				Table:      t,
				Aggregate:  res.Aggregate,
				Series:     *res.Series,
				Projection: res.Projection,
				Shapes:     shapes,
				Cities:     cities,
			}, outDir, chartOptions())
			if err != nil {
				return err
			}
			res.Charts = paths
		}

		if !noSave {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run, err := st.SaveRun(ctx, model.Run{
				Dataset:    datasetName(),
				Country:    params.Country,
				Year:       params.Year,
				TargetYear: params.TargetYear,
				Result:     res,
			})
			if err != nil {
				return err
			}
			zap.L().Info("run saved", zap.String("run_id", run.ID))
		}

		if exportPath != "" {
			if err := report.ExportFile(exportPath, res, ""); err != nil {
				return err
			}
		}

		report.WriteText(cmd.OutOrStdout(), res)
		logDone("report complete", zap.String("country", params.Country), zap.Int("charts", len(res.Charts)))
		return nil
	},
}

// runReport aggregates and projects concurrently over the shared table.
func runReport(ctx context.Context, t *dataset.Table, p reportParams) (*model.RunResult, error) {
	var (
		agg    *model.AggregateResult
		proj   *model.Projection
		series model.TrendSeries
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		agg, err = analysis.Aggregate(t, p.Year, p.TopN)
		if err != nil {
			return fmt.Errorf("aggregate %d: %w", p.Year, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		proj, series, err = analysis.Project(t, p.Country, analysis.CensusYears, p.TargetYear)
		if err != nil {
			return fmt.Errorf("project %s: %w", p.Country, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.RunResult{Aggregate: agg, Series: &series, Projection: proj}, nil
}

func init() {
	reportCmd.Flags().Int("year", 0, "census year for the summary (default from config)")
	reportCmd.Flags().Int("target", 0, "year to project to (default from config)")
	reportCmd.Flags().String("out", "", "chart output directory (default from config)")
	reportCmd.Flags().String("export", "", "also export the result to this file (.json, .yaml, .csv, .xlsx)")
	reportCmd.Flags().Bool("no-save", false, "do not record the run in the store")
	reportCmd.Flags().Bool("no-charts", false, "skip chart rendering")
	rootCmd.AddCommand(reportCmd)
}
