package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/report"
)

var projectCmd = &cobra.Command{
	Use:   "project [country]",
	Short: "Fit a linear trend to a country's population and project it forward",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		country := countryArg(args)
		target, _ := cmd.Flags().GetInt("target")
		if target == 0 {
			target = cfg.Analysis.TargetYear
		}

		t, err := loadTable(ctx)
		if err != nil {
			return err
		}

		proj, series, err := analysis.Project(t, country, analysis.CensusYears, target)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report.WriteTrend(out, series)
		report.WriteProjection(out, proj)

		logDone("projection complete",
			zap.String("country", country),
			zap.Int("target_year", target),
			zap.Float64("value", proj.Value),
		)
		return nil
	},
}

func init() {
	projectCmd.Flags().Int("target", 0, "year to project to (default from config)")
	rootCmd.AddCommand(projectCmd)
}
