package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend [country]",
	Short: "Print a country's population over the census years",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		country := countryArg(args)

		t, err := loadTable(ctx)
		if err != nil {
			return err
		}

		series, err := analysis.Extract(t, country, analysis.CensusYears)
		if err != nil {
			return err
		}

		report.WriteTrend(cmd.OutOrStdout(), series)
		logDone("trend complete", zap.String("country", country), zap.Int("points", series.Len()))
		return nil
	},
}

// countryArg returns the positional country or the configured default.
func countryArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.Analysis.Country
}

func init() {
	rootCmd.AddCommand(trendCmd)
}
