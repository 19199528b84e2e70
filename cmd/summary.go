package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the world total, continent totals and the top-N countries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		year, _ := cmd.Flags().GetInt("year")
		topN, _ := cmd.Flags().GetInt("top")
		format, _ := cmd.Flags().GetString("format")
		if year == 0 {
			year = cfg.Analysis.Year
		}
		if topN == 0 {
			topN = cfg.Analysis.TopN
		}

		t, err := loadTable(ctx)
		if err != nil {
			return err
		}

		agg, err := analysis.Aggregate(t, year, topN)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(agg); err != nil {
				return fmt.Errorf("encode summary: %w", err)
			}
		case "text", "":
			report.WriteSummary(out, agg)
		default:
			return fmt.Errorf("unknown format %q (want text or json)", format)
		}

		logDone("summary complete", zap.Int("year", year), zap.Int64("world_total", agg.WorldTotal))
		return nil
	},
}

func init() {
	summaryCmd.Flags().Int("year", 0, "census year (default from config)")
	summaryCmd.Flags().Int("top", 0, "number of countries to rank (default from config)")
	summaryCmd.Flags().String("format", "text", "output format: text or json")
	rootCmd.AddCommand(summaryCmd)
}
