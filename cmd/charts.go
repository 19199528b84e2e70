package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/worldpop-cli/internal/chart"
)

var chartsCmd = &cobra.Command{
	Use:   "charts [country]",
	Short: "Render the bar, growth and choropleth charts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.Chart.OutputDir
		}
		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		t, err := loadTable(ctx)
		if err != nil {
			return err
		}

		res, err := runReport(ctx, t, reportParams{
			Year:       cfg.Analysis.Year,
			TopN:       cfg.Analysis.TopN,
			Country:    countryArg(args),
			TargetYear: cfg.Analysis.TargetYear,
		})
		if err != nil {
			return err
		}

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

		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		logDone("charts rendered", zap.String("dir", outDir), zap.Int("count", len(paths)))
		return nil
	},
}

func init() {
	chartsCmd.Flags().String("out", "", "output directory (default from config)")
	rootCmd.AddCommand(chartsCmd)
}
