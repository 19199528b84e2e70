package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/worldpop-cli/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export the summary and projection to JSON, YAML, CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]
		formatFlag, _ := cmd.Flags().GetString("format")
		country, _ := cmd.Flags().GetString("country")

		var format report.Format
		if formatFlag != "" {
			f, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			format = f
		}

		t, err := loadTable(ctx)
		if err != nil {
			return err
		}

		res, err := runReport(ctx, t, reportParams{
			Year:       cfg.Analysis.Year,
			TopN:       cfg.Analysis.TopN,
			Country:    countryArg([]string{country}),
			TargetYear: cfg.Analysis.TargetYear,
		})
		if err != nil {
			return err
		}

		if err := report.ExportFile(path, res, format); err != nil {
			return err
		}

		logDone("export complete", zap.String("path", path))
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "", "json, yaml, csv or xlsx (default from the file extension)")
	exportCmd.Flags().String("country", "", "country to project (default from config)")
	rootCmd.AddCommand(exportCmd)
}
