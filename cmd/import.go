package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the dataset's population values into the store",
	Long:  "Flattens the loaded table into one row per country and year and replaces the stored facts for the dataset.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("store"); err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = datasetName()
		}

		t, err := loadTable(ctx)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.ImportFacts(ctx, name, t)
		if err != nil {
			return err
		}

		total, err := st.CountFacts(ctx, name)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.String("dataset", name),
			zap.Int64("imported", n),
			zap.Int64("stored", total),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d facts into dataset %q (%d stored).\n", n, name, total)
		return nil
	},
}

func init() {
	importCmd.Flags().String("name", "", "dataset name to store facts under (default: dataset file name)")
	rootCmd.AddCommand(importCmd)
}
