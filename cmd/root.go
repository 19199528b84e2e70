package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/worldpop-cli/internal/config"
)

var cfg *config.Config

var datasetFlag string

var rootCmd = &cobra.Command{
	Use:   "worldpop",
	Short: "World population statistics and projections",
	Long:  "Loads a world population table, aggregates it by continent and country, fits per-country growth trends, projects them forward, and renders charts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if datasetFlag != "" {
			c.Dataset.Path = datasetFlag
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&datasetFlag, "dataset", "", "dataset path or URL (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
