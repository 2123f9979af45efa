//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for hilotools.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/rafamarinsys/hilotools/internal/config"
	"github.com/rafamarinsys/hilotools/internal/logging"
	"github.com/rafamarinsys/hilotools/pkg/version"
)

var (
	// Global flags
	cfgFile      string
	warehouseLoc string
	processedDir string
	logLevel     string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "hilotools",
		Short: "Spreadsheet-to-warehouse data pipeline with customer analytics",
		Long: `hilotools ingests raw spreadsheet exports (sales, inventory and HR),
normalizes them into typed staging datasets, builds a star-schema warehouse
with RFM customer segmentation, and summarizes monthly activity with PCA.

The pipeline runs in three stages that can be executed independently:

  ingest     raw exports -> staging datasets
  model      staging datasets -> warehouse star schema
  analytics  warehouse -> monthly feature matrix and PCA reports

Use 'hilotools run' to execute all three stages in order.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./hilotools.yaml)")
	rootCmd.PersistentFlags().StringVar(&warehouseLoc, "warehouse", "",
		"warehouse location: SQLite file path or postgres:// connection string")
	rootCmd.PersistentFlags().StringVar(&processedDir, "processed-dir", "",
		"directory for staging datasets")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if warehouseLoc != "" {
		cfg.Warehouse = warehouseLoc
	}
	if processedDir != "" {
		cfg.ProcessedDir = processedDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
