//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rafamarinsys/hilotools/internal/analytics"
	"github.com/rafamarinsys/hilotools/internal/logging"
	"github.com/rafamarinsys/hilotools/internal/warehouse"
)

var (
	analyticsComponents int
	analyticsOutDir     string
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Compute monthly features and PCA from the warehouse",
	Long: `Aggregate the warehouse fact tables into a monthly feature matrix,
standardize it, run principal component analysis, and write the feature
matrix, explained-variance and loadings CSVs to the output directory.

Example:
  hilotools analytics
  hilotools analytics --components 3 --out-dir report/2024-06`,
	RunE: runAnalytics,
}

func init() {
	analyticsCmd.Flags().IntVar(&analyticsComponents, "components", 0,
		"number of principal components to compute")
	analyticsCmd.Flags().StringVar(&analyticsOutDir, "out-dir", "",
		"directory for analytics CSV outputs")
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if analyticsComponents > 0 {
		cfg.Analytics.Components = analyticsComponents
	}
	if analyticsOutDir != "" {
		cfg.Analytics.OutDir = analyticsOutDir
	}

	if err := cfg.ValidateAnalytics(); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := warehouse.Open(ctx, cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer store.Close()

	res, err := analytics.Run(ctx, store, cfg.ProcessedDir, cfg.Analytics.OutDir, cfg.Analytics.Components)
	if err != nil {
		return err
	}

	logging.Info().
		Str("features", res.FeaturesPath).
		Str("explained_variance", res.ExplainedPath).
		Str("loadings", res.LoadingsPath).
		Msg("Analytics reports written")
	return nil
}
