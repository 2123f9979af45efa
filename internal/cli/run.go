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
	"github.com/spf13/cobra"

	"github.com/rafamarinsys/hilotools/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: ingest, model, analytics",
	Long: `Run all three pipeline stages in order. Each stage uses the same
configuration it would use when run individually, so a full run is
equivalent to 'hilotools ingest && hilotools model && hilotools analytics'.

Example:
  hilotools run
  hilotools run --warehouse data/warehouse/warehouse.db --log-level debug`,
	RunE: runAll,
}

func runAll(cmd *cobra.Command, args []string) error {
	ingestLog := logging.Stage("ingest")
	ingestLog.Info().Msg("Stage 1/3")
	if err := runIngest(cmd, args); err != nil {
		return err
	}

	modelLog := logging.Stage("model")
	modelLog.Info().Msg("Stage 2/3")
	if err := runModel(cmd, args); err != nil {
		return err
	}

	analyticsLog := logging.Stage("analytics")
	analyticsLog.Info().Msg("Stage 3/3")
	if err := runAnalytics(cmd, args); err != nil {
		return err
	}

	logging.Info().Msg("Pipeline complete")
	return nil
}
