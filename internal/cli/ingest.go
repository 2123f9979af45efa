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

	"github.com/rafamarinsys/hilotools/internal/ingest"
)

var (
	ingestSales     string
	ingestInventory string
	ingestHR        string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load raw spreadsheet exports into staging datasets",
	Long: `Load the raw sales, inventory and HR exports, normalize their
headers and value formats, drop duplicate and unusable rows, and write
the typed staging datasets to the processed directory.

Example:
  hilotools ingest --sales data/raw/ventas.xlsx
  hilotools ingest --processed-dir /tmp/staging`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSales, "sales", "",
		"sales export file (.xlsx or .csv)")
	ingestCmd.Flags().StringVar(&ingestInventory, "inventory", "",
		"inventory export file (.xlsx or .csv)")
	ingestCmd.Flags().StringVar(&ingestHR, "hr", "",
		"HR export file (.xlsx or .csv)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if ingestSales != "" {
		cfg.Sources.Sales = ingestSales
	}
	if ingestInventory != "" {
		cfg.Sources.Inventory = ingestInventory
	}
	if ingestHR != "" {
		cfg.Sources.HR = ingestHR
	}

	if err := cfg.ValidateIngest(); err != nil {
		return err
	}

	_, err := ingest.Run(cfg)
	return err
}
