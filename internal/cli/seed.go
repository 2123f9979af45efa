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

	"github.com/rafamarinsys/hilotools/internal/datagen"
	"github.com/rafamarinsys/hilotools/internal/logging"
)

var (
	seedDir       string
	seedSales     int
	seedInventory int
	seedHR        int
	seedRandom    uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate demo raw exports for an end-to-end run",
	Long: `Generate the three raw export workbooks (sales, inventory and HR)
with realistic messiness: mixed decimal locales, missing customer ids,
duplicate rows and product codes that cannot be joined. Use this to try
the pipeline without the real export files.

Example:
  hilotools seed
  hilotools seed --sales 20000 --random-seed 42`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedDir, "dir", "",
		"directory for the generated exports")
	seedCmd.Flags().IntVar(&seedSales, "sales", 0,
		"number of sales rows to generate")
	seedCmd.Flags().IntVar(&seedInventory, "inventory", 0,
		"number of inventory rows to generate")
	seedCmd.Flags().IntVar(&seedHR, "hr", 0,
		"number of HR review rows to generate")
	seedCmd.Flags().Uint64Var(&seedRandom, "random-seed", 0,
		"random seed for reproducible output (0 = random)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedDir != "" {
		cfg.Seed.Dir = seedDir
	}
	if seedSales > 0 {
		cfg.Seed.Sales = seedSales
	}
	if seedInventory > 0 {
		cfg.Seed.Inventory = seedInventory
	}
	if seedHR > 0 {
		cfg.Seed.HR = seedHR
	}
	if seedRandom != 0 {
		cfg.Seed.RandomSeed = seedRandom
	}

	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	res, err := datagen.NewSeeder(cfg.Seed).Run()
	if err != nil {
		return err
	}

	logging.Info().
		Str("sales", res.SalesPath).
		Str("inventory", res.InventoryPath).
		Str("hr", res.HRPath).
		Msg("Demo exports ready; run 'hilotools ingest' next")
	return nil
}
