//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package analytics

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rafamarinsys/hilotools/internal/logging"
	"github.com/rafamarinsys/hilotools/internal/staging"
	"github.com/rafamarinsys/hilotools/internal/warehouse"
)

// Output file names within the analytics out directory.
const (
	FeaturesFile  = "features_monthly.csv"
	ExplainedFile = "pca_explained_variance.csv"
	LoadingsFile  = "pca_loadings.csv"
)

// Result reports the outcome of an analytics run.
type Result struct {
	FeaturesPath  string
	ExplainedPath string
	LoadingsPath  string
	Rows          int
	Features      int
}

// Run builds the monthly feature matrix from the warehouse, summarizes it
// with PCA and writes the CSV outputs to outDir. processedDir supplies the
// HR staging dataset; HR columns are zero-filled when it is absent.
func Run(ctx context.Context, store warehouse.Store, processedDir, outDir string, components int) (*Result, error) {
	hr, err := staging.ReadHR(processedDir)
	if err != nil {
		logging.Warn().Err(err).Msg("HR staging not available; HR features will be zero-filled")
		hr = nil
	}

	fm, err := BuildFeatures(ctx, store, hr)
	if err != nil {
		return nil, err
	}
	if len(fm.Data) == 0 {
		return nil, fmt.Errorf("no monthly features found; check that the model stage populated the warehouse")
	}
	fm.FillMedians()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create out dir: %w", err)
	}
	featuresPath := filepath.Join(outDir, FeaturesFile)
	if err := writeFeaturesCSV(featuresPath, fm); err != nil {
		return nil, err
	}

	Standardize(fm.Data)
	pca, err := PCA(fm, components)
	if err != nil {
		return nil, err
	}

	explainedPath := filepath.Join(outDir, ExplainedFile)
	if err := writeExplainedCSV(explainedPath, pca); err != nil {
		return nil, err
	}
	loadingsPath := filepath.Join(outDir, LoadingsFile)
	if err := writeLoadingsCSV(loadingsPath, pca); err != nil {
		return nil, err
	}

	logging.Info().
		Int("months", len(fm.Months)).
		Int("features", len(fm.Columns)).
		Int("components", pca.Components).
		Msg("Analytics complete")

	return &Result{
		FeaturesPath:  featuresPath,
		ExplainedPath: explainedPath,
		LoadingsPath:  loadingsPath,
		Rows:          len(fm.Months),
		Features:      len(fm.Columns),
	}, nil
}

func writeFeaturesCSV(path string, fm *FeatureMatrix) error {
	header := append([]string{"month"}, fm.Columns...)
	rows := make([][]string, 0, len(fm.Months))
	for i, m := range fm.Months {
		row := make([]string, 0, len(header))
		row = append(row, m.Format("2006-01-02"))
		for _, v := range fm.Data[i] {
			row = append(row, formatFloat(v))
		}
		rows = append(rows, row)
	}
	return writeCSV(path, header, rows)
}

func writeExplainedCSV(path string, pca *PCAResult) error {
	header := []string{"component", "explained_variance_ratio", "cumulative_variance"}
	rows := make([][]string, 0, pca.Components)
	for i := 0; i < pca.Components; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("PC%d", i+1),
			formatFloat(pca.ExplainedRatio[i]),
			formatFloat(pca.CumulativeRatio[i]),
		})
	}
	return writeCSV(path, header, rows)
}

func writeLoadingsCSV(path string, pca *PCAResult) error {
	header := make([]string, 0, pca.Components+1)
	header = append(header, "feature")
	for i := 0; i < pca.Components; i++ {
		header = append(header, fmt.Sprintf("PC%d", i+1))
	}
	rows := make([][]string, 0, len(pca.Columns))
	for r, col := range pca.Columns {
		row := make([]string, 0, len(header))
		row = append(row, col)
		for c := 0; c < pca.Components; c++ {
			row = append(row, formatFloat(pca.Loadings.At(r, c)))
		}
		rows = append(rows, row)
	}
	return writeCSV(path, header, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("could not write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
