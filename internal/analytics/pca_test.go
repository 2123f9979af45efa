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
	"math"
	"testing"
	"time"
)

func monthStart(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func sampleMatrix() *FeatureMatrix {
	return &FeatureMatrix{
		Months: []time.Time{
			monthStart(2024, time.January),
			monthStart(2024, time.February),
			monthStart(2024, time.March),
			monthStart(2024, time.April),
		},
		Columns: []string{"a", "b", "c"},
		Data: [][]float64{
			{1, 10, 5},
			{2, 20, 5},
			{3, 30, 5},
			{4, 40, 5},
		},
	}
}

func TestStandardize(t *testing.T) {
	fm := sampleMatrix()
	Standardize(fm.Data)

	for c := 0; c < 3; c++ {
		var total float64
		for r := range fm.Data {
			total += fm.Data[r][c]
		}
		if math.Abs(total) > 1e-9 {
			t.Errorf("Column %d mean not zero after standardize: %v", c, total/4)
		}
	}
	// Constant column is centered but not divided by a zero deviation.
	for r := range fm.Data {
		if fm.Data[r][2] != 0 {
			t.Errorf("Constant column row %d = %v, want 0", r, fm.Data[r][2])
		}
		if math.IsNaN(fm.Data[r][0]) || math.IsInf(fm.Data[r][0], 0) {
			t.Errorf("Standardized value is not finite: %v", fm.Data[r][0])
		}
	}
}

func TestPCAExplainedVariance(t *testing.T) {
	fm := sampleMatrix()
	Standardize(fm.Data)

	res, err := PCA(fm, 3)
	if err != nil {
		t.Fatalf("PCA failed: %v", err)
	}

	if res.Components != 3 {
		t.Fatalf("Components = %d, want 3", res.Components)
	}
	var total float64
	for i, r := range res.ExplainedRatio {
		if r < 0 || r > 1 {
			t.Errorf("Ratio %d = %v out of [0, 1]", i, r)
		}
		if i > 0 && r > res.ExplainedRatio[i-1]+1e-12 {
			t.Errorf("Ratios must be non-increasing: %v", res.ExplainedRatio)
		}
		total += r
	}
	if total > 1+1e-9 {
		t.Errorf("Ratios sum to %v > 1", total)
	}
	last := res.CumulativeRatio[len(res.CumulativeRatio)-1]
	if math.Abs(last-total) > 1e-9 {
		t.Errorf("Cumulative ratio = %v, want %v", last, total)
	}

	// Columns a and b are perfectly correlated, c is constant: one
	// component carries all the variance.
	if res.ExplainedRatio[0] < 0.99 {
		t.Errorf("First component ratio = %v, want ~1", res.ExplainedRatio[0])
	}

	rows, cols := res.Loadings.Dims()
	if rows != 3 || cols != 3 {
		t.Errorf("Loadings dims = %dx%d, want 3x3", rows, cols)
	}
}

func TestPCAClampsComponents(t *testing.T) {
	fm := sampleMatrix()
	Standardize(fm.Data)

	res, err := PCA(fm, 10)
	if err != nil {
		t.Fatalf("PCA failed: %v", err)
	}
	// Requested more components than features: clamped to 3.
	if res.Components != 3 {
		t.Errorf("Components = %d, want clamp to 3", res.Components)
	}
}

func TestPCAEmptyMatrix(t *testing.T) {
	fm := &FeatureMatrix{Columns: []string{"a"}}
	if _, err := PCA(fm, 2); err == nil {
		t.Error("PCA of an empty matrix should fail")
	}
}

func TestFillMedians(t *testing.T) {
	nan := math.NaN()
	fm := &FeatureMatrix{
		Columns: []string{"a", "b"},
		Data: [][]float64{
			{1, nan},
			{nan, nan},
			{3, nan},
		},
	}
	fm.FillMedians()

	if fm.Data[1][0] != 2 {
		t.Errorf("Median fill = %v, want 2", fm.Data[1][0])
	}
	// A column with no observations falls back to zero.
	for r := range fm.Data {
		if fm.Data[r][1] != 0 {
			t.Errorf("Empty column row %d = %v, want 0", r, fm.Data[r][1])
		}
	}
}
