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
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCAResult holds the principal component decomposition of the
// standardized feature matrix.
type PCAResult struct {
	// Components is the number of retained components.
	Components int

	// ExplainedRatio[i] is the fraction of total variance explained by
	// component i; CumulativeRatio is its running sum.
	ExplainedRatio  []float64
	CumulativeRatio []float64

	// Loadings is features x components: the weight of each input feature
	// in each retained component.
	Loadings *mat.Dense

	// Columns names the feature rows of Loadings.
	Columns []string
}

// Standardize scales each column of the matrix to zero mean and unit
// variance in place. Constant columns are centered only.
func Standardize(data [][]float64) {
	if len(data) == 0 {
		return
	}
	n := len(data)
	cols := len(data[0])
	col := make([]float64, n)
	for c := 0; c < cols; c++ {
		for r := 0; r < n; r++ {
			col[r] = data[r][c]
		}
		m := stat.Mean(col, nil)
		// Population variance, matching the usual scaler convention.
		var ss float64
		for r := 0; r < n; r++ {
			d := col[r] - m
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(n))
		for r := 0; r < n; r++ {
			data[r][c] -= m
			if sd > 0 {
				data[r][c] /= sd
			}
		}
	}
}

// PCA computes up to components principal components of the standardized
// feature matrix via singular value decomposition.
func PCA(fm *FeatureMatrix, components int) (*PCAResult, error) {
	n := len(fm.Data)
	if n == 0 {
		return nil, fmt.Errorf("feature matrix is empty; run the model stage first")
	}
	d := len(fm.Columns)
	if components > d {
		components = d
	}
	if components > n {
		components = n
	}
	if components < 1 {
		return nil, fmt.Errorf("no components to compute")
	}

	x := mat.NewDense(n, d, nil)
	for r, row := range fm.Data {
		x.SetRow(r, row)
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}

	sigma := svd.Values(nil)
	var total float64
	for _, s := range sigma {
		total += s * s
	}

	res := &PCAResult{
		Components: components,
		Columns:    fm.Columns,
	}
	var cumulative float64
	for i := 0; i < components; i++ {
		ratio := 0.0
		if total > 0 {
			ratio = sigma[i] * sigma[i] / total
		}
		cumulative += ratio
		res.ExplainedRatio = append(res.ExplainedRatio, ratio)
		res.CumulativeRatio = append(res.CumulativeRatio, cumulative)
	}

	var v mat.Dense
	svd.VTo(&v)
	res.Loadings = mat.NewDense(d, components, nil)
	for r := 0; r < d; r++ {
		for c := 0; c < components; c++ {
			res.Loadings.Set(r, c, v.At(r, c))
		}
	}
	return res, nil
}
