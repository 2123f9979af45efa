//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rafamarinsys/hilotools/internal/logging"
	"github.com/rafamarinsys/hilotools/internal/staging"
	"github.com/rafamarinsys/hilotools/internal/warehouse"
)

// Options tunes a model run.
type Options struct {
	// ReferenceDate overrides the RFM segmentation reference date.
	// Zero means one day after the most recent sale.
	ReferenceDate time.Time
}

// Summary reports the outcome of a model run.
type Summary struct {
	DimDateRows       int
	DimProductRows    int
	DimCustomerRows   int
	DimStoreRows      int
	DimEmployeeRows   int
	FactSalesRows     int
	FactInventoryRows int
	Location          string
}

// BuildStar builds the full star schema from staging data and publishes it
// to the warehouse, replacing any prior contents table by table. There is
// no transactional rollback across tables: a failure mid-write leaves a
// mixed-version warehouse and callers recover by re-running the model stage.
func BuildStar(ctx context.Context, ds *staging.Datasets, store warehouse.Store, opts Options) (*Summary, error) {
	saleDates := make([]time.Time, 0, len(ds.Sales))
	for _, r := range ds.Sales {
		saleDates = append(saleDates, r.SaleDate)
	}

	reference := opts.ReferenceDate
	if reference.IsZero() {
		reference = DefaultReference(ds.Sales)
	}

	dimDate := BuildDimDate(saleDates)
	dimProduct := BuildDimProduct(ds.Sales, ds.Inventory)
	dimCustomer := BuildDimCustomer(ds.Sales, reference)
	dimStore := BuildDimStore(ds.Sales)
	dimEmployee := BuildDimEmployee(ds.HR)
	factSales := BuildFactSales(ds.Sales, dimProduct, dimCustomer, dimStore)
	factInventory := BuildFactInventory(ds.Inventory)

	tables := []warehouse.Table{
		DimDateTable(dimDate),
		DimProductTable(dimProduct),
		DimCustomerTable(dimCustomer),
		DimStoreTable(dimStore),
		DimEmployeeTable(dimEmployee),
		FactSalesTable(factSales),
		FactInventoryTable(factInventory),
	}
	for _, t := range tables {
		if err := store.Replace(ctx, t); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", t.Name, err)
		}
		logging.Info().
			Str("table", t.Name).
			Int("rows", len(t.Rows)).
			Msg("Published table")
	}

	return &Summary{
		DimDateRows:       len(dimDate),
		DimProductRows:    len(dimProduct),
		DimCustomerRows:   len(dimCustomer),
		DimStoreRows:      len(dimStore),
		DimEmployeeRows:   len(dimEmployee),
		FactSalesRows:     len(factSales),
		FactInventoryRows: len(factInventory),
		Location:          store.Location(),
	}, nil
}
