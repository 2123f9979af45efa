//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package staging defines the cleaned tabular datasets exchanged between
// the ingest and model stages, and their CSV persistence.
package staging

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Dataset file names within the processed directory.
const (
	SalesFile     = "stg_sales.csv"
	InventoryFile = "stg_inventory.csv"
	HRFile        = "stg_hr.csv"
)

// SalesRecord is one cleaned sales transaction.
// A zero SaleDate means the export carried no parseable date.
type SalesRecord struct {
	SaleID          int64
	SaleDate        time.Time
	CustomerID      sql.NullInt64
	ProductID       sql.NullInt64
	StoreID         sql.NullInt64
	Quantity        decimal.NullDecimal
	UnitPrice       decimal.NullDecimal
	DiscountPercent decimal.NullDecimal
	SalesAmount     decimal.NullDecimal
	ProfitMargin    decimal.NullDecimal
}

// InventoryRecord is one cleaned inventory snapshot row.
type InventoryRecord struct {
	InventoryID  int64
	SnapshotDate time.Time
	ProductCode  string
	CategoryID   sql.NullInt64
	WarehouseID  sql.NullInt64
	StockQty     decimal.NullDecimal
	ReorderLevel decimal.NullDecimal
	UnitCost     decimal.NullDecimal
	TotalValue   decimal.NullDecimal
}

// HRRecord is one cleaned HR review row.
type HRRecord struct {
	EmployeeID       int64
	DepartmentID     sql.NullInt64
	Salary           decimal.NullDecimal
	Bonus            decimal.NullDecimal
	ReviewDate       time.Time
	PerformanceScore decimal.NullDecimal
	HoursWorked      decimal.NullDecimal
	OvertimeHours    decimal.NullDecimal
}

// Datasets bundles the three staging datasets consumed by the model stage.
type Datasets struct {
	Sales     []SalesRecord
	Inventory []InventoryRecord
	HR        []HRRecord
}

// Int wraps a present integer value.
func Int(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

// Dec wraps a present decimal value.
func Dec(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// DecFloat wraps a present decimal value built from a float.
func DecFloat(f float64) decimal.NullDecimal {
	return Dec(decimal.NewFromFloat(f))
}
