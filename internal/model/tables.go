//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package model implements the star-schema modeling stage: dimension and
// fact builders over the staging datasets, RFM customer segmentation, and
// the replace-on-write publication into the warehouse.
package model

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafamarinsys/hilotools/internal/warehouse"
)

// Warehouse table names.
const (
	TableDimDate       = "dim_date"
	TableDimProduct    = "dim_product"
	TableDimCustomer   = "dim_customer"
	TableDimStore      = "dim_store"
	TableDimEmployee   = "dim_employee"
	TableFactSales     = "fact_sales"
	TableFactInventory = "fact_inventory_snapshot"
)

// SentinelKey is the reserved surrogate key for the "unknown" dimension row.
// Facts point at it whenever a natural key is missing or unresolvable.
const SentinelKey = 0

// DimDateRow is one calendar day of the date dimension.
type DimDateRow struct {
	DateID     int64
	Date       time.Time
	Year       int
	Quarter    int
	Month      int
	DayOfMonth int
	DayOfWeek  int // 1=Monday .. 7=Sunday
	IsWeekend  bool
}

// DimProductRow is one product identity.
type DimProductRow struct {
	ProductKey  int64
	ProductID   int64
	ProductCode string
	CategoryID  sql.NullInt64
}

// DimCustomerRow is one customer with RFM segmentation attached. All
// numeric fields are null on the sentinel row.
type DimCustomerRow struct {
	CustomerKey  int64
	RecencyDays  sql.NullInt64
	Frequency    sql.NullInt64
	Monetary     decimal.NullDecimal
	RScore       sql.NullInt64
	FScore       sql.NullInt64
	MScore       sql.NullInt64
	SegmentScore sql.NullInt64
	SegmentLabel string
}

// DimStoreRow is one store.
type DimStoreRow struct {
	StoreKey  int64
	StoreID   int64
	StoreName string
	StoreType string
}

// DimEmployeeRow is one employee aggregated over their HR reviews.
type DimEmployeeRow struct {
	EmployeeKey  int64
	EmployeeID   int64
	DepartmentID sql.NullInt64
	Salary       decimal.NullDecimal
	Bonus        decimal.NullDecimal
}

// FactSalesRow is one sales transaction projected into the star schema.
type FactSalesRow struct {
	SaleID          int64
	DateID          int64
	ProductKey      int64
	CustomerKey     int64
	StoreKey        int64
	EmployeeKey     int64
	Quantity        decimal.NullDecimal
	UnitPrice       decimal.NullDecimal
	DiscountPercent decimal.NullDecimal
	SalesAmount     decimal.NullDecimal
	ProfitMargin    decimal.NullDecimal
}

// FactInventoryRow is one inventory snapshot projected into the star schema.
type FactInventoryRow struct {
	InventoryID  int64
	DateID       int64
	ProductKey   int64
	WarehouseKey int64
	StockQty     decimal.NullDecimal
	ReorderLevel decimal.NullDecimal
	UnitCost     decimal.NullDecimal
	TotalValue   decimal.NullDecimal
}

// DimDateTable projects the date dimension into a warehouse table.
func DimDateTable(rows []DimDateRow) warehouse.Table {
	t := warehouse.Table{
		Name: TableDimDate,
		Columns: []warehouse.Column{
			{Name: "date_id", Type: warehouse.Integer},
			{Name: "date", Type: warehouse.Date},
			{Name: "year", Type: warehouse.Integer},
			{Name: "quarter", Type: warehouse.Integer},
			{Name: "month", Type: warehouse.Integer},
			{Name: "day_of_month", Type: warehouse.Integer},
			{Name: "day_of_week", Type: warehouse.Integer},
			{Name: "is_weekend", Type: warehouse.Bool},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.DateID, r.Date, r.Year, r.Quarter,
			r.Month, r.DayOfMonth, r.DayOfWeek, r.IsWeekend})
	}
	return t
}

// DimProductTable projects the product dimension into a warehouse table.
func DimProductTable(rows []DimProductRow) warehouse.Table {
	t := warehouse.Table{
		Name: TableDimProduct,
		Columns: []warehouse.Column{
			{Name: "product_key", Type: warehouse.Integer},
			{Name: "product_id", Type: warehouse.Integer},
			{Name: "product_code", Type: warehouse.Text},
			{Name: "category_id", Type: warehouse.Integer},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.ProductKey, r.ProductID, r.ProductCode,
			r.CategoryID})
	}
	return t
}

// DimCustomerTable projects the customer dimension into a warehouse table.
func DimCustomerTable(rows []DimCustomerRow) warehouse.Table {
	t := warehouse.Table{
		Name: TableDimCustomer,
		Columns: []warehouse.Column{
			{Name: "customer_key", Type: warehouse.Integer},
			{Name: "recency_days", Type: warehouse.Integer},
			{Name: "frequency", Type: warehouse.Integer},
			{Name: "monetary", Type: warehouse.Numeric},
			{Name: "r_score", Type: warehouse.Integer},
			{Name: "f_score", Type: warehouse.Integer},
			{Name: "m_score", Type: warehouse.Integer},
			{Name: "segment_score", Type: warehouse.Integer},
			{Name: "segment_label", Type: warehouse.Text},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.CustomerKey, r.RecencyDays, r.Frequency,
			r.Monetary, r.RScore, r.FScore, r.MScore, r.SegmentScore,
			r.SegmentLabel})
	}
	return t
}

// DimStoreTable projects the store dimension into a warehouse table.
func DimStoreTable(rows []DimStoreRow) warehouse.Table {
	t := warehouse.Table{
		Name: TableDimStore,
		Columns: []warehouse.Column{
			{Name: "store_key", Type: warehouse.Integer},
			{Name: "store_id", Type: warehouse.Integer},
			{Name: "store_name", Type: warehouse.Text},
			{Name: "store_type", Type: warehouse.Text},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.StoreKey, r.StoreID, r.StoreName, r.StoreType})
	}
	return t
}

// DimEmployeeTable projects the employee dimension into a warehouse table.
func DimEmployeeTable(rows []DimEmployeeRow) warehouse.Table {
	t := warehouse.Table{
		Name: TableDimEmployee,
		Columns: []warehouse.Column{
			{Name: "employee_key", Type: warehouse.Integer},
			{Name: "employee_id", Type: warehouse.Integer},
			{Name: "department_id", Type: warehouse.Integer},
			{Name: "salary", Type: warehouse.Numeric},
			{Name: "bonus", Type: warehouse.Numeric},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.EmployeeKey, r.EmployeeID, r.DepartmentID,
			r.Salary, r.Bonus})
	}
	return t
}

// FactSalesTable projects the sales fact into a warehouse table.
func FactSalesTable(rows []FactSalesRow) warehouse.Table {
	t := warehouse.Table{
		Name: TableFactSales,
		Columns: []warehouse.Column{
			{Name: "sale_id", Type: warehouse.Integer},
			{Name: "date_id", Type: warehouse.Integer},
			{Name: "product_key", Type: warehouse.Integer},
			{Name: "customer_key", Type: warehouse.Integer},
			{Name: "store_key", Type: warehouse.Integer},
			{Name: "employee_key", Type: warehouse.Integer},
			{Name: "quantity", Type: warehouse.Numeric},
			{Name: "unit_price", Type: warehouse.Numeric},
			{Name: "discount_percent", Type: warehouse.Numeric},
			{Name: "sales_amount", Type: warehouse.Numeric},
			{Name: "profit_margin", Type: warehouse.Numeric},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.SaleID, r.DateID, r.ProductKey,
			r.CustomerKey, r.StoreKey, r.EmployeeKey, r.Quantity, r.UnitPrice,
			r.DiscountPercent, r.SalesAmount, r.ProfitMargin})
	}
	return t
}

// FactInventoryTable projects the inventory fact into a warehouse table.
func FactInventoryTable(rows []FactInventoryRow) warehouse.Table {
	t := warehouse.Table{
		Name: TableFactInventory,
		Columns: []warehouse.Column{
			{Name: "inventory_id", Type: warehouse.Integer},
			{Name: "date_id", Type: warehouse.Integer},
			{Name: "product_key", Type: warehouse.Integer},
			{Name: "warehouse_key", Type: warehouse.Integer},
			{Name: "stock_qty", Type: warehouse.Numeric},
			{Name: "reorder_level", Type: warehouse.Numeric},
			{Name: "unit_cost", Type: warehouse.Numeric},
			{Name: "total_value", Type: warehouse.Numeric},
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.InventoryID, r.DateID, r.ProductKey,
			r.WarehouseKey, r.StockQty, r.ReorderLevel, r.UnitCost, r.TotalValue})
	}
	return t
}
