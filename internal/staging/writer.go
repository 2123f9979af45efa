//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package staging

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	salesHeader = []string{"sale_id", "sale_date", "customer_id", "product_id",
		"store_id", "quantity", "unit_price", "discount_percent", "sales_amount",
		"profit_margin"}
	inventoryHeader = []string{"inventory_id", "snapshot_date", "product_code",
		"category_id", "warehouse_id", "stock_qty", "reorder_level", "unit_cost",
		"total_value"}
	hrHeader = []string{"employee_id", "department_id", "salary", "bonus",
		"review_date", "performance_score", "hours_worked", "overtime_hours"}
)

// Write persists all three staging datasets to dir, creating it if needed.
func Write(dir string, ds *Datasets) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create processed dir: %w", err)
	}
	if err := WriteSales(dir, ds.Sales); err != nil {
		return err
	}
	if err := WriteInventory(dir, ds.Inventory); err != nil {
		return err
	}
	return WriteHR(dir, ds.HR)
}

// WriteSales persists the sales staging dataset.
func WriteSales(dir string, records []SalesRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			formatInt(r.SaleID),
			formatDate(r.SaleDate),
			formatNullInt(r.CustomerID),
			formatNullInt(r.ProductID),
			formatNullInt(r.StoreID),
			formatNullDec(r.Quantity),
			formatNullDec(r.UnitPrice),
			formatNullDec(r.DiscountPercent),
			formatNullDec(r.SalesAmount),
			formatNullDec(r.ProfitMargin),
		})
	}
	return writeCSV(filepath.Join(dir, SalesFile), salesHeader, rows)
}

// WriteInventory persists the inventory staging dataset.
func WriteInventory(dir string, records []InventoryRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			formatInt(r.InventoryID),
			formatDate(r.SnapshotDate),
			r.ProductCode,
			formatNullInt(r.CategoryID),
			formatNullInt(r.WarehouseID),
			formatNullDec(r.StockQty),
			formatNullDec(r.ReorderLevel),
			formatNullDec(r.UnitCost),
			formatNullDec(r.TotalValue),
		})
	}
	return writeCSV(filepath.Join(dir, InventoryFile), inventoryHeader, rows)
}

// WriteHR persists the HR staging dataset.
func WriteHR(dir string, records []HRRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			formatInt(r.EmployeeID),
			formatNullInt(r.DepartmentID),
			formatNullDec(r.Salary),
			formatNullDec(r.Bonus),
			formatDate(r.ReviewDate),
			formatNullDec(r.PerformanceScore),
			formatNullDec(r.HoursWorked),
			formatNullDec(r.OvertimeHours),
		})
	}
	return writeCSV(filepath.Join(dir, HRFile), hrHeader, rows)
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

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatNullInt(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}

func formatNullDec(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
