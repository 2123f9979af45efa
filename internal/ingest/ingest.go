//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package ingest loads raw spreadsheet exports, normalizes their columns
// into the staging schema, coerces numbers and dates, deduplicates, and
// writes the staging datasets the model stage consumes.
package ingest

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rafamarinsys/hilotools/internal/config"
	"github.com/rafamarinsys/hilotools/internal/logging"
	"github.com/rafamarinsys/hilotools/internal/staging"
)

// Result reports the outcome of an ingest run.
type Result struct {
	SalesRows     int
	InventoryRows int
	HRRows        int
	ProcessedDir  string
}

// Run ingests the three raw exports configured in cfg and writes the
// staging datasets to the processed directory. A missing raw file is fatal.
func Run(cfg *config.Config) (*Result, error) {
	sales, err := loadSales(cfg.Sources.Sales, cfg.Columns.Sales)
	if err != nil {
		return nil, err
	}
	inventory, err := loadInventory(cfg.Sources.Inventory, cfg.Columns.Inventory)
	if err != nil {
		return nil, err
	}
	hr, err := loadHR(cfg.Sources.HR, cfg.Columns.HR)
	if err != nil {
		return nil, err
	}

	ds := &staging.Datasets{Sales: sales, Inventory: inventory, HR: hr}
	if err := staging.Write(cfg.ProcessedDir, ds); err != nil {
		return nil, err
	}

	logging.Info().
		Int("sales", len(sales)).
		Int("inventory", len(inventory)).
		Int("hr", len(hr)).
		Str("processed_dir", cfg.ProcessedDir).
		Msg("Ingest complete")

	return &Result{
		SalesRows:     len(sales),
		InventoryRows: len(inventory),
		HRRows:        len(hr),
		ProcessedDir:  cfg.ProcessedDir,
	}, nil
}

func loadSales(path string, columns map[string]string) ([]staging.SalesRecord, error) {
	table, err := loadNormalized(path, columns)
	if err != nil {
		return nil, fmt.Errorf("sales: %w", err)
	}

	var records []staging.SalesRecord
	seen := make(map[string]bool)
	for _, row := range table {
		id, ok := parseID(row["sale_id"])
		if !ok {
			logging.Warn().Str("file", filepath.Base(path)).Msg("Skipping sales row without sale_id")
			continue
		}
		r := staging.SalesRecord{
			SaleID:          id,
			SaleDate:        parseDate(row["sale_date"]),
			CustomerID:      parseNullID(row["customer_id"]),
			ProductID:       parseNullID(row["product_id"]),
			StoreID:         parseNullID(row["store_id"]),
			Quantity:        parseNullDecimal(row["quantity"]),
			UnitPrice:       parseNullDecimal(row["unit_price"]),
			DiscountPercent: parseNullDecimal(row["discount_percent"]),
			SalesAmount:     parseNullDecimal(row["sales_amount"]),
			ProfitMargin:    parseNullDecimal(row["profit_margin"]),
		}
		key := dedupKey(formatInt(r.SaleID), keyDate(r.SaleDate),
			keyNullInt(r.CustomerID), keyNullInt(r.ProductID),
			keyNullInt(r.StoreID), keyNullDec(r.Quantity),
			keyNullDec(r.UnitPrice), keyNullDec(r.DiscountPercent),
			keyNullDec(r.SalesAmount), keyNullDec(r.ProfitMargin))
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, r)
	}
	return records, nil
}

func loadInventory(path string, columns map[string]string) ([]staging.InventoryRecord, error) {
	table, err := loadNormalized(path, columns)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}

	var records []staging.InventoryRecord
	seen := make(map[string]bool)
	for _, row := range table {
		id, ok := parseID(row["inventory_id"])
		if !ok {
			logging.Warn().Str("file", filepath.Base(path)).Msg("Skipping inventory row without inventory_id")
			continue
		}
		r := staging.InventoryRecord{
			InventoryID:  id,
			SnapshotDate: parseDate(row["snapshot_date"]),
			ProductCode:  strings.TrimSpace(row["product_code"]),
			CategoryID:   parseNullID(row["category_id"]),
			WarehouseID:  parseNullID(row["warehouse_id"]),
			StockQty:     parseNullDecimal(row["stock_qty"]),
			ReorderLevel: parseNullDecimal(row["reorder_level"]),
			UnitCost:     parseNullDecimal(row["unit_cost"]),
			TotalValue:   parseNullDecimal(row["total_value"]),
		}
		key := dedupKey(formatInt(r.InventoryID), keyDate(r.SnapshotDate),
			r.ProductCode, keyNullInt(r.CategoryID), keyNullInt(r.WarehouseID),
			keyNullDec(r.StockQty), keyNullDec(r.ReorderLevel),
			keyNullDec(r.UnitCost), keyNullDec(r.TotalValue))
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, r)
	}
	return records, nil
}

func loadHR(path string, columns map[string]string) ([]staging.HRRecord, error) {
	table, err := loadNormalized(path, columns)
	if err != nil {
		return nil, fmt.Errorf("hr: %w", err)
	}

	var records []staging.HRRecord
	seen := make(map[string]bool)
	for _, row := range table {
		id, ok := parseID(row["employee_id"])
		if !ok {
			logging.Warn().Str("file", filepath.Base(path)).Msg("Skipping hr row without employee_id")
			continue
		}
		r := staging.HRRecord{
			EmployeeID:       id,
			DepartmentID:     parseNullID(row["department_id"]),
			Salary:           parseNullDecimal(row["salary"]),
			Bonus:            parseNullDecimal(row["bonus"]),
			ReviewDate:       parseDate(row["review_date"]),
			PerformanceScore: parseNullDecimal(row["performance_score"]),
			HoursWorked:      parseNullDecimal(row["hours_worked"]),
			OvertimeHours:    parseNullDecimal(row["overtime_hours"]),
		}
		key := dedupKey(formatInt(r.EmployeeID), keyNullInt(r.DepartmentID),
			keyNullDec(r.Salary), keyNullDec(r.Bonus), keyDate(r.ReviewDate),
			keyNullDec(r.PerformanceScore), keyNullDec(r.HoursWorked),
			keyNullDec(r.OvertimeHours))
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, r)
	}
	return records, nil
}

// loadNormalized reads a raw export and applies the column rename map,
// returning one map per row keyed by staging column name. Raw columns not
// covered by the map are dropped; mapped columns absent from the file read
// as empty.
func loadNormalized(path string, columns map[string]string) ([]map[string]string, error) {
	header, rows, err := loadTable(path)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	for i, raw := range header {
		if target, ok := columns[strings.TrimSpace(raw)]; ok {
			index[target] = i
		}
	}

	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(index))
		for target, i := range index {
			if i < len(row) {
				m[target] = row[i]
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// loadTable reads an .xlsx workbook (first sheet) or a .csv file into a
// header row and data rows.
func loadTable(path string) ([]string, [][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("missing required file %s: %w", path, err)
	}

	var all [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open workbook %s: %w", path, err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		all, err = f.GetRows(sheets[0])
		if err != nil {
			return nil, nil, fmt.Errorf("could not read workbook %s: %w", path, err)
		}
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open %s: %w", path, err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		all, err = reader.ReadAll()
		if err != nil {
			return nil, nil, fmt.Errorf("could not read %s: %w", path, err)
		}
	}

	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}
	return all[0], all[1:], nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01-02-06",
	"1/2/06 15:04",
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

func parseID(s string) (int64, bool) {
	d, ok := ParseDecimal(s)
	if !ok {
		return 0, false
	}
	return d.IntPart(), true
}

func parseNullID(s string) sql.NullInt64 {
	id, ok := parseID(s)
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

func parseNullDecimal(s string) decimal.NullDecimal {
	d, ok := ParseDecimal(s)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func dedupKey(fields ...string) string {
	return strings.Join(fields, "\x1f")
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func keyNullInt(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}

func keyNullDec(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

func keyDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(staging.DateLayout)
}
