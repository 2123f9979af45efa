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

// DateLayout is the calendar date format used in staging files.
const DateLayout = "2006-01-02"

// Read loads all three staging datasets from dir. A missing dataset file
// is fatal: the model stage must never run on a partial staging area.
func Read(dir string) (*Datasets, error) {
	sales, err := ReadSales(dir)
	if err != nil {
		return nil, err
	}
	inventory, err := ReadInventory(dir)
	if err != nil {
		return nil, err
	}
	hr, err := ReadHR(dir)
	if err != nil {
		return nil, err
	}
	return &Datasets{Sales: sales, Inventory: inventory, HR: hr}, nil
}

// ReadSales loads the sales staging dataset from dir.
func ReadSales(dir string) ([]SalesRecord, error) {
	rows, err := readCSV(filepath.Join(dir, SalesFile), 10)
	if err != nil {
		return nil, fmt.Errorf("could not load staging dataset sales: %w", err)
	}
	records := make([]SalesRecord, 0, len(rows))
	for i, row := range rows {
		r := SalesRecord{}
		r.SaleID, err = parseInt(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad sale_id: %w", SalesFile, i+2, err)
		}
		r.SaleDate = parseDate(row[1])
		r.CustomerID = parseNullInt(row[2])
		r.ProductID = parseNullInt(row[3])
		r.StoreID = parseNullInt(row[4])
		r.Quantity = parseNullDec(row[5])
		r.UnitPrice = parseNullDec(row[6])
		r.DiscountPercent = parseNullDec(row[7])
		r.SalesAmount = parseNullDec(row[8])
		r.ProfitMargin = parseNullDec(row[9])
		records = append(records, r)
	}
	return records, nil
}

// ReadInventory loads the inventory staging dataset from dir.
func ReadInventory(dir string) ([]InventoryRecord, error) {
	rows, err := readCSV(filepath.Join(dir, InventoryFile), 9)
	if err != nil {
		return nil, fmt.Errorf("could not load staging dataset inventory: %w", err)
	}
	records := make([]InventoryRecord, 0, len(rows))
	for i, row := range rows {
		r := InventoryRecord{}
		r.InventoryID, err = parseInt(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad inventory_id: %w", InventoryFile, i+2, err)
		}
		r.SnapshotDate = parseDate(row[1])
		r.ProductCode = row[2]
		r.CategoryID = parseNullInt(row[3])
		r.WarehouseID = parseNullInt(row[4])
		r.StockQty = parseNullDec(row[5])
		r.ReorderLevel = parseNullDec(row[6])
		r.UnitCost = parseNullDec(row[7])
		r.TotalValue = parseNullDec(row[8])
		records = append(records, r)
	}
	return records, nil
}

// ReadHR loads the HR staging dataset from dir.
func ReadHR(dir string) ([]HRRecord, error) {
	rows, err := readCSV(filepath.Join(dir, HRFile), 8)
	if err != nil {
		return nil, fmt.Errorf("could not load staging dataset hr: %w", err)
	}
	records := make([]HRRecord, 0, len(rows))
	for i, row := range rows {
		r := HRRecord{}
		r.EmployeeID, err = parseInt(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad employee_id: %w", HRFile, i+2, err)
		}
		r.DepartmentID = parseNullInt(row[1])
		r.Salary = parseNullDec(row[2])
		r.Bonus = parseNullDec(row[3])
		r.ReviewDate = parseDate(row[4])
		r.PerformanceScore = parseNullDec(row[5])
		r.HoursWorked = parseNullDec(row[6])
		r.OvertimeHours = parseNullDec(row[7])
		records = append(records, r)
	}
	return records, nil
}

func readCSV(path string, wantCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = wantCols
	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: missing header row", filepath.Base(path))
	}
	return all[1:], nil
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseNullInt(s string) sql.NullInt64 {
	if s == "" {
		return sql.NullInt64{}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func parseNullDec(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
