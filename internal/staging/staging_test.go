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
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	date := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

	ds := &Datasets{
		Sales: []SalesRecord{
			{
				SaleID:          1,
				SaleDate:        date,
				CustomerID:      Int(10),
				ProductID:       Int(7),
				StoreID:         Int(1),
				Quantity:        DecFloat(2),
				UnitPrice:       DecFloat(12.5),
				DiscountPercent: DecFloat(0),
				SalesAmount:     DecFloat(25),
				ProfitMargin:    DecFloat(4.75),
			},
			{
				// Nulls everywhere they are allowed.
				SaleID: 2,
			},
		},
		Inventory: []InventoryRecord{
			{
				InventoryID:  1,
				SnapshotDate: date,
				ProductCode:  "PRD_0042",
				CategoryID:   Int(3),
				WarehouseID:  Int(2),
				StockQty:     DecFloat(50),
				ReorderLevel: DecFloat(20),
				UnitCost:     DecFloat(5.25),
				TotalValue:   DecFloat(262.5),
			},
		},
		HR: []HRRecord{
			{
				EmployeeID:       5,
				DepartmentID:     Int(2),
				Salary:           DecFloat(40000),
				Bonus:            DecFloat(4000),
				ReviewDate:       date,
				PerformanceScore: DecFloat(3.5),
				HoursWorked:      DecFloat(160),
				OvertimeHours:    DecFloat(5),
			},
		},
	}

	if err := Write(dir, ds); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Read(dir)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(got.Sales) != 2 || len(got.Inventory) != 1 || len(got.HR) != 1 {
		t.Fatalf("Row counts = %d/%d/%d, want 2/1/1",
			len(got.Sales), len(got.Inventory), len(got.HR))
	}

	s := got.Sales[0]
	if s.SaleID != 1 || !s.SaleDate.Equal(date) {
		t.Errorf("Sale 1 id/date = %d/%v", s.SaleID, s.SaleDate)
	}
	if !s.CustomerID.Valid || s.CustomerID.Int64 != 10 {
		t.Errorf("Sale 1 customer = %+v", s.CustomerID)
	}
	if !s.UnitPrice.Valid || !s.UnitPrice.Decimal.Equal(decimal.NewFromFloat(12.5)) {
		t.Errorf("Sale 1 unit_price = %+v", s.UnitPrice)
	}

	empty := got.Sales[1]
	if !empty.SaleDate.IsZero() {
		t.Errorf("Missing date should read back as zero, got %v", empty.SaleDate)
	}
	if empty.CustomerID.Valid || empty.SalesAmount.Valid {
		t.Errorf("Missing values should read back as null: %+v", empty)
	}

	inv := got.Inventory[0]
	if inv.ProductCode != "PRD_0042" || !inv.TotalValue.Decimal.Equal(decimal.NewFromFloat(262.5)) {
		t.Errorf("Inventory row = %+v", inv)
	}

	hr := got.HR[0]
	if hr.EmployeeID != 5 || !hr.ReviewDate.Equal(date) {
		t.Errorf("HR row = %+v", hr)
	}
}

func TestReadMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	// Only sales present: the bundle read must fail.
	if err := WriteSales(dir, nil); err != nil {
		t.Fatalf("WriteSales failed: %v", err)
	}
	if _, err := Read(dir); err == nil {
		t.Error("Read should fail when a staging dataset is missing")
	}
}

func TestParseHelpers(t *testing.T) {
	if v := parseNullInt(""); v.Valid {
		t.Error("Empty string should parse to null int")
	}
	if v := parseNullInt("abc"); v.Valid {
		t.Error("Garbage should parse to null int")
	}
	if v := parseNullInt("42"); !v.Valid || v.Int64 != 42 {
		t.Errorf("parseNullInt(42) = %+v", v)
	}
	if v := parseNullDec("12.5"); !v.Valid || !v.Decimal.Equal(decimal.NewFromFloat(12.5)) {
		t.Errorf("parseNullDec(12.5) = %+v", v)
	}
	if d := parseDate("2024-05-10"); d.IsZero() {
		t.Error("Valid date should parse")
	}
	if d := parseDate("10/05/2024"); !d.IsZero() {
		t.Error("Wrong layout should parse to zero date")
	}
}
