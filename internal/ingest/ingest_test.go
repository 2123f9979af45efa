//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafamarinsys/hilotools/internal/config"
	"github.com/rafamarinsys/hilotools/internal/staging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.ProcessedDir = filepath.Join(dir, "processed")
	cfg.Sources.Sales = filepath.Join(dir, "ventas.csv")
	cfg.Sources.Inventory = filepath.Join(dir, "inventario.csv")
	cfg.Sources.HR = filepath.Join(dir, "rrhh.csv")

	writeFile(t, cfg.Sources.Sales,
		"ID_VENTA,FECHA_VENTA,ID_CLIENTE,ID_PRODUCTO,ID_TIENDA,CANTIDAD,PRECIO_UNITARIO,DESCUENTO_PCT,IMPORTE_VENTA,MARGEN\n"+
			"1,2024-01-05,10,7,1,2,\"1.234,56\",0,\"2.469,12\",100\n"+
			"1,2024-01-05,10,7,1,2,\"1.234,56\",0,\"2.469,12\",100\n"+ // exact duplicate
			"2,2024-01-06,,8,1,1,\"15,5\",5,\"14,72\",3\n"+ // missing customer
			",2024-01-07,11,9,1,1,10,0,10,2\n") // missing sale id: dropped

	writeFile(t, cfg.Sources.Inventory,
		"ID_INVENTARIO,FECHA_FOTO,CODIGO_PRODUCTO,ID_CATEGORIA,ID_ALMACEN,STOCK,NIVEL_REPOSICION,COSTE_UNITARIO,VALOR_TOTAL\n"+
			"1,2024-01-05,PRD_0007,3,1,50,20,\"5,25\",\"262,5\"\n"+
			"2,2024-01-05,PRD_LEGACY,3,1,10,5,1,10\n")

	writeFile(t, cfg.Sources.HR,
		"ID_EMPLEADO,ID_DEPARTAMENTO,SALARIO,BONUS,FECHA_REVISION,PUNTUACION,HORAS,HORAS_EXTRA\n"+
			"5,2,\"40.000,00\",\"4.000,00\",2024-03-01,\"3,5\",160,5\n")

	return cfg
}

func TestRunNormalizesAndDeduplicates(t *testing.T) {
	cfg := testConfig(t)

	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.SalesRows != 2 {
		t.Errorf("Sales rows = %d, want 2 (duplicate and id-less rows dropped)", res.SalesRows)
	}
	if res.InventoryRows != 2 || res.HRRows != 1 {
		t.Errorf("Inventory/HR rows = %d/%d, want 2/1", res.InventoryRows, res.HRRows)
	}

	ds, err := staging.Read(cfg.ProcessedDir)
	if err != nil {
		t.Fatalf("Failed to read staging output: %v", err)
	}

	s := ds.Sales[0]
	if s.SaleID != 1 {
		t.Errorf("Sale id = %d, want 1", s.SaleID)
	}
	if !s.SaleDate.Equal(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Sale date = %v", s.SaleDate)
	}
	// Locale-mixed decimal normalized to a plain value.
	if !s.UnitPrice.Valid || !s.UnitPrice.Decimal.Equal(decimal.NewFromFloat(1234.56)) {
		t.Errorf("Unit price = %+v, want 1234.56", s.UnitPrice)
	}

	if ds.Sales[1].CustomerID.Valid {
		t.Error("Blank customer id should be null")
	}

	hr := ds.HR[0]
	if !hr.Salary.Decimal.Equal(decimal.NewFromInt(40000)) {
		t.Errorf("Salary = %s, want 40000", hr.Salary.Decimal)
	}
}

func TestRunMissingSourceFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sources.HR = filepath.Join(t.TempDir(), "nope.csv")

	if _, err := Run(cfg); err == nil {
		t.Error("Run should fail when a raw export is missing")
	}
}

func TestLoadNormalizedDropsUnmappedColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	writeFile(t, path, "ID_VENTA,COLUMNA_MISTERIOSA\n1,whatever\n")

	rows, err := loadNormalized(path, map[string]string{"ID_VENTA": "sale_id"})
	if err != nil {
		t.Fatalf("loadNormalized failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0]["sale_id"] != "1" {
		t.Errorf("sale_id = %q", rows[0]["sale_id"])
	}
	if _, ok := rows[0]["COLUMNA_MISTERIOSA"]; ok {
		t.Error("Unmapped raw column should be dropped")
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-05", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-01-05 13:45:00", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"05/01/2024", time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"not-a-date", time.Time{}},
	}
	for _, tt := range tests {
		if got := parseDate(tt.in); !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
