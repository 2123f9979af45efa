//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rafamarinsys/hilotools/internal/config"
	"github.com/rafamarinsys/hilotools/internal/logging"
)

// Raw export headers, matching the default column rename maps.
var (
	salesHeader = []any{"ID_VENTA", "FECHA_VENTA", "ID_CLIENTE", "ID_PRODUCTO",
		"ID_TIENDA", "CANTIDAD", "PRECIO_UNITARIO", "DESCUENTO_PCT",
		"IMPORTE_VENTA", "MARGEN"}
	inventoryHeader = []any{"ID_INVENTARIO", "FECHA_FOTO", "CODIGO_PRODUCTO",
		"ID_CATEGORIA", "ID_ALMACEN", "STOCK", "NIVEL_REPOSICION",
		"COSTE_UNITARIO", "VALOR_TOTAL"}
	hrHeader = []any{"ID_EMPLEADO", "ID_DEPARTAMENTO", "SALARIO", "BONUS",
		"FECHA_REVISION", "PUNTUACION", "HORAS", "HORAS_EXTRA"}
)

// SeedResult reports what the seeder wrote.
type SeedResult struct {
	SalesPath     string
	InventoryPath string
	HRPath        string
	SalesRows     int
	InventoryRows int
	HRRows        int
}

// Seeder writes demo raw exports that look like the real ones: messy
// headers, mixed decimal locales, occasional blanks and duplicate rows.
type Seeder struct {
	faker *Faker
	cfg   config.SeedConfig
}

// NewSeeder creates a Seeder. A non-zero RandomSeed makes output
// reproducible.
func NewSeeder(cfg config.SeedConfig) *Seeder {
	f := NewFaker()
	if cfg.RandomSeed != 0 {
		f = NewFakerWithSeed(cfg.RandomSeed)
	}
	return &Seeder{faker: f, cfg: cfg}
}

// Run generates the three raw export workbooks in the configured directory.
func (s *Seeder) Run() (*SeedResult, error) {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create seed dir: %w", err)
	}

	res := &SeedResult{
		SalesPath:     filepath.Join(s.cfg.Dir, "ventas.xlsx"),
		InventoryPath: filepath.Join(s.cfg.Dir, "inventario.xlsx"),
		HRPath:        filepath.Join(s.cfg.Dir, "rrhh.xlsx"),
	}

	salesRows := s.salesRows()
	if err := writeWorkbook(res.SalesPath, salesHeader, salesRows); err != nil {
		return nil, err
	}
	res.SalesRows = len(salesRows)

	invRows := s.inventoryRows()
	if err := writeWorkbook(res.InventoryPath, inventoryHeader, invRows); err != nil {
		return nil, err
	}
	res.InventoryRows = len(invRows)

	hrRows := s.hrRows()
	if err := writeWorkbook(res.HRPath, hrHeader, hrRows); err != nil {
		return nil, err
	}
	res.HRRows = len(hrRows)

	logging.Info().
		Int("sales", res.SalesRows).
		Int("inventory", res.InventoryRows).
		Int("hr", res.HRRows).
		Str("dir", s.cfg.Dir).
		Msg("Seeded raw exports")
	return res, nil
}

func (s *Seeder) salesRows() [][]any {
	products := maxInt(s.cfg.Sales/10, 5)
	customers := maxInt(s.cfg.Sales/5, 5)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	rows := make([][]any, 0, s.cfg.Sales)
	for i := 1; i <= s.cfg.Sales; i++ {
		qty := s.faker.Int(1, 20)
		price := s.faker.Price(5, 500)
		discount := float64(s.faker.Int(0, 30))
		amount := float64(qty) * price * (1 - discount/100)

		customer := any(s.faker.Int(1, customers))
		if s.faker.Int(1, 50) == 1 {
			// Exports occasionally lose the customer reference.
			customer = ""
		}

		rows = append(rows, []any{
			i,
			s.faker.DateRange(start, end).Format("2006-01-02"),
			customer,
			s.faker.Int(1, products),
			s.faker.Int(1, 8),
			qty,
			s.decimal(price),
			s.decimal(discount),
			s.decimal(amount),
			s.decimal(amount * s.faker.Float64(0.05, 0.35)),
		})
	}
	// A few exact duplicates so the ingest dedup has work to do.
	for i := 0; i < len(rows)/100; i++ {
		rows = append(rows, rows[s.faker.Int(0, len(rows)-1)])
	}
	return rows
}

func (s *Seeder) inventoryRows() [][]any {
	products := maxInt(s.cfg.Sales/10, 5)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	rows := make([][]any, 0, s.cfg.Inventory)
	for i := 1; i <= s.cfg.Inventory; i++ {
		stock := s.faker.Int(0, 500)
		cost := s.faker.Price(1, 200)

		code := fmt.Sprintf("PRD_%04d", s.faker.Int(1, products))
		if s.faker.Int(1, 40) == 1 {
			// Some codes carry no trailing digits and cannot be joined.
			code = "PRD_LEGACY"
		}

		rows = append(rows, []any{
			i,
			s.faker.DateRange(start, end).Format("2006-01-02"),
			code,
			s.faker.Int(1, 10),
			s.faker.Int(1, 3),
			stock,
			s.faker.Int(10, 100),
			s.decimal(cost),
			s.decimal(float64(stock) * cost),
		})
	}
	return rows
}

func (s *Seeder) hrRows() [][]any {
	employees := maxInt(s.cfg.HR/3, 3)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	rows := make([][]any, 0, s.cfg.HR)
	for i := 0; i < s.cfg.HR; i++ {
		salary := s.faker.Price(18000, 90000)
		rows = append(rows, []any{
			s.faker.Int(1, employees),
			s.faker.Int(1, 6),
			s.decimal(salary),
			s.decimal(salary * s.faker.Float64(0, 0.2)),
			s.faker.DateRange(start, end).Format("2006-01-02"),
			s.decimal(s.faker.Float64(1, 5)),
			s.decimal(s.faker.Float64(120, 200)),
			s.decimal(s.faker.Float64(0, 30)),
		})
	}
	return rows
}

// decimal renders a number the way mixed-locale exports do: sometimes with
// a decimal comma, sometimes with thousands grouping.
func (s *Seeder) decimal(v float64) string {
	plain := fmt.Sprintf("%.2f", v)
	switch s.faker.Int(1, 3) {
	case 1:
		return plain
	case 2:
		return strings.ReplaceAll(plain, ".", ",")
	default:
		return groupThousands(plain)
	}
}

// groupThousands converts "1234567.89" to "1.234.567,89".
func groupThousands(plain string) string {
	intPart, fracPart, _ := strings.Cut(plain, ".")
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	return strings.Join(groups, ".") + "," + fracPart
}

func writeWorkbook(path string, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("could not write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", filepath.Base(path), err)
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
