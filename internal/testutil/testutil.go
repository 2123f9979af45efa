//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package testutil provides utilities for pipeline tests.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rafamarinsys/hilotools/internal/staging"
)

// TempWarehousePath returns a SQLite warehouse path inside a per-test
// temporary directory.
func TempWarehousePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "warehouse.db")
}

// Date builds a UTC date for fixtures.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Sale builds a staging sales record with the fields most tests care
// about. Measures default to quantity * 10.
func Sale(id int64, date time.Time, customer, product, store int64) staging.SalesRecord {
	qty := 2.0
	return staging.SalesRecord{
		SaleID:          id,
		SaleDate:        date,
		CustomerID:      staging.Int(customer),
		ProductID:       staging.Int(product),
		StoreID:         staging.Int(store),
		Quantity:        staging.DecFloat(qty),
		UnitPrice:       staging.DecFloat(10),
		DiscountPercent: staging.DecFloat(0),
		SalesAmount:     staging.DecFloat(qty * 10),
		ProfitMargin:    staging.DecFloat(4),
	}
}

// SaleAmount overrides the sales amount of a fixture record.
func SaleAmount(r staging.SalesRecord, amount float64) staging.SalesRecord {
	r.SalesAmount = staging.DecFloat(amount)
	return r
}

// Inventory builds a staging inventory record.
func Inventory(id int64, date time.Time, code string, category, warehouseID int64) staging.InventoryRecord {
	return staging.InventoryRecord{
		InventoryID:  id,
		SnapshotDate: date,
		ProductCode:  code,
		CategoryID:   staging.Int(category),
		WarehouseID:  staging.Int(warehouseID),
		StockQty:     staging.DecFloat(50),
		ReorderLevel: staging.DecFloat(20),
		UnitCost:     staging.DecFloat(5),
		TotalValue:   staging.DecFloat(250),
	}
}

// HRReview builds a staging HR record.
func HRReview(employee, department int64, salary float64, date time.Time) staging.HRRecord {
	return staging.HRRecord{
		EmployeeID:       employee,
		DepartmentID:     staging.Int(department),
		Salary:           staging.DecFloat(salary),
		Bonus:            staging.DecFloat(salary * 0.1),
		ReviewDate:       date,
		PerformanceScore: staging.DecFloat(3.5),
		HoursWorked:      staging.DecFloat(160),
		OvertimeHours:    staging.DecFloat(5),
	}
}

// Dec wraps a float as a valid nullable decimal.
func Dec(v float64) decimal.NullDecimal {
	return staging.DecFloat(v)
}

// NullInt returns an invalid nullable integer.
func NullInt() sql.NullInt64 {
	return sql.NullInt64{}
}

// QueryCount returns the row count of a warehouse table via database/sql.
// Only valid for SQLite warehouses.
func QueryCount(t *testing.T, path, table string) int {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to open warehouse %s: %v", path, err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return n
}

// DefaultTestConnString is the default connection string for Postgres
// integration tests. Override with HILOTOOLS_TEST_CONN.
const DefaultTestConnString = "postgres://postgres@localhost:5432/postgres"

// TestDBPrefix is the prefix for test databases.
const TestDBPrefix = "hilotools_test_"

// PostgresAvailable checks if PostgreSQL is available for testing.
// Returns the connection string if available, empty string otherwise.
func PostgresAvailable() string {
	connStr := os.Getenv("HILOTOOLS_TEST_CONN")
	if connStr == "" {
		connStr = DefaultTestConnString
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return ""
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return ""
	}

	return connStr
}

// SkipIfNoPostgres skips the test if PostgreSQL is not available.
func SkipIfNoPostgres(t *testing.T) string {
	connStr := PostgresAvailable()
	if connStr == "" {
		t.Skip("PostgreSQL not available, skipping integration test")
	}
	return connStr
}

// CreateTestDB creates a test database and returns its connection string.
func CreateTestDB(t *testing.T, baseConnStr string) string {
	t.Helper()

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		t.Fatalf("Failed to generate random database name: %v", err)
	}
	dbName := TestDBPrefix + hex.EncodeToString(randomBytes)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	_, err = pool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName))
	if err != nil {
		t.Fatalf("Failed to drop existing test database: %v", err)
	}

	_, err = pool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", dbName))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	config, err := pgxpool.ParseConfig(baseConnStr)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}

	// Build the connection string manually since ConnString() doesn't reflect
	// changes made to ConnConfig.Database
	host := config.ConnConfig.Host
	port := config.ConnConfig.Port
	user := config.ConnConfig.User
	password := config.ConnConfig.Password

	if password != "" {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
			user, password, host, port, dbName)
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s", user, host, port, dbName)
}

// DropTestDB drops the test database.
func DropTestDB(t *testing.T, baseConnStr, dbName string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, baseConnStr)
	if err != nil {
		t.Logf("Warning: Failed to connect to drop test database: %v", err)
		return
	}
	defer pool.Close()

	// Terminate connections to the database
	_, _ = pool.Exec(ctx, fmt.Sprintf(`
        SELECT pg_terminate_backend(pid)
        FROM pg_stat_activity
        WHERE datname = '%s' AND pid <> pg_backend_pid()
    `, dbName))

	_, err = pool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName))
	if err != nil {
		t.Logf("Warning: Failed to drop test database: %v", err)
	}
}

// GetDBNameFromConnStr extracts the database name from a connection string.
func GetDBNameFromConnStr(connStr string) string {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return ""
	}
	return config.ConnConfig.Database
}
