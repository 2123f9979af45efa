//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func testTable(rows [][]any) Table {
	return Table{
		Name: "test_facts",
		Columns: []Column{
			{Name: "id", Type: Integer},
			{Name: "label", Type: Text},
			{Name: "amount", Type: Numeric},
		},
		Rows: rows,
	}
}

func TestSQLiteReplaceAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("Failed to open warehouse: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	table := testTable([][]any{
		{int64(1), "first", decimal.NewFromFloat(12.5)},
		{int64(2), "second", decimal.NewFromFloat(99.99)},
	})
	if err := store.Replace(ctx, table); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	cols, rows, err := store.Query(ctx, "SELECT id, label, amount FROM test_facts ORDER BY id")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(cols) != 3 || cols[0] != "id" {
		t.Errorf("Columns = %v", cols)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if id, ok := rows[0][0].(int64); !ok || id != 1 {
		t.Errorf("Row 0 id = %v", rows[0][0])
	}
}

func TestSQLiteReplaceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("Failed to open warehouse: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	big := testTable([][]any{
		{int64(1), "a", decimal.NewFromInt(1)},
		{int64(2), "b", decimal.NewFromInt(2)},
		{int64(3), "c", decimal.NewFromInt(3)},
	})
	if err := store.Replace(ctx, big); err != nil {
		t.Fatalf("First replace failed: %v", err)
	}

	small := testTable([][]any{
		{int64(9), "only", decimal.NewFromInt(9)},
	})
	if err := store.Replace(ctx, small); err != nil {
		t.Fatalf("Second replace failed: %v", err)
	}

	_, rows, err := store.Query(ctx, "SELECT id FROM test_facts")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Replace should overwrite, got %d rows", len(rows))
	}
}

func TestSQLiteReplaceEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("Failed to open warehouse: %v", err)
	}
	defer store.Close()

	if err := store.Replace(context.Background(), testTable(nil)); err != nil {
		t.Fatalf("Replace of empty table failed: %v", err)
	}
	_, rows, err := store.Query(context.Background(), "SELECT * FROM test_facts")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected empty table, got %d rows", len(rows))
	}
}

func TestOpenDispatch(t *testing.T) {
	// A plain path opens SQLite.
	path := filepath.Join(t.TempDir(), "warehouse.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*SQLiteStore); !ok {
		t.Errorf("Open(%q) = %T, want *SQLiteStore", path, store)
	}
	if store.Location() != path {
		t.Errorf("Location = %q, want %q", store.Location(), path)
	}
}
