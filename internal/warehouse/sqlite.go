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
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rafamarinsys/hilotools/internal/logging"
)

// SQLiteStore is a Store backed by a single SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if necessary) a SQLite warehouse at path.
// The parent directory is created so a fresh checkout can run the model
// stage without preparing data/warehouse by hand.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create warehouse dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}

	logging.Debug().Str("path", path).Msg("Opened SQLite warehouse")
	return &SQLiteStore{db: db, path: path}, nil
}

// Replace overwrites the named table with the given contents. The drop,
// create and inserts run in one transaction per table.
func (s *SQLiteStore) Replace(ctx context.Context, table Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table.Name); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table.Name, err)
	}
	if _, err := tx.ExecContext(ctx, sqliteCreateSQL(table)); err != nil {
		return fmt.Errorf("failed to create %s: %w", table.Name, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table.Name,
		strings.Join(table.ColumnNames(), ", "),
		placeholders(len(table.Columns)))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert for %s: %w", table.Name, err)
	}
	defer stmt.Close()

	for _, row := range table.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table.Name, err)
	}

	logging.Debug().
		Str("table", table.Name).
		Int("rows", len(table.Rows)).
		Msg("Replaced table")
	return nil
}

// Query runs a read-only SQL statement and returns column names and rows.
func (s *SQLiteStore) Query(ctx context.Context, query string) ([]string, [][]any, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		out = append(out, values)
	}
	return cols, out, rows.Err()
}

// Location returns the warehouse file path.
func (s *SQLiteStore) Location() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func sqliteCreateSQL(table Table) string {
	defs := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		defs[i] = c.Name + " " + sqliteType(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table.Name, strings.Join(defs, ", "))
}

func sqliteType(t ColumnType) string {
	switch t {
	case Integer:
		return "INTEGER"
	case Numeric:
		return "NUMERIC"
	case Date:
		return "DATE"
	case Bool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
