//-------------------------------------------------------------------------
//
// HiloTools Data Pipeline
//
// Copyright (c) 2025 - 2026, Rafa Marin Systems
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package warehouse provides the relational sink the model stage writes to.
// Two backends are supported: a path-addressed SQLite file and a PostgreSQL
// database addressed by a postgres:// connection string.
package warehouse

import (
	"context"
	"strings"
)

// ColumnType is the portable column type used when declaring tables.
type ColumnType int

const (
	Integer ColumnType = iota
	Numeric
	Text
	Date
	Bool
)

// Column declares one column of a warehouse table.
type Column struct {
	Name string
	Type ColumnType
}

// Table is a named table with its full contents. Row values must be of a
// type the backend driver can bind (int64, string, bool, time.Time,
// sql.NullInt64, decimal.Decimal, decimal.NullDecimal, nil).
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// ColumnNames returns the declared column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Store is a warehouse backend. Replace drops any existing table of the
// same name and writes the given rows; there is no cross-table transaction,
// so a failure mid-run can leave the warehouse in a mixed-version state and
// callers recover by re-running the full model stage.
type Store interface {
	// Replace overwrites the named table with the given contents.
	Replace(ctx context.Context, table Table) error

	// Query runs a read-only SQL statement and returns column names and rows.
	Query(ctx context.Context, sql string) ([]string, [][]any, error)

	// Location returns the path or connection string the store was opened with.
	Location() string

	// Close releases the underlying connection.
	Close() error
}

// Open selects a backend from the DSN: postgres:// connection strings get
// the PostgreSQL backend, anything else is treated as a SQLite file path.
func Open(ctx context.Context, dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return OpenPostgres(ctx, dsn)
	}
	return OpenSQLite(dsn)
}
