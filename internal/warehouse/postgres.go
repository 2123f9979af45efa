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
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rafamarinsys/hilotools/internal/logging"
)

// PostgresStore is a Store backed by a PostgreSQL database.
type PostgresStore struct {
	pool *pgxpool.Pool
	dsn  string
}

// OpenPostgres establishes a connection pool to the PostgreSQL warehouse.
func OpenPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	// The model stage is a single synchronous batch writer; a small pool
	// is plenty.
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	logging.Debug().
		Str("host", config.ConnConfig.Host).
		Uint16("port", config.ConnConfig.Port).
		Str("database", config.ConnConfig.Database).
		Msg("Connecting to warehouse")

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	logging.Info().
		Str("host", config.ConnConfig.Host).
		Str("database", config.ConnConfig.Database).
		Msg("Connected to warehouse")

	return &PostgresStore{pool: pool, dsn: connString}, nil
}

// Replace overwrites the named table with the given contents. Drop, create
// and the bulk copy run in one transaction per table.
func (s *PostgresStore) Replace(ctx context.Context, table Table) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+table.Name); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table.Name, err)
	}
	if _, err := tx.Exec(ctx, postgresCreateSQL(table)); err != nil {
		return fmt.Errorf("failed to create %s: %w", table.Name, err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{table.Name},
		table.ColumnNames(),
		pgx.CopyFromRows(table.Rows))
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", table.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table.Name, err)
	}

	logging.Debug().
		Str("table", table.Name).
		Int("rows", len(table.Rows)).
		Msg("Replaced table")
	return nil
}

// Query runs a read-only SQL statement and returns column names and rows.
func (s *PostgresStore) Query(ctx context.Context, query string) ([]string, [][]any, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	var out [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		out = append(out, values)
	}
	return cols, out, rows.Err()
}

// Location returns the connection string the store was opened with.
func (s *PostgresStore) Location() string {
	return s.dsn
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func postgresCreateSQL(table Table) string {
	defs := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		defs[i] = c.Name + " " + postgresType(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table.Name, strings.Join(defs, ", "))
}

func postgresType(t ColumnType) string {
	switch t {
	case Integer:
		return "BIGINT"
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
