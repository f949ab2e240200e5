// Package store persists launch records in a relational backend keyed by
// launch id. Two drivers share one implementation over database/sql: Postgres
// (pgx stdlib driver) for deployments and SQLite (pure Go driver) for local
// development and tests. Writes are insert-or-ignore; the derived aggregate
// view is fully recomputed on every rebuild.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"launchfeed/internal/launch"
)

// Dialect identifies the SQL flavour a store speaks. Report queries are
// selected by dialect.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// statements carries the dialect-specific DDL and DML.
type statements struct {
	createTable string
	insert      string
	dropView    string
	createView  string
}

// SQLStore is the upsert store plus aggregate view builder over a single
// raw_launches table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	stmts   statements
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Dialect reports the SQL flavour of the backing engine.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

// DB exposes the handle for integration test hooks.
func (s *SQLStore) DB() *sql.DB { return s.db }

// EnsureSchema idempotently creates the raw_launches table. Safe to call on
// every run.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.stmts.createTable); err != nil {
		return fmt.Errorf("ensure raw_launches table: %w", err)
	}
	return nil
}

// Upsert inserts rec keyed by its id. A duplicate id is a no-op: the stored
// row is never overwritten and no error is returned. The boolean reports
// whether a new row was actually created.
func (s *SQLStore) Upsert(ctx context.Context, rec launch.Record) (bool, error) {
	raw, err := encodeDocument(rec.Raw)
	if err != nil {
		return false, fmt.Errorf("encode raw document: %w", err)
	}
	res, err := s.db.ExecContext(ctx, s.stmts.insert,
		rec.ID,
		rec.FetchedAt.UTC().Format(time.RFC3339),
		rec.PayloadMassKg,
		rec.DelayMinutes,
		raw,
	)
	if err != nil {
		return false, fmt.Errorf("insert launch %s: %w", rec.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert launch %s: rows affected: %w", rec.ID, err)
	}
	return affected == 1, nil
}

// RebuildAggregates drops and recreates the launch_aggregates view. The view
// is always recomputed from the full table, so repeated rebuilds are
// idempotent and the view is never stale beyond the last run.
func (s *SQLStore) RebuildAggregates(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.stmts.dropView); err != nil {
		return fmt.Errorf("drop launch_aggregates view: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.stmts.createView); err != nil {
		return fmt.Errorf("create launch_aggregates view: %w", err)
	}
	return nil
}

// Aggregates reads the single summary row from the view.
func (s *SQLStore) Aggregates(ctx context.Context) (launch.Aggregates, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT total_launches, successful_launches, avg_payload_mass_kg, avg_delay_minutes FROM launch_aggregates`)
	var (
		agg   launch.Aggregates
		mass  sql.NullFloat64
		delay sql.NullFloat64
	)
	if err := row.Scan(&agg.TotalLaunches, &agg.SuccessfulLaunches, &mass, &delay); err != nil {
		return launch.Aggregates{}, fmt.Errorf("read launch_aggregates: %w", err)
	}
	if mass.Valid {
		agg.AvgPayloadMassKg = &mass.Float64
	}
	if delay.Valid {
		agg.AvgDelayMinutes = &delay.Float64
	}
	return agg, nil
}

// Query runs a read-only query and returns column headers plus rows rendered
// as strings. NULL values render as "NULL".
func (s *SQLStore) Query(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("columns: %w", err)
	}
	var out [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		targets := make([]any, len(cols))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, nil, fmt.Errorf("scan: %w", err)
		}
		rendered := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				rendered[i] = v.String
			} else {
				rendered[i] = "NULL"
			}
		}
		out = append(out, rendered)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate: %w", err)
	}
	return cols, out, nil
}

// OverrideSQLOpen swaps the sql.Open function for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}

func open(driver, dsn string) (*sql.DB, error) {
	openMu.Lock()
	defer openMu.Unlock()
	return sqlOpen(driver, dsn)
}

// encodeDocument serializes the raw document for the JSON column. Passing a
// string keeps one code path for both the jsonb and text column types.
func encodeDocument(doc launch.Document) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
