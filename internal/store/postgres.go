package store

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const postgresDriver = "pgx"

var postgresStatements = statements{
	createTable: `CREATE TABLE IF NOT EXISTS raw_launches (
		id TEXT PRIMARY KEY,
		fetched_at TIMESTAMPTZ,
		payload_mass_kg DOUBLE PRECISION,
		delay_minutes DOUBLE PRECISION,
		raw_data JSONB
	)`,
	insert: `INSERT INTO raw_launches (id, fetched_at, payload_mass_kg, delay_minutes, raw_data)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
	dropView: `DROP VIEW IF EXISTS launch_aggregates`,
	createView: `CREATE VIEW launch_aggregates AS
		SELECT
			COUNT(*) AS total_launches,
			COUNT(*) FILTER (WHERE (raw_data->>'success')::BOOLEAN IS TRUE) AS successful_launches,
			AVG(payload_mass_kg) AS avg_payload_mass_kg,
			AVG(delay_minutes) AS avg_delay_minutes
		FROM raw_launches`,
}

// NewPostgres opens a Postgres-backed store using the provided DSN and
// verifies connectivity.
func NewPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn required")
	}
	db, err := open(postgresDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &SQLStore{db: db, dialect: DialectPostgres, stmts: postgresStatements}, nil
}
