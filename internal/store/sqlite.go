package store

import (
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sqliteDriver = "sqlite"

// JSON booleans surface as 1/0 through json_extract, and years come from
// strftime over the ISO timestamp, so the sqlite statements diverge from the
// Postgres ones wherever the raw document is inspected.
var sqliteStatements = statements{
	createTable: `CREATE TABLE IF NOT EXISTS raw_launches (
		id TEXT PRIMARY KEY,
		fetched_at TEXT,
		payload_mass_kg REAL,
		delay_minutes REAL,
		raw_data TEXT
	)`,
	insert: `INSERT INTO raw_launches (id, fetched_at, payload_mass_kg, delay_minutes, raw_data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
	dropView: `DROP VIEW IF EXISTS launch_aggregates`,
	createView: `CREATE VIEW launch_aggregates AS
		SELECT
			COUNT(*) AS total_launches,
			COUNT(CASE WHEN json_extract(raw_data, '$.success') = 1 THEN 1 END) AS successful_launches,
			AVG(payload_mass_kg) AS avg_payload_mass_kg,
			AVG(delay_minutes) AS avg_delay_minutes
		FROM raw_launches`,
}

// NewSQLite opens a SQLite-backed store at path. Use ":memory:" for an
// ephemeral store in tests.
func NewSQLite(path string) (*SQLStore, error) {
	if path == "" {
		path = "launchfeed.db"
	}
	db, err := open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own private database.
		db.SetMaxOpenConns(1)
	}
	return &SQLStore{db: db, dialect: DialectSQLite, stmts: sqliteStatements}, nil
}
