// Package report defines the fixed set of read-only analytical queries run at
// the end of a pipeline invocation. Each report is independent: one failing
// query is logged and the remaining reports still run.
package report

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"launchfeed/internal/format"
	"launchfeed/internal/store"
)

// Querier is the read-only slice of the store the runner needs.
type Querier interface {
	Dialect() store.Dialect
	Query(ctx context.Context, query string) ([]string, [][]string, error)
}

// Definition is one named analytical query with per-dialect SQL and a row
// order defined by the query itself.
type Definition struct {
	Title string
	SQL   map[store.Dialect]string
}

// Definitions returns the reports in their fixed execution order.
func Definitions() []Definition {
	return []Definition{
		{
			Title: "Launch Performance Over Time",
			SQL: map[store.Dialect]string{
				store.DialectPostgres: `
					WITH launches_per_year AS (
						SELECT
							EXTRACT(YEAR FROM (raw_data->>'date_utc')::TIMESTAMP) AS launch_year,
							COUNT(*) AS total_launches,
							COUNT(*) FILTER (WHERE (raw_data->>'success')::BOOLEAN IS TRUE) AS successful_launches
						FROM raw_launches
						GROUP BY launch_year
					)
					SELECT
						launch_year,
						successful_launches,
						total_launches,
						ROUND((successful_launches::DECIMAL / total_launches) * 100, 2) AS success_rate_percentage
					FROM launches_per_year
					ORDER BY launch_year`,
				store.DialectSQLite: `
					WITH launches_per_year AS (
						SELECT
							CAST(strftime('%Y', json_extract(raw_data, '$.date_utc')) AS INTEGER) AS launch_year,
							COUNT(*) AS total_launches,
							COUNT(CASE WHEN json_extract(raw_data, '$.success') = 1 THEN 1 END) AS successful_launches
						FROM raw_launches
						GROUP BY launch_year
					)
					SELECT
						launch_year,
						successful_launches,
						total_launches,
						ROUND(successful_launches * 100.0 / total_launches, 2) AS success_rate_percentage
					FROM launches_per_year
					ORDER BY launch_year`,
			},
		},
		{
			Title: "Top 5 Payload Masses",
			SQL: map[store.Dialect]string{
				store.DialectPostgres: `
					WITH ranked_launches AS (
						SELECT
							id,
							raw_data->>'name' AS mission_name,
							payload_mass_kg,
							RANK() OVER (ORDER BY payload_mass_kg DESC NULLS LAST) AS launch_rank
						FROM raw_launches
					)
					SELECT id, mission_name, payload_mass_kg, launch_rank
					FROM ranked_launches
					WHERE launch_rank <= 5
					ORDER BY launch_rank`,
				store.DialectSQLite: `
					WITH ranked_launches AS (
						SELECT
							id,
							json_extract(raw_data, '$.name') AS mission_name,
							payload_mass_kg,
							RANK() OVER (ORDER BY payload_mass_kg DESC NULLS LAST) AS launch_rank
						FROM raw_launches
					)
					SELECT id, mission_name, payload_mass_kg, launch_rank
					FROM ranked_launches
					WHERE launch_rank <= 5
					ORDER BY launch_rank`,
			},
		},
		{
			Title: "Launch Delay Breakdown",
			SQL: map[store.Dialect]string{
				store.DialectPostgres: `
					WITH parsed AS (
						SELECT
							EXTRACT(YEAR FROM (raw_data->>'date_utc')::TIMESTAMP) AS launch_year,
							delay_minutes / 60.0 AS delay_hours
						FROM raw_launches
					)
					SELECT
						launch_year,
						ROUND(AVG(delay_hours)::NUMERIC, 2) AS average_delay_hours,
						ROUND(MAX(delay_hours)::NUMERIC, 2) AS max_delay_hours
					FROM parsed
					GROUP BY launch_year
					ORDER BY launch_year`,
				store.DialectSQLite: `
					WITH parsed AS (
						SELECT
							CAST(strftime('%Y', json_extract(raw_data, '$.date_utc')) AS INTEGER) AS launch_year,
							delay_minutes / 60.0 AS delay_hours
						FROM raw_launches
					)
					SELECT
						launch_year,
						ROUND(AVG(delay_hours), 2) AS average_delay_hours,
						ROUND(MAX(delay_hours), 2) AS max_delay_hours
					FROM parsed
					GROUP BY launch_year
					ORDER BY launch_year`,
			},
		},
		{
			Title: "Launch Site Utilization",
			SQL: map[store.Dialect]string{
				store.DialectPostgres: `
					SELECT
						raw_data->>'launchpad' AS launch_site_id,
						COUNT(*) AS total_launches,
						ROUND(AVG(payload_mass_kg)::NUMERIC, 5) AS average_payload_mass_kg
					FROM raw_launches
					GROUP BY launch_site_id
					ORDER BY total_launches DESC`,
				store.DialectSQLite: `
					SELECT
						json_extract(raw_data, '$.launchpad') AS launch_site_id,
						COUNT(*) AS total_launches,
						ROUND(AVG(payload_mass_kg), 5) AS average_payload_mass_kg
					FROM raw_launches
					GROUP BY launch_site_id
					ORDER BY total_launches DESC`,
			},
		},
	}
}

// Runner executes the report list against a store and renders each result as
// a table.
type Runner struct {
	querier Querier
	log     *zap.Logger
	out     io.Writer
}

// NewRunner constructs a Runner writing rendered tables to out.
func NewRunner(querier Querier, log *zap.Logger, out io.Writer) *Runner {
	return &Runner{querier: querier, log: log, out: out}
}

// RunAll executes every report in order and returns the number of reports
// that failed. A failure never stops the remaining reports.
func (r *Runner) RunAll(ctx context.Context) int {
	failed := 0
	dialect := r.querier.Dialect()
	for _, def := range Definitions() {
		if err := r.run(ctx, dialect, def); err != nil {
			failed++
			r.log.Error("report failed",
				zap.String("report", def.Title),
				zap.Error(err))
			continue
		}
		r.log.Info("report completed", zap.String("report", def.Title))
	}
	return failed
}

func (r *Runner) run(ctx context.Context, dialect store.Dialect, def Definition) error {
	query, ok := def.SQL[dialect]
	if !ok {
		return fmt.Errorf("no %s query defined", dialect)
	}
	cols, rows, err := r.querier.Query(ctx, query)
	if err != nil {
		return err
	}
	tbl := format.NewTable()
	tbl.Header(cols...)
	for _, row := range rows {
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = v
		}
		tbl.Row(vals...)
	}
	if _, err := fmt.Fprintf(r.out, "\n=== %s ===\n%s\n", def.Title, tbl.String()); err != nil {
		return err
	}
	return nil
}
