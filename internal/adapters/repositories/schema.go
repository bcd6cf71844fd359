package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the batch store schema. The statements are valid for both
// SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createBatchRunsQuery := `
	CREATE TABLE IF NOT EXISTS batch_runs (
		batch_id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		traffic_model TEXT NOT NULL,
		departure_time BIGINT,
		row_count INTEGER NOT NULL,
		ok_count INTEGER NOT NULL,
		failed_count INTEGER NOT NULL,
		started_at_ms BIGINT NOT NULL,
		finished_at_ms BIGINT NOT NULL
	);
	`

	createRouteResultsQuery := `
	CREATE TABLE IF NOT EXISTS route_results (
		batch_id TEXT NOT NULL REFERENCES batch_runs(batch_id) ON DELETE CASCADE,
		row_index INTEGER NOT NULL,
		duration_min DOUBLE PRECISION,
		distance_km DOUBLE PRECISION,
		status TEXT NOT NULL,
		PRIMARY KEY (batch_id, row_index)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_batch_runs_started_at
	ON batch_runs(started_at_ms);
	`

	statements := []string{
		createBatchRunsQuery,
		createRouteResultsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
