package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema used to store check results.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSolutionChecksQuery := `
	CREATE TABLE IF NOT EXISTS solution_checks (
		run_id TEXT NOT NULL,
		solution_path TEXT NOT NULL,
		instance_path TEXT NOT NULL,
		area TEXT NOT NULL,
		ok BOOLEAN NOT NULL,
		plan_departure_time_failures INTEGER NOT NULL,
		violations INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		cost DOUBLE PRECISION NOT NULL,
		checked_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (run_id, solution_path)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_solution_checks_area_ok
	ON solution_checks(area, ok);
	`

	statements := []string{
		createSolutionChecksQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
