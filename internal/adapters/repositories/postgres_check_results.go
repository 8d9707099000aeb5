package repositories

import (
	"context"
	"darp-checker/internal/domain"
	"darp-checker/internal/platform/obs"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the CheckResultRepository port.
type PostgresCheckResultRepository struct{ DB *sql.DB }

func NewPostgresCheckResultRepository(db *sql.DB) *PostgresCheckResultRepository {
	return &PostgresCheckResultRepository{DB: db}
}

// Store the records of one run. Re-running with the same run id overwrites earlier rows.
func (r *PostgresCheckResultRepository) SaveResults(ctx context.Context, runID string, records []domain.CheckRecord) (err error) {
	defer obs.Time(ctx, "check_results.SaveResults")(&err)

	if r.DB == nil {
		return errors.New("check result repository: DB is nil")
	}
	if runID == "" {
		return errors.New("save results: run id must not be empty")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save results: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO solution_checks (
		run_id,
		solution_path,
		instance_path,
		area,
		ok,
		plan_departure_time_failures,
		violations,
		warnings,
		cost,
		checked_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (run_id, solution_path) DO UPDATE SET
		instance_path = EXCLUDED.instance_path,
		area = EXCLUDED.area,
		ok = EXCLUDED.ok,
		plan_departure_time_failures = EXCLUDED.plan_departure_time_failures,
		violations = EXCLUDED.violations,
		warnings = EXCLUDED.warnings,
		cost = EXCLUDED.cost,
		checked_at = EXCLUDED.checked_at;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("save results: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			runID,
			rec.SolutionPath,
			rec.InstancePath,
			rec.Area,
			rec.OK,
			rec.PlanDepartureTimeFailures,
			rec.Violations,
			rec.Warnings,
			rec.Cost,
			rec.CheckedAt,
		)
		if err != nil {
			return fmt.Errorf("save results: insert %q: %w", rec.SolutionPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save results: commit tx: %w", err)
	}

	return nil
}

// Return the records of one run ordered by area and solution path.
func (r *PostgresCheckResultRepository) ListResults(ctx context.Context, runID string) (_ []domain.CheckRecord, err error) {
	defer obs.Time(ctx, "check_results.ListResults")(&err)

	if r.DB == nil {
		return nil, errors.New("check result repository: DB is nil")
	}

	query := `
	SELECT
		solution_path,
		instance_path,
		area,
		ok,
		plan_departure_time_failures,
		violations,
		warnings,
		cost,
		checked_at
	FROM solution_checks
	WHERE run_id = $1
	ORDER BY area, solution_path;
	`
	rows, err := r.DB.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list results: query solution_checks table: %w", err)
	}
	defer rows.Close()

	records := make([]domain.CheckRecord, 0, 64)
	for rows.Next() {
		var rec domain.CheckRecord
		err := rows.Scan(
			&rec.SolutionPath,
			&rec.InstancePath,
			&rec.Area,
			&rec.OK,
			&rec.PlanDepartureTimeFailures,
			&rec.Violations,
			&rec.Warnings,
			&rec.Cost,
			&rec.CheckedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list results: scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: row iteration: %w", err)
	}

	return records, nil
}
