package ports

import (
	"context"
	"darp-checker/internal/domain"
)

// Port: a boundary for persisting batch check results.
type CheckResultRepository interface {
	// Store every record of one batch run under runID.
	SaveResults(ctx context.Context, runID string, records []domain.CheckRecord) error
}

// Port: reads back the results of a stored batch run.
type CheckResultQuery interface {
	ListResults(ctx context.Context, runID string) ([]domain.CheckRecord, error)
}
