package ports

import (
	"context"
	"darp-checker/internal/domain"
	"io"
)

// Port: loads problem instances.
type InstanceSource interface {
	// Load the instance at path. A non-nil travelTimes provider replaces the one
	// the instance would otherwise load from disk.
	LoadInstance(ctx context.Context, path string, travelTimes domain.TravelTimeProvider) (*domain.Instance, error)
}

// Port: loads solver output and resolves it against an instance.
type SolutionSource interface {
	LoadSolution(ctx context.Context, path string, inst *domain.Instance) (*domain.Solution, error)
}

// Port: resolves the instance an experiment was run on.
type ExperimentSource interface {
	InstancePath(ctx context.Context, configPath string) (string, error)
}

// Port: resolves solver output read from a stream, e.g. an HTTP request body.
type SolutionDecoder interface {
	DecodeSolution(r io.Reader, inst *domain.Instance) (*domain.Solution, error)
}
