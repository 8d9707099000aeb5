package domain

import "errors"

// Solution files referencing requests or vehicles missing from their instance.
var (
	ErrUnknownRequest = errors.New("unknown request")
	ErrUnknownVehicle = errors.New("unknown vehicle")
)

// Represents a candidate solution produced by a solver.
// A solution with Feasible false carries no plans.
type Solution struct {
	Plans           []VehiclePlan
	Cost            *float64
	DroppedRequests map[int]struct{}
	Feasible        bool
}

func (s *Solution) IsDropped(requestIndex int) bool {
	_, ok := s.DroppedRequests[requestIndex]
	return ok
}
