package traveltime

import (
	"darp-checker/internal/domain"
	"math"
)

// Euclidean derives travel times from planar node coordinates.
// Resolution scales the distance into provider units, e.g. 60 turns minutes into seconds.
type Euclidean struct {
	Resolution float64
}

func NewEuclidean(resolution float64) *Euclidean {
	if resolution <= 0 {
		resolution = 1
	}
	return &Euclidean{Resolution: resolution}
}

func (e *Euclidean) TravelTime(from domain.Node, to domain.Node) (int, error) {
	return int(math.Round(from.Coordinates.DistanceTo(to.Coordinates) * e.Resolution)), nil
}
