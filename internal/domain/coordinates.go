package domain

import "math"

// Immutable planar coordinates used by benchmark instances without a road network.
type Coordinates struct {
	X float64
	Y float64
}

// Return the straight-line distance between two coordinates.
func (c Coordinates) DistanceTo(o Coordinates) float64 {
	return math.Hypot(c.X-o.X, c.Y-o.Y)
}
