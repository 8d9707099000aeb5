package domain

import "strconv"

// Represents a location in an instance.
// Idx indexes a precomputed travel-time matrix; Coordinates are only
// populated for planar instances served by a Euclidean provider.
type Node struct {
	Idx         int
	Coordinates Coordinates
}

func (n Node) String() string { return strconv.Itoa(n.Idx) }

// Contract for travel times between two nodes.
// Results are in provider units; divide by InstanceConfig.TravelTimeDivider to get seconds.
// Implementations must be safe for concurrent use.
type TravelTimeProvider interface {
	TravelTime(from Node, to Node) (int, error)
}
