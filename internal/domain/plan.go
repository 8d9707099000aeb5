package domain

import "time"

// Represents one visited stop of a vehicle plan.
// ArrivalTime is optional in solution files.
type ActionData struct {
	Action        *Action
	ArrivalTime   *time.Time
	DepartureTime time.Time
}

// Represents the ordered stops of one vehicle.
type VehiclePlan struct {
	Vehicle       *Vehicle
	Cost          *float64
	Actions       []ActionData
	DepartureTime time.Time
	ArrivalTime   time.Time
}
