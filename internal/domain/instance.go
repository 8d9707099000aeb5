package domain

import (
	"fmt"
	"time"
)

// Policy knobs shared by every plan of an instance.
// Zero durations disable the corresponding check.
type InstanceConfig struct {
	MaxRouteDuration    time.Duration
	MaxRideTime         time.Duration
	ReturnToDepot       bool
	VirtualVehicles     bool
	StartTime           time.Time
	MinPauseLength      time.Duration
	MaxPauseInterval    time.Duration
	TravelTimeDivider   float64
	MaxPickupDelay      time.Duration
	EnableNegativeDelay bool
	VehicleCapacity     int
}

// Return the travel-time divider, treating an unset value as 1.
func (c InstanceConfig) Divider() float64 {
	if c.TravelTimeDivider <= 0 {
		return 1
	}
	return c.TravelTimeDivider
}

// Represents an immutable DARP problem instance.
type Instance struct {
	Requests    []*Request
	RequestMap  map[int]*Request
	Vehicles    []*Vehicle
	TravelTimes TravelTimeProvider
	Config      InstanceConfig
}

// Build an instance and index its requests.
func NewInstance(requests []*Request, vehicles []*Vehicle, travelTimes TravelTimeProvider, cfg InstanceConfig) (*Instance, error) {
	if travelTimes == nil {
		return nil, fmt.Errorf("new instance: travel time provider is required")
	}
	byIndex := make(map[int]*Request, len(requests))
	for _, r := range requests {
		if _, dup := byIndex[r.Index]; dup {
			return nil, fmt.Errorf("new instance: duplicate request index %d", r.Index)
		}
		byIndex[r.Index] = r
	}
	seen := make(map[int]struct{}, len(vehicles))
	for _, v := range vehicles {
		if _, dup := seen[v.Index]; dup {
			return nil, fmt.Errorf("new instance: duplicate vehicle index %d", v.Index)
		}
		seen[v.Index] = struct{}{}
	}
	return &Instance{
		Requests:    requests,
		RequestMap:  byIndex,
		Vehicles:    vehicles,
		TravelTimes: travelTimes,
		Config:      cfg,
	}, nil
}

// Return the vehicle with the given index, or nil.
func (inst *Instance) Vehicle(index int) *Vehicle {
	for _, v := range inst.Vehicles {
		if v.Index == index {
			return v
		}
	}
	return nil
}

// Validate runs Request.Validate on every request and collects the failures.
func (inst *Instance) Validate() []error {
	var errs []error
	for _, r := range inst.Requests {
		if err := r.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
