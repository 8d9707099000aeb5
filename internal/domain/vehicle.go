package domain

import "time"

// Represents a vehicle of the fleet.
//
// Capacity is ignored when Configurations is non-empty: each configuration is
// one valid seat layout listing the equipment code of every seat.
// A nil InitialPosition marks a virtual vehicle, which reaches its first stop
// after TimeToStart instead of driving from a depot.
type Vehicle struct {
	Index           int
	InitialPosition *Node
	Capacity        int
	Configurations  [][]int
	OperationStart  time.Time
	OperationEnd    time.Time
	TimeToStart     time.Duration
}

func (v *Vehicle) IsVirtual() bool { return v.InitialPosition == nil }

// Report whether seats are modeled by configurations instead of plain capacity.
func (v *Vehicle) UsesConfigurations() bool { return len(v.Configurations) > 0 }
