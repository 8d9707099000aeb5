package domain

import (
	"errors"
	"fmt"
	"time"
)

// Input for one of the two actions of a request.
type ActionSpec struct {
	ID          int
	Node        Node
	MinTime     time.Time
	MaxTime     time.Time
	ServiceTime time.Duration
}

// Represents a transportation request: one pickup and one drop-off.
// Equipment 0 means the passenger needs no special seat; RequiredVehicleID 0
// means any vehicle may serve the request.
type Request struct {
	Index             int
	Pickup            *Action
	DropOff           *Action
	MinTravelTime     time.Duration
	Equipment         int
	RequiredVehicleID int
}

// Build a request and both of its actions.
func NewRequest(index int, pickup ActionSpec, dropOff ActionSpec, minTravelTime time.Duration) *Request {
	r := &Request{Index: index, MinTravelTime: minTravelTime}
	r.Pickup = &Action{
		ID:          pickup.ID,
		Node:        pickup.Node,
		MinTime:     pickup.MinTime,
		MaxTime:     pickup.MaxTime,
		Type:        Pickup,
		Request:     r,
		ServiceTime: pickup.ServiceTime,
	}
	r.DropOff = &Action{
		ID:          dropOff.ID,
		Node:        dropOff.Node,
		MinTime:     dropOff.MinTime,
		MaxTime:     dropOff.MaxTime,
		Type:        DropOff,
		Request:     r,
		ServiceTime: dropOff.ServiceTime,
	}
	return r
}

// Return the action of the given type.
func (r *Request) Action(t ActionType) (*Action, error) {
	switch t {
	case Pickup:
		return r.Pickup, nil
	case DropOff:
		return r.DropOff, nil
	default:
		return nil, fmt.Errorf("request %d: unknown action type %s", r.Index, t)
	}
}

// Validate checks the structural invariants of a request.
func (r *Request) Validate() error {
	if r.Pickup == nil || r.DropOff == nil {
		return fmt.Errorf("validate request %d: both actions are required", r.Index)
	}
	if r.Pickup.Request != r || r.DropOff.Request != r {
		return fmt.Errorf("validate request %d: actions must reference their request", r.Index)
	}
	if r.Equipment < 0 {
		return fmt.Errorf("validate request %d: negative equipment code %d", r.Index, r.Equipment)
	}
	earliest := r.Pickup.MinTime.Add(r.MinTravelTime)
	if r.DropOff.MinTime.Before(earliest) {
		return fmt.Errorf(
			"validate request %d: drop-off min time %s is before pickup min time plus min travel time %s: %w",
			r.Index, r.DropOff.MinTime.Format(time.DateTime), earliest.Format(time.DateTime), ErrInconsistentTimeWindow,
		)
	}
	return nil
}

var ErrInconsistentTimeWindow = errors.New("inconsistent time window")
