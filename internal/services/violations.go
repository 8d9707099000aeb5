package services

import "fmt"

type ViolationKind string

const (
	KindVehicleReuse      ViolationKind = "vehicle_reuse"
	KindOperationStart    ViolationKind = "operation_start"
	KindOperationEnd      ViolationKind = "operation_end"
	KindPlanDeparture     ViolationKind = "plan_departure_time"
	KindPairing           ViolationKind = "pairing"
	KindArrivalMismatch   ViolationKind = "arrival_mismatch"
	KindMaxTime           ViolationKind = "max_time"
	KindCapacity          ViolationKind = "capacity"
	KindEquipment         ViolationKind = "equipment"
	KindRequiredVehicle   ViolationKind = "required_vehicle"
	KindDutyCycle         ViolationKind = "duty_cycle"
	KindMaxRideTime       ViolationKind = "max_ride_time"
	KindDepartureMismatch ViolationKind = "departure_mismatch"
	KindRouteDuration     ViolationKind = "route_duration"
	KindPlanCost          ViolationKind = "plan_cost"
	KindCoverage          ViolationKind = "coverage"
	KindSolutionCost      ViolationKind = "solution_cost"
	KindStructural        ViolationKind = "structural"
)

// Failure categories broken out in check results.
type Failure string

const FailurePlanDepartureTime Failure = "plan_departure_time"

// Per-category failure counts.
type Failures map[Failure]int

// Represents one problem found while checking a solution.
//
// Plan and Action are 1-based positions; zero means the violation is not tied
// to a plan or an action. Request is -1 when no request is involved.
// Warnings are counted toward the error budget but do not fail the plan.
type Violation struct {
	Kind    ViolationKind
	Plan    int
	Action  int
	Request int
	Warning bool
	Message string
}

func (v Violation) String() string {
	prefix := ""
	if v.Plan > 0 {
		prefix = fmt.Sprintf("plan %d: ", v.Plan)
	}
	if v.Action > 0 {
		prefix += fmt.Sprintf("action %d: ", v.Action)
	}
	return prefix + v.Message
}

// Accumulator collects failures and violations of one solution check.
type Accumulator struct {
	Failures   Failures
	Violations []Violation
}

func NewAccumulator() *Accumulator {
	return &Accumulator{Failures: Failures{}}
}

// Return the number of violations per kind.
func (a *Accumulator) CountByKind() map[string]int {
	out := make(map[string]int)
	for _, v := range a.Violations {
		out[string(v.Kind)]++
	}
	return out
}

// Return the number of hard failures and warnings.
func (a *Accumulator) Counts() (failures int, warnings int) {
	for _, v := range a.Violations {
		if v.Warning {
			warnings++
		} else {
			failures++
		}
	}
	return failures, warnings
}
