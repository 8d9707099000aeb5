package services

import (
	"darp-checker/internal/domain"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Outcome of checking a single vehicle plan.
type PlanResult struct {
	OK     bool
	Cost   float64
	Served map[int]struct{}
}

// SolutionChecker verifies candidate solutions against their instance.
//
// The checker never mutates the instance or the solution. Every violation and
// warning is charged to the shared error budget; a check aborts with
// ErrErrorBudgetExceeded once it is exhausted.
type SolutionChecker struct {
	budget *ErrorBudget
	logger zerolog.Logger
}

func NewSolutionChecker(budget *ErrorBudget) *SolutionChecker {
	if budget == nil {
		budget = NewErrorBudget(DefaultMaxErrors)
	}
	return &SolutionChecker{budget: budget, logger: log.Logger}
}

// Use logger instead of the global logger.
func (c *SolutionChecker) WithLogger(logger zerolog.Logger) *SolutionChecker {
	c.logger = logger
	return c
}

func (c *SolutionChecker) Budget() *ErrorBudget { return c.budget }

func (c *SolutionChecker) record(acc *Accumulator, v Violation) error {
	acc.Violations = append(acc.Violations, v)

	ev := c.logger.Warn().Str("kind", string(v.Kind))
	if v.Plan > 0 {
		ev = ev.Int("plan", v.Plan)
	}
	if v.Action > 0 {
		ev = ev.Int("action", v.Action)
	}
	if v.Request >= 0 {
		ev = ev.Int("request", v.Request)
	}
	ev.Bool("warning", v.Warning).Msg(v.Message)

	return c.budget.Increment()
}

// Simulate one vehicle plan and validate every hard constraint along it.
//
// planNumber is the 1-based position of the plan in its solution. usedVehicles
// collects vehicle indexes across the plans of one solution. Violations are
// appended to acc; the returned error is only set for structural problems
// (missing travel times) and for an exhausted error budget.
func (c *SolutionChecker) CheckPlan(
	plan *domain.VehiclePlan,
	planNumber int,
	inst *domain.Instance,
	usedVehicles map[int]struct{},
	acc *Accumulator,
) (PlanResult, error) {
	cfg := inst.Config
	vehicle := plan.Vehicle
	if vehicle == nil {
		return PlanResult{}, fmt.Errorf("check plan %d: plan has no vehicle", planNumber)
	}

	res := PlanResult{OK: true, Served: make(map[int]struct{})}

	fail := func(kind ViolationKind, action int, request int, format string, args ...any) error {
		res.OK = false
		return c.record(acc, Violation{
			Kind:    kind,
			Plan:    planNumber,
			Action:  action,
			Request: request,
			Message: fmt.Sprintf(format, args...),
		})
	}
	warn := func(kind ViolationKind, action int, request int, format string, args ...any) error {
		return c.record(acc, Violation{
			Kind:    kind,
			Plan:    planNumber,
			Action:  action,
			Request: request,
			Warning: true,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if !cfg.VirtualVehicles {
		if _, used := usedVehicles[vehicle.Index]; used {
			if err := fail(KindVehicleReuse, 0, -1, "vehicle %d is used in more than one plan", vehicle.Index); err != nil {
				return res, err
			}
		}
	}
	usedVehicles[vehicle.Index] = struct{}{}

	if !vehicle.OperationStart.IsZero() && plan.DepartureTime.Before(vehicle.OperationStart) {
		if err := fail(KindOperationStart, 0, -1,
			"departure %s is before the operation start %s of vehicle %d",
			formatTime(plan.DepartureTime), formatTime(vehicle.OperationStart), vehicle.Index,
		); err != nil {
			return res, err
		}
	}
	if !vehicle.OperationEnd.IsZero() && plan.ArrivalTime.After(vehicle.OperationEnd) {
		if err := fail(KindOperationEnd, 0, -1,
			"arrival %s is after the operation end %s of vehicle %d",
			formatTime(plan.ArrivalTime), formatTime(vehicle.OperationEnd), vehicle.Index,
		); err != nil {
			return res, err
		}
	}

	if !cfg.StartTime.IsZero() && plan.DepartureTime.Before(cfg.StartTime) {
		acc.Failures[FailurePlanDepartureTime]++
		if err := fail(KindPlanDeparture, 0, -1,
			"departure %s is before the instance start time %s",
			formatTime(plan.DepartureTime), formatTime(cfg.StartTime),
		); err != nil {
			return res, err
		}
	}

	divider := cfg.Divider()
	clock := plan.DepartureTime
	drivingStart := clock
	freeCapacity := vehicle.Capacity
	onboard := make(map[*domain.Request]struct{})
	pickupDepartures := make(map[*domain.Request]time.Time)
	var usedEquipment []int
	var previous *domain.Node
	cost := 0.0

	for i := range plan.Actions {
		visit := &plan.Actions[i]
		action := visit.Action
		if action == nil || action.Request == nil {
			return res, fmt.Errorf("check plan %d: action %d is not bound to a request", planNumber, i+1)
		}
		request := action.Request
		number := i + 1
		isPickup := action.Type == domain.Pickup

		if isPickup {
			onboard[request] = struct{}{}
		} else if _, ok := onboard[request]; ok {
			delete(onboard, request)
			res.Served[request.Index] = struct{}{}
		} else {
			if err := fail(KindPairing, number, request.Index,
				"drop-off of request %d without a preceding pickup in this plan", request.Index,
			); err != nil {
				return res, err
			}
		}

		var travel float64
		switch {
		case previous != nil:
			tt, err := inst.TravelTimes.TravelTime(*previous, action.Node)
			if err != nil {
				return res, fmt.Errorf("check plan %d: action %d: travel time: %w", planNumber, number, err)
			}
			travel = float64(tt) / divider
		case cfg.VirtualVehicles:
			travel = vehicle.TimeToStart.Seconds()
		case vehicle.InitialPosition != nil:
			tt, err := inst.TravelTimes.TravelTime(*vehicle.InitialPosition, action.Node)
			if err != nil {
				return res, fmt.Errorf("check plan %d: action %d: travel time: %w", planNumber, number, err)
			}
			travel = float64(tt) / divider
		default:
			return res, fmt.Errorf("check plan %d: vehicle %d has no initial position", planNumber, vehicle.Index)
		}
		clock = clock.Add(time.Duration(int64(travel)) * time.Second)
		cost += travel

		if visit.ArrivalTime != nil && absDuration(visit.ArrivalTime.Sub(clock)) > domain.TimeTolerance {
			if err := warn(KindArrivalMismatch, number, request.Index,
				"recorded arrival %s differs from computed arrival %s",
				formatTime(*visit.ArrivalTime), formatTime(clock),
			); err != nil {
				return res, err
			}
		}

		if limit := action.MaxTime.Add(cfg.MaxPickupDelay); clock.After(limit) {
			if err := fail(KindMaxTime, number, request.Index,
				"%s of request %d at %s is after its max time %s",
				action.Type, request.Index, formatTime(clock), formatTime(limit),
			); err != nil {
				return res, err
			}
		}

		if !vehicle.UsesConfigurations() {
			if isPickup {
				if freeCapacity <= 0 {
					if err := fail(KindCapacity, number, request.Index,
						"vehicle %d is full when picking up request %d", vehicle.Index, request.Index,
					); err != nil {
						return res, err
					}
				}
				freeCapacity--
			} else {
				freeCapacity++
			}
		}

		if request.Equipment != 0 {
			if isPickup {
				if !equipmentFits(vehicle.Configurations, usedEquipment, request.Equipment) {
					if err := fail(KindEquipment, number, request.Index,
						"no free seat with equipment %d in vehicle %d (occupied %v)",
						request.Equipment, vehicle.Index, usedEquipment,
					); err != nil {
						return res, err
					}
				}
				usedEquipment = append(usedEquipment, request.Equipment)
			} else {
				usedEquipment = releaseSeat(usedEquipment, request.Equipment)
			}
		}

		if request.RequiredVehicleID != 0 && request.RequiredVehicleID != vehicle.Index {
			if err := fail(KindRequiredVehicle, number, request.Index,
				"request %d requires vehicle %d, served by vehicle %d",
				request.Index, request.RequiredVehicleID, vehicle.Index,
			); err != nil {
				return res, err
			}
		}

		if clock.Before(action.MinTime) {
			pause := action.MinTime.Sub(clock)
			clock = action.MinTime
			if pause > cfg.MinPauseLength {
				drivingStart = clock
			}
		}

		if cfg.MaxPauseInterval > 0 && clock.Sub(drivingStart) > cfg.MaxPauseInterval {
			if err := fail(KindDutyCycle, number, request.Index,
				"driving without a pause since %s exceeds %s",
				formatTime(drivingStart), cfg.MaxPauseInterval,
			); err != nil {
				return res, err
			}
		}

		if !isPickup && cfg.MaxRideTime > 0 {
			if departed, ok := pickupDepartures[request]; ok {
				if ride := clock.Sub(departed); ride > cfg.MaxRideTime {
					if err := fail(KindMaxRideTime, number, request.Index,
						"ride time %s of request %d exceeds %s", ride, request.Index, cfg.MaxRideTime,
					); err != nil {
						return res, err
					}
				}
			}
		}

		clock = clock.Add(action.ServiceTime)
		if limit := visit.DepartureTime.Add(cfg.MaxPickupDelay); clock.After(limit) {
			if err := warn(KindDepartureMismatch, number, request.Index,
				"computed departure %s is after recorded departure %s",
				formatTime(clock), formatTime(visit.DepartureTime),
			); err != nil {
				return res, err
			}
		}
		clock = visit.DepartureTime

		if isPickup {
			pickupDepartures[request] = clock
		}

		node := action.Node
		previous = &node
	}

	if previous != nil && cfg.ReturnToDepot && vehicle.InitialPosition != nil {
		tt, err := inst.TravelTimes.TravelTime(*previous, *vehicle.InitialPosition)
		if err != nil {
			return res, fmt.Errorf("check plan %d: return to depot: travel time: %w", planNumber, err)
		}
		travel := float64(tt) / divider
		clock = clock.Add(time.Duration(int64(travel)) * time.Second)
		cost += travel
	}

	if cfg.MaxRouteDuration > 0 {
		if duration := clock.Sub(plan.DepartureTime); duration > cfg.MaxRouteDuration {
			if err := fail(KindRouteDuration, 0, -1,
				"route duration %s exceeds %s", duration, cfg.MaxRouteDuration,
			); err != nil {
				return res, err
			}
		}
	}

	if plan.Cost != nil && math.Abs(cost-*plan.Cost) > domain.CostTolerance {
		if err := fail(KindPlanCost, 0, -1,
			"reported cost %.2f differs from computed cost %.2f", *plan.Cost, cost,
		); err != nil {
			return res, err
		}
	}

	res.Cost = cost

	if res.OK {
		c.logger.Debug().Int("plan", planNumber).Int("vehicle", vehicle.Index).Float64("cost", cost).Msg("plan OK")
	} else {
		c.logger.Warn().Int("plan", planNumber).Int("vehicle", vehicle.Index).Msg("plan NOT OK")
	}

	return res, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.DateTime)
}
