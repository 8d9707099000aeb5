package services

import (
	"darp-checker/internal/adapters/traveltime"
	"darp-checker/internal/domain"
	"reflect"
	"testing"
	"time"
)

func checkSinglePlan(t *testing.T, checker *SolutionChecker, inst *domain.Instance, plan domain.VehiclePlan) (PlanResult, *Accumulator) {
	t.Helper()

	acc := NewAccumulator()
	res, err := checker.CheckPlan(&plan, 1, inst, map[int]struct{}{}, acc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res, acc
}

func TestCheckPlanCapacity(t *testing.T) {
	reqs := defaultRequests()
	v := depotVehicle(0, 1)
	inst := newInstance(t, domain.InstanceConfig{}, reqs, []*domain.Vehicle{v}, nil)

	res, acc := checkSinglePlan(t, newChecker(10), inst, servingPlan(v, reqs, nil))

	if res.OK {
		t.Fatalf("OK = true, want false")
	}
	if got := kinds(acc.Violations); !reflect.DeepEqual(got, []ViolationKind{KindCapacity}) {
		t.Fatalf("violations = %v, want [capacity]", got)
	}
	if acc.Violations[0].Action != 2 {
		t.Fatalf("capacity violation on action %d, want 2", acc.Violations[0].Action)
	}
}

func TestCheckPlanEquipmentConfigurations(t *testing.T) {
	tests := []struct {
		name           string
		configurations [][]int
		wantOK         bool
	}{
		{"one wheelchair seat", [][]int{{1, 2}}, false},
		{"alternative layout with two wheelchair seats", [][]int{{1, 2}, {1, 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs := defaultRequests()
			reqs[0].Equipment = 1
			reqs[1].Equipment = 1
			// capacity is ignored once configurations are set
			v := &domain.Vehicle{Index: 0, InitialPosition: &domain.Node{Idx: 0}, Capacity: 0, Configurations: tt.configurations}
			inst := newInstance(t, domain.InstanceConfig{}, reqs, []*domain.Vehicle{v}, nil)

			res, acc := checkSinglePlan(t, newChecker(10), inst, servingPlan(v, reqs, nil))

			if res.OK != tt.wantOK {
				t.Fatalf("OK = %v, want %v (violations %v)", res.OK, tt.wantOK, acc.Violations)
			}
			if !tt.wantOK && !reflect.DeepEqual(kinds(acc.Violations), []ViolationKind{KindEquipment}) {
				t.Fatalf("violations = %v, want [equipment]", kinds(acc.Violations))
			}
		})
	}
}

func TestCheckPlanEquipmentSeatIsReleasedOnDropOff(t *testing.T) {
	reqs := defaultRequests()
	reqs[0].Equipment = 1
	reqs[1].Equipment = 1
	v := &domain.Vehicle{Index: 0, InitialPosition: &domain.Node{Idx: 0}, Configurations: [][]int{{1, 2}}}
	inst := newInstance(t, domain.InstanceConfig{}, reqs, []*domain.Vehicle{v}, nil)

	// one wheelchair seat, used by r0 and then by r1
	plan := newPlan(v, 0, 1250, fptr(1250),
		visit(reqs[0].Pickup, 300, 300),
		visit(reqs[0].DropOff, 700, 700),
		visit(reqs[1].Pickup, 950, 950),
		visit(reqs[1].DropOff, 1250, 1250),
	)
	res, acc := checkSinglePlan(t, newChecker(10), inst, plan)

	if !res.OK {
		t.Fatalf("OK = false, violations: %v", acc.Violations)
	}
	if len(acc.Violations) != 0 {
		t.Fatalf("violations = %v, want none", acc.Violations)
	}
	if res.Cost != 1250 {
		t.Fatalf("cost = %v, want 1250", res.Cost)
	}
}

func TestEquipmentFits(t *testing.T) {
	configurations := [][]int{{1, 2}, {2, 2}}

	tests := []struct {
		used []int
		code int
		want bool
	}{
		{nil, 1, true},
		{[]int{1}, 2, true},
		{[]int{1}, 1, false},
		{[]int{2}, 2, true},
		{[]int{2, 2}, 1, false},
		{[]int{2, 2}, 2, false},
		{nil, 3, false},
	}
	for _, tt := range tests {
		if got := equipmentFits(configurations, tt.used, tt.code); got != tt.want {
			t.Fatalf("equipmentFits(used=%v, code=%d) = %v, want %v", tt.used, tt.code, got, tt.want)
		}
	}

	if got := releaseSeat([]int{2, 1, 2}, 2); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("releaseSeat = %v, want [1 2]", got)
	}
}

func TestCheckPlanRequiredVehicle(t *testing.T) {
	reqs := defaultRequests()
	reqs[0].RequiredVehicleID = 5
	v := depotVehicle(1, 2)
	inst := newInstance(t, domain.InstanceConfig{}, reqs, []*domain.Vehicle{v}, nil)

	res, acc := checkSinglePlan(t, newChecker(10), inst, servingPlan(v, reqs, nil))

	if res.OK {
		t.Fatalf("OK = true, want false")
	}
	if got := kinds(acc.Violations); !reflect.DeepEqual(got, []ViolationKind{KindRequiredVehicle, KindRequiredVehicle}) {
		t.Fatalf("violations = %v, want required_vehicle on pickup and drop-off", got)
	}
}

func TestCheckPlanDutyCycle(t *testing.T) {
	cfg := domain.InstanceConfig{MaxPauseInterval: 500 * time.Second, MinPauseLength: 60 * time.Second}

	t.Run("no pause", func(t *testing.T) {
		reqs := defaultRequests()
		v := depotVehicle(0, 2)
		inst := newInstance(t, cfg, reqs, []*domain.Vehicle{v}, nil)

		res, acc := checkSinglePlan(t, newChecker(10), inst, servingPlan(v, reqs, nil))

		if res.OK {
			t.Fatalf("OK = true, want false")
		}
		if got := kinds(acc.Violations); !reflect.DeepEqual(got, []ViolationKind{KindDutyCycle, KindDutyCycle}) {
			t.Fatalf("violations = %v, want duty_cycle on both drop-offs", got)
		}
	})

	t.Run("wait resets driving time", func(t *testing.T) {
		reqs := defaultRequests()
		reqs[1].Pickup.MinTime = at(500)
		v := depotVehicle(0, 2)
		inst := newInstance(t, cfg, reqs, []*domain.Vehicle{v}, nil)

		plan := newPlan(v, 0, 900, nil,
			visit(reqs[0].Pickup, 300, 300),
			visit(reqs[1].Pickup, 400, 500),
			visit(reqs[0].DropOff, 750, 750),
			visit(reqs[1].DropOff, 900, 900),
		)
		res, acc := checkSinglePlan(t, newChecker(10), inst, plan)

		if !res.OK || len(acc.Violations) != 0 {
			t.Fatalf("OK = %v, violations = %v, want OK", res.OK, acc.Violations)
		}
	})

	t.Run("short wait keeps driving time", func(t *testing.T) {
		reqs := defaultRequests()
		reqs[1].Pickup.MinTime = at(430)
		v := depotVehicle(0, 2)
		inst := newInstance(t, cfg, reqs, []*domain.Vehicle{v}, nil)

		plan := newPlan(v, 0, 830, nil,
			visit(reqs[0].Pickup, 300, 300),
			visit(reqs[1].Pickup, 400, 430),
			visit(reqs[0].DropOff, 680, 680),
			visit(reqs[1].DropOff, 830, 830),
		)
		res, acc := checkSinglePlan(t, newChecker(10), inst, plan)

		if res.OK || !hasKind(acc.Violations, KindDutyCycle) {
			t.Fatalf("OK = %v, violations = %v, want duty_cycle", res.OK, kinds(acc.Violations))
		}
	})
}

func TestCheckPlanReturnToDepotAndRouteDuration(t *testing.T) {
	reqs := defaultRequests()
	v := depotVehicle(0, 2)
	cfg := domain.InstanceConfig{ReturnToDepot: true, MaxRouteDuration: 1000 * time.Second}
	inst := newInstance(t, cfg, reqs, []*domain.Vehicle{v}, nil)

	res, acc := checkSinglePlan(t, newChecker(10), inst, servingPlan(v, reqs, nil))

	if res.Cost != 1250 {
		t.Fatalf("cost = %v, want 1250", res.Cost)
	}
	if got := kinds(acc.Violations); !reflect.DeepEqual(got, []ViolationKind{KindRouteDuration}) {
		t.Fatalf("violations = %v, want [route_duration]", got)
	}
}

func TestCheckPlanVirtualVehicles(t *testing.T) {
	reqs := defaultRequests()
	v := &domain.Vehicle{Index: 0, Capacity: 2, TimeToStart: 120 * time.Second}
	cfg := domain.InstanceConfig{VirtualVehicles: true, ReturnToDepot: true}
	inst := newInstance(t, cfg, reqs, []*domain.Vehicle{v}, nil)

	sol := &domain.Solution{
		Plans: []domain.VehiclePlan{
			newPlan(v, 0, 520, fptr(520), visit(reqs[0].Pickup, 120, 120), visit(reqs[0].DropOff, 520, 520)),
			newPlan(v, 0, 420, fptr(420), visit(reqs[1].Pickup, 120, 120), visit(reqs[1].DropOff, 420, 420)),
		},
		Cost:     fptr(940),
		Feasible: true,
	}

	res, err := newChecker(10).CheckSolution(inst, sol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Fatalf("OK = false, violations = %v", res.Violations)
	}
	if res.Cost != 940 {
		t.Fatalf("cost = %v, want 940", res.Cost)
	}
}

func TestCheckPlanStartTimeFloor(t *testing.T) {
	reqs := defaultRequests()
	v := depotVehicle(0, 2)
	inst := newInstance(t, domain.InstanceConfig{StartTime: at(100)}, reqs, []*domain.Vehicle{v}, nil)

	res, acc := checkSinglePlan(t, newChecker(10), inst, servingPlan(v, reqs, nil))

	if res.OK {
		t.Fatalf("OK = true, want false")
	}
	if got := acc.Failures[FailurePlanDepartureTime]; got != 1 {
		t.Fatalf("plan_departure_time failures = %d, want 1", got)
	}
}

func TestCheckPlanOperationWindow(t *testing.T) {
	reqs := defaultRequests()
	v := depotVehicle(0, 2)
	v.OperationStart = at(50)
	v.OperationEnd = at(700)
	inst := newInstance(t, domain.InstanceConfig{}, reqs, []*domain.Vehicle{v}, nil)

	_, acc := checkSinglePlan(t, newChecker(10), inst, servingPlan(v, reqs, nil))

	if got := kinds(acc.Violations); !reflect.DeepEqual(got, []ViolationKind{KindOperationStart, KindOperationEnd}) {
		t.Fatalf("violations = %v, want [operation_start operation_end]", got)
	}
}

func TestCheckPlanArrivalMismatchIsWarning(t *testing.T) {
	reqs := defaultRequests()
	v := depotVehicle(0, 2)
	inst := newInstance(t, domain.InstanceConfig{}, reqs, []*domain.Vehicle{v}, nil)

	plan := servingPlan(v, reqs, nil)
	within := at(301)
	plan.Actions[0].ArrivalTime = &within
	off := at(410)
	plan.Actions[1].ArrivalTime = &off

	checker := newChecker(10)
	res, acc := checkSinglePlan(t, checker, inst, plan)

	if !res.OK {
		t.Fatalf("OK = false, want true (warnings do not fail a plan)")
	}
	if len(acc.Violations) != 1 || acc.Violations[0].Kind != KindArrivalMismatch || !acc.Violations[0].Warning {
		t.Fatalf("violations = %+v, want one arrival_mismatch warning", acc.Violations)
	}
	if checker.Budget().Count() != 1 {
		t.Fatalf("budget count = %d, want 1", checker.Budget().Count())
	}
}

func TestCheckPlanDepartureSnapAndWarning(t *testing.T) {
	t.Run("later recorded departure moves the clock", func(t *testing.T) {
		reqs := defaultRequests()
		v := depotVehicle(0, 2)
		inst := newInstance(t, domain.InstanceConfig{}, reqs, []*domain.Vehicle{v}, nil)

		plan := newPlan(v, 0, 850, nil,
			visit(reqs[0].Pickup, 300, 350),
			visit(reqs[1].Pickup, 450, 450),
			visit(reqs[0].DropOff, 700, 700),
			visit(reqs[1].DropOff, 850, 850),
		)
		res, acc := checkSinglePlan(t, newChecker(10), inst, plan)

		if !res.OK || len(acc.Violations) != 0 {
			t.Fatalf("OK = %v, violations = %v, want clean", res.OK, acc.Violations)
		}
	})

	t.Run("service time beyond recorded departure", func(t *testing.T) {
		reqs := defaultRequests()
		reqs[0].Pickup.ServiceTime = 60 * time.Second
		v := depotVehicle(0, 2)
		inst := newInstance(t, domain.InstanceConfig{}, reqs, []*domain.Vehicle{v}, nil)

		res, acc := checkSinglePlan(t, newChecker(10), inst, servingPlan(v, reqs, nil))

		if !res.OK {
			t.Fatalf("OK = false, want true")
		}
		if got := kinds(acc.Violations); !reflect.DeepEqual(got, []ViolationKind{KindDepartureMismatch}) {
			t.Fatalf("violations = %v, want [departure_mismatch]", got)
		}
	})
}

func TestCheckPlanTravelTimeDivider(t *testing.T) {
	reqs := defaultRequests()
	v := depotVehicle(0, 2)
	pairs := []traveltime.FixedPair{{From: 0, To: 1, Seconds: 300_500}, {From: 1, To: 2, Seconds: 400_250}}
	inst := newInstance(t, domain.InstanceConfig{TravelTimeDivider: 1000}, reqs, []*domain.Vehicle{v}, pairs)

	plan := newPlan(v, 0, 700, fptr(700.75), visit(reqs[0].Pickup, 300, 300), visit(reqs[0].DropOff, 700, 700))
	res, acc := checkSinglePlan(t, newChecker(10), inst, plan)

	if !res.OK || len(acc.Violations) != 0 {
		t.Fatalf("OK = %v, violations = %v, want clean", res.OK, acc.Violations)
	}
	if res.Cost != 700.75 {
		t.Fatalf("cost = %v, want 700.75", res.Cost)
	}
}

func TestCheckPlanMaxPickupDelay(t *testing.T) {
	reqs := defaultRequests()
	reqs[0].Pickup.MaxTime = at(200)
	v := depotVehicle(0, 2)

	strict := newInstance(t, domain.InstanceConfig{}, reqs, []*domain.Vehicle{v}, nil)
	_, acc := checkSinglePlan(t, newChecker(10), strict, servingPlan(v, reqs, nil))
	if !hasKind(acc.Violations, KindMaxTime) {
		t.Fatalf("violations = %v, want max_time", kinds(acc.Violations))
	}

	relaxed := newInstance(t, domain.InstanceConfig{MaxPickupDelay: 120 * time.Second}, reqs, []*domain.Vehicle{v}, nil)
	_, acc = checkSinglePlan(t, newChecker(10), relaxed, servingPlan(v, reqs, nil))
	if len(acc.Violations) != 0 {
		t.Fatalf("violations = %v, want none", kinds(acc.Violations))
	}
}

func TestCheckPlanMissingTravelTimeIsError(t *testing.T) {
	reqs := defaultRequests()
	v := depotVehicle(0, 2)
	inst := newInstance(t, domain.InstanceConfig{}, reqs, []*domain.Vehicle{v}, []traveltime.FixedPair{})

	plan := servingPlan(v, reqs, nil)
	checker := newChecker(10)
	_, err := checker.CheckPlan(&plan, 1, inst, map[int]struct{}{}, NewAccumulator())
	if err == nil {
		t.Fatalf("expected error for missing travel time")
	}
	if checker.Budget().Count() != 0 {
		t.Fatalf("structural errors must not be charged to the budget")
	}
}
