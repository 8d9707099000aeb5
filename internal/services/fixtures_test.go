package services

import (
	"darp-checker/internal/adapters/traveltime"
	"darp-checker/internal/domain"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var base = domain.UnixSeconds(1_700_000_000)

// Return base shifted by sec seconds.
func at(sec int) time.Time { return base.Add(time.Duration(sec) * time.Second) }

func fptr(f float64) *float64 { return &f }

var defaultPairs = []traveltime.FixedPair{
	{From: 0, To: 1, Seconds: 300},
	{From: 1, To: 2, Seconds: 400},
	{From: 1, To: 3, Seconds: 100},
	{From: 3, To: 2, Seconds: 250},
	{From: 2, To: 4, Seconds: 150},
	{From: 2, To: 3, Seconds: 250},
	{From: 3, To: 4, Seconds: 300},
	{From: 2, To: 0, Seconds: 500},
	{From: 4, To: 0, Seconds: 450},
	{From: 0, To: 3, Seconds: 350},
}

type requestWindow struct {
	pickupNode, dropNode int
	pickupMin, pickupMax int
	dropMin, dropMax     int
	minTravel            int
}

func newRequest(index int, w requestWindow) *domain.Request {
	return domain.NewRequest(index,
		domain.ActionSpec{ID: 2 * index, Node: domain.Node{Idx: w.pickupNode}, MinTime: at(w.pickupMin), MaxTime: at(w.pickupMax)},
		domain.ActionSpec{ID: 2*index + 1, Node: domain.Node{Idx: w.dropNode}, MinTime: at(w.dropMin), MaxTime: at(w.dropMax)},
		time.Duration(w.minTravel)*time.Second,
	)
}

// Two requests: r0 from node 1 to node 2 and r1 from node 3 to node 4.
func defaultRequests() []*domain.Request {
	return []*domain.Request{
		newRequest(0, requestWindow{pickupNode: 1, dropNode: 2, pickupMin: 0, pickupMax: 1000, dropMin: 400, dropMax: 3000, minTravel: 400}),
		newRequest(1, requestWindow{pickupNode: 3, dropNode: 4, pickupMin: 0, pickupMax: 2000, dropMin: 300, dropMax: 4000, minTravel: 300}),
	}
}

func depotVehicle(index int, capacity int) *domain.Vehicle {
	return &domain.Vehicle{Index: index, InitialPosition: &domain.Node{Idx: 0}, Capacity: capacity}
}

func newInstance(t *testing.T, cfg domain.InstanceConfig, requests []*domain.Request, vehicles []*domain.Vehicle, pairs []traveltime.FixedPair) *domain.Instance {
	t.Helper()

	if pairs == nil {
		pairs = defaultPairs
	}
	inst, err := domain.NewInstance(requests, vehicles, traveltime.NewFixedProvider(pairs), cfg)
	if err != nil {
		t.Fatalf("NewInstance returned error: %v", err)
	}
	return inst
}

func visit(a *domain.Action, arrival int, departure int) domain.ActionData {
	arr := at(arrival)
	return domain.ActionData{Action: a, ArrivalTime: &arr, DepartureTime: at(departure)}
}

func newPlan(v *domain.Vehicle, departure int, arrival int, cost *float64, visits ...domain.ActionData) domain.VehiclePlan {
	return domain.VehiclePlan{
		Vehicle:       v,
		Cost:          cost,
		Actions:       visits,
		DepartureTime: at(departure),
		ArrivalTime:   at(arrival),
	}
}

func newChecker(maxErrors int) *SolutionChecker {
	return NewSolutionChecker(NewErrorBudget(maxErrors)).WithLogger(zerolog.Nop())
}

func kinds(vs []Violation) []ViolationKind {
	out := make([]ViolationKind, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Kind)
	}
	return out
}

func hasKind(vs []Violation, kind ViolationKind) bool {
	for _, v := range vs {
		if v.Kind == kind {
			return true
		}
	}
	return false
}
