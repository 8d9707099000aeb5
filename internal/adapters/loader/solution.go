package loader

import (
	"darp-checker/internal/domain"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type solutionFile struct {
	Cost            *float64             `json:"cost"`
	Feasible        *bool                `json:"feasible"`
	Plans           []planFile           `json:"plans"`
	DroppedRequests []droppedRequestFile `json:"dropped_requests"`
}

type planFile struct {
	Vehicle struct {
		Index int `json:"index"`
	} `json:"vehicle"`
	Cost          *float64         `json:"cost"`
	Actions       []actionDataFile `json:"actions"`
	DepartureTime int64            `json:"departure_time"`
	ArrivalTime   int64            `json:"arrival_time"`
}

type actionDataFile struct {
	Action struct {
		Type         string `json:"type"`
		RequestIndex int    `json:"request_index"`
	} `json:"action"`
	ArrivalTime   *int64 `json:"arrival_time"`
	DepartureTime int64  `json:"departure_time"`
}

type droppedRequestFile struct {
	Index *int `json:"index"`
	ID    *int `json:"id"`
}

// Decode a JSON solution and bind its actions to the actions of inst.
// Timestamps are Unix seconds. A solution with "feasible": false is returned without plans.
func DecodeSolution(r io.Reader, inst *domain.Instance) (*domain.Solution, error) {
	var f solutionFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode solution: %w", err)
	}

	if f.Feasible != nil && !*f.Feasible {
		return &domain.Solution{Feasible: false, Cost: f.Cost}, nil
	}

	sol := &domain.Solution{
		Cost:            f.Cost,
		DroppedRequests: make(map[int]struct{}, len(f.DroppedRequests)),
		Feasible:        true,
	}

	for i, dr := range f.DroppedRequests {
		switch {
		case dr.Index != nil:
			sol.DroppedRequests[*dr.Index] = struct{}{}
		case dr.ID != nil:
			sol.DroppedRequests[*dr.ID] = struct{}{}
		default:
			return nil, fmt.Errorf("decode solution: dropped request %d has neither index nor id", i+1)
		}
	}

	sol.Plans = make([]domain.VehiclePlan, 0, len(f.Plans))
	for i, pf := range f.Plans {
		plan, err := bindPlan(pf, inst)
		if err != nil {
			return nil, fmt.Errorf("decode solution: plan %d: %w", i+1, err)
		}
		sol.Plans = append(sol.Plans, plan)
	}

	return sol, nil
}

func bindPlan(pf planFile, inst *domain.Instance) (domain.VehiclePlan, error) {
	var vehicle *domain.Vehicle
	if inst.Config.VirtualVehicles {
		if len(inst.Vehicles) > 0 {
			vehicle = inst.Vehicles[0]
		}
	} else {
		vehicle = inst.Vehicle(pf.Vehicle.Index)
	}
	if vehicle == nil {
		return domain.VehiclePlan{}, fmt.Errorf("vehicle %d: %w", pf.Vehicle.Index, ErrUnknownVehicle)
	}

	actions := make([]domain.ActionData, 0, len(pf.Actions))
	for j, af := range pf.Actions {
		request, ok := inst.RequestMap[af.Action.RequestIndex]
		if !ok {
			return domain.VehiclePlan{}, fmt.Errorf("action %d: request %d: %w", j+1, af.Action.RequestIndex, ErrUnknownRequest)
		}
		actionType, err := domain.ParseActionType(af.Action.Type)
		if err != nil {
			return domain.VehiclePlan{}, fmt.Errorf("action %d: %w", j+1, err)
		}
		action, err := request.Action(actionType)
		if err != nil {
			return domain.VehiclePlan{}, fmt.Errorf("action %d: %w", j+1, err)
		}

		var arrival *time.Time
		if af.ArrivalTime != nil {
			t := domain.UnixSeconds(*af.ArrivalTime)
			arrival = &t
		}
		actions = append(actions, domain.ActionData{
			Action:        action,
			ArrivalTime:   arrival,
			DepartureTime: domain.UnixSeconds(af.DepartureTime),
		})
	}

	return domain.VehiclePlan{
		Vehicle:       vehicle,
		Cost:          pf.Cost,
		Actions:       actions,
		DepartureTime: domain.UnixSeconds(pf.DepartureTime),
		ArrivalTime:   domain.UnixSeconds(pf.ArrivalTime),
	}, nil
}
