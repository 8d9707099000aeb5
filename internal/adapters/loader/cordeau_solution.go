package loader

import (
	"bufio"
	"darp-checker/internal/domain"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Route line of a Cordeau solution: vehicle number, duration, max load, wait,
// transit, the depot start (b: begin) and the visited stops.
var (
	cordeauRouteLine = regexp.MustCompile(`^([0-9]+) +D: +([0-9.]+) Q: +([0-9.]+) W: +([0-9.]+) T: +([0-9.]+) +[0-9]+ +\(b:([0-9.]+); +t:[0-9.]+; +q:[0-9.]+\)((?: +[0-9]+ +\(w:[0-9.]+ +a:[0-9.]+; +t:[0-9.]+; q:[0-9.]+\))*)`)
	cordeauStopVisit = regexp.MustCompile(` +([0-9]+) +\(w:([0-9.]+) +a:([0-9.]+); +t:([0-9.]+); q:([0-9.]+)\)`)
)

// Decode a Cordeau benchmark solution for an instance read by LoadCordeau.
//
// The first line is the total cost in minutes. Each route line lists its stops
// by node id; the last stop is the return to the depot. A stop arrives at a:
// and waits w: minutes before its service starts. Lines that are not routes are skipped.
func DecodeCordeauSolution(r io.Reader, inst *domain.Instance) (*domain.Solution, error) {
	actions := make(map[int]*domain.Action, 2*len(inst.Requests))
	for _, req := range inst.Requests {
		actions[req.Pickup.ID] = req.Pickup
		actions[req.DropOff.ID] = req.DropOff
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	sol := &domain.Solution{DroppedRequests: map[int]struct{}{}, Feasible: true}
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if sol.Cost == nil {
			total, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("decode cordeau solution: line %d: total cost: %w", line, err)
			}
			cost := math.Round(total * 60)
			sol.Cost = &cost
			continue
		}

		m := cordeauRouteLine.FindStringSubmatch(text)
		if m == nil {
			log.Debug().Int("line", line).Msg("skipping non-route line in cordeau solution")
			continue
		}
		plan, err := cordeauPlan(m, actions, inst)
		if err != nil {
			return nil, fmt.Errorf("decode cordeau solution: line %d: %w", line, err)
		}
		sol.Plans = append(sol.Plans, plan)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("decode cordeau solution: %w", err)
	}
	if sol.Cost == nil {
		return nil, fmt.Errorf("decode cordeau solution: empty file")
	}

	return sol, nil
}

func cordeauPlan(m []string, actions map[int]*domain.Action, inst *domain.Instance) (domain.VehiclePlan, error) {
	number, _ := strconv.Atoi(m[1])
	vehicle := inst.Vehicle(number - 1)
	if vehicle == nil {
		return domain.VehiclePlan{}, fmt.Errorf("vehicle %d: %w", number, ErrUnknownVehicle)
	}
	duration, _ := strconv.ParseFloat(m[2], 64)
	begin, _ := strconv.ParseFloat(m[6], 64)

	stops := cordeauStopVisit.FindAllStringSubmatch(m[7], -1)
	if len(stops) == 0 {
		return domain.VehiclePlan{}, fmt.Errorf("vehicle %d: route has no return to the depot", number)
	}

	plan := domain.VehiclePlan{
		Vehicle:       vehicle,
		DepartureTime: minutesToTime(begin),
	}

	totalWait := 0.0
	var serviceTime time.Duration
	for _, stop := range stops[:len(stops)-1] {
		id, _ := strconv.Atoi(stop[1])
		action, ok := actions[id]
		if !ok {
			return domain.VehiclePlan{}, fmt.Errorf("vehicle %d: stop %d: %w", number, id, ErrUnknownRequest)
		}
		wait, _ := strconv.ParseFloat(stop[2], 64)
		arrival, _ := strconv.ParseFloat(stop[3], 64)

		arrivalTime := minutesToTime(arrival)
		plan.Actions = append(plan.Actions, domain.ActionData{
			Action:        action,
			ArrivalTime:   &arrivalTime,
			DepartureTime: minutesToTime(arrival + wait).Add(action.ServiceTime),
		})
		totalWait += wait
		serviceTime += action.ServiceTime
	}

	last := stops[len(stops)-1]
	back, _ := strconv.ParseFloat(last[3], 64)
	plan.ArrivalTime = minutesToTime(back)

	cost := math.Round((duration-totalWait)*60) - serviceTime.Seconds()
	plan.Cost = &cost

	return plan, nil
}

func minutesToTime(minutes float64) time.Time {
	return domain.UnixSeconds(int64(math.Round(minutes * 60)))
}
