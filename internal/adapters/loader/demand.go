package loader

import (
	"bufio"
	"darp-checker/internal/domain"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

type demandOptions struct {
	maxProlongation time.Duration
	serviceTime     time.Duration
	divider         float64
}

// Parse a whitespace separated demand file:
//
//	request_id request_time_ms origin destination [equipment [vehicle_id]]
//
// Blank lines and lines starting with '#' are skipped.
func readDemand(r io.Reader, travelTimes domain.TravelTimeProvider, opts demandOptions) ([]*domain.Request, error) {
	scanner := bufio.NewScanner(r)
	var requests []*domain.Request
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 4 {
			return nil, fmt.Errorf("demand line %d: want at least 4 columns, got %d", line, len(fields))
		}
		values := make([]int64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("demand line %d column %d: %w", line, i+1, err)
			}
			values[i] = v
		}

		origin := domain.Node{Idx: int(values[2])}
		destination := domain.Node{Idx: int(values[3])}
		tt, err := travelTimes.TravelTime(origin, destination)
		if err != nil {
			return nil, fmt.Errorf("demand line %d: min travel time: %w", line, err)
		}
		minTravel := seconds(float64(tt) / opts.divider)

		pickupMin := time.UnixMilli(values[1]).UTC()
		pickupMax := pickupMin.Add(opts.maxProlongation)
		actionID := 2 * len(requests)

		req := domain.NewRequest(int(values[0]),
			domain.ActionSpec{ID: actionID, Node: origin, MinTime: pickupMin, MaxTime: pickupMax, ServiceTime: opts.serviceTime},
			domain.ActionSpec{ID: actionID + 1, Node: destination, MinTime: pickupMin.Add(minTravel), MaxTime: pickupMax.Add(minTravel), ServiceTime: opts.serviceTime},
			minTravel,
		)
		if len(values) > 4 {
			req.Equipment = int(values[4])
		}
		if len(values) > 5 {
			req.RequiredVehicleID = int(values[5])
		}
		requests = append(requests, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read demand: %w", err)
	}
	return requests, nil
}
