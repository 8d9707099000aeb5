package loader

import (
	"bufio"
	"darp-checker/internal/adapters/traveltime"
	"darp-checker/internal/domain"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Travel-time units per coordinate unit in Cordeau benchmarks: coordinates are minutes, times are seconds.
const cordeauResolution = 60

type cordeauStop struct {
	id          int
	node        domain.Node
	serviceTime time.Duration
	minTime     time.Time
	maxTime     time.Time
}

// Load a Cordeau DARP benchmark instance.
//
// The header line holds vehicles, requests, max route duration, capacity and
// max ride time; the next line is the depot. Each stop line holds id, x, y,
// service time, load (1 for pickups, -1 for drop-offs), earliest and latest
// time. Drop-offs are paired with pickups in file order. All times are minutes.
func LoadCordeau(path string) (*domain.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load cordeau: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	readFields := func() ([]string, bool) {
		for scanner.Scan() {
			if fields := strings.Fields(scanner.Text()); len(fields) > 0 {
				return fields, true
			}
		}
		return nil, false
	}

	header, ok := readFields()
	if !ok || len(header) < 5 {
		return nil, fmt.Errorf("load cordeau %q: invalid header", path)
	}
	h, err := parseInts(header[:5])
	if err != nil {
		return nil, fmt.Errorf("load cordeau %q: header: %w", path, err)
	}
	numVehicles, capacity := h[0], h[3]
	maxRouteDuration := time.Duration(h[2]) * time.Minute
	maxRideTime := time.Duration(h[4]) * time.Minute

	depotLine, ok := readFields()
	if !ok || len(depotLine) < 3 {
		return nil, fmt.Errorf("load cordeau %q: missing depot line", path)
	}
	depot, err := parseCordeauNode(depotLine)
	if err != nil {
		return nil, fmt.Errorf("load cordeau %q: depot: %w", path, err)
	}

	travelTimes := traveltime.NewEuclidean(cordeauResolution)

	var pickups []cordeauStop
	var requests []*domain.Request
	for {
		fields, ok := readFields()
		if !ok {
			break
		}
		if len(fields) < 7 {
			return nil, fmt.Errorf("load cordeau %q: stop line has %d columns", path, len(fields))
		}
		stop, load, err := parseCordeauStop(fields)
		if err != nil {
			return nil, fmt.Errorf("load cordeau %q: %w", path, err)
		}

		switch {
		case load > 0:
			pickups = append(pickups, stop)
		case load < 0:
			k := len(requests)
			if k >= len(pickups) {
				return nil, fmt.Errorf("load cordeau %q: drop-off %d has no matching pickup", path, stop.id)
			}
			p := pickups[k]
			tt, _ := travelTimes.TravelTime(p.node, stop.node)
			requests = append(requests, domain.NewRequest(k,
				domain.ActionSpec{ID: p.id, Node: p.node, MinTime: p.minTime, MaxTime: p.maxTime, ServiceTime: p.serviceTime},
				domain.ActionSpec{ID: stop.id, Node: stop.node, MinTime: stop.minTime, MaxTime: stop.maxTime, ServiceTime: stop.serviceTime},
				time.Duration(tt)*time.Second,
			))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load cordeau %q: %w", path, err)
	}
	if len(requests) != len(pickups) {
		return nil, fmt.Errorf("load cordeau %q: %d pickups but %d drop-offs", path, len(pickups), len(requests))
	}

	vehicles := make([]*domain.Vehicle, numVehicles)
	for i := range vehicles {
		start := depot
		vehicles[i] = &domain.Vehicle{Index: i, InitialPosition: &start, Capacity: capacity}
	}

	cfg := domain.InstanceConfig{
		MaxRouteDuration: maxRouteDuration,
		MaxRideTime:      maxRideTime,
		ReturnToDepot:    true,
		VehicleCapacity:  capacity,
	}
	inst, err := domain.NewInstance(requests, vehicles, travelTimes, cfg)
	if err != nil {
		return nil, fmt.Errorf("load cordeau %q: %w", path, err)
	}
	logValidation(path, inst)

	log.Info().Str("path", path).Int("requests", len(requests)).Int("vehicles", numVehicles).Msg("cordeau instance loaded")
	return inst, nil
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseCordeauNode(fields []string) (domain.Node, error) {
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Node{}, err
	}
	x, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return domain.Node{}, err
	}
	y, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return domain.Node{}, err
	}
	return domain.Node{Idx: id, Coordinates: domain.Coordinates{X: x, Y: y}}, nil
}

func parseCordeauStop(fields []string) (cordeauStop, int, error) {
	node, err := parseCordeauNode(fields)
	if err != nil {
		return cordeauStop{}, 0, fmt.Errorf("stop %q: %w", fields[0], err)
	}
	v, err := parseInts(fields[3:7])
	if err != nil {
		return cordeauStop{}, 0, fmt.Errorf("stop %d: %w", node.Idx, err)
	}
	return cordeauStop{
		id:          node.Idx,
		node:        node,
		serviceTime: time.Duration(v[0]) * time.Minute,
		minTime:     domain.UnixSeconds(int64(v[2]) * 60),
		maxTime:     domain.UnixSeconds(int64(v[3]) * 60),
	}, v[1], nil
}
