package loader

import (
	"darp-checker/internal/domain"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// On-disk layout of an instance config.yaml.
type instanceFile struct {
	AreaDir         string `yaml:"area_dir"`
	DMFilepath      string `yaml:"dm_filepath"`
	MaxProlongation int    `yaml:"max_prolongation"`
	Demand          struct {
		Filepath string `yaml:"filepath"`
		MinTime  int64  `yaml:"min_time"`
	} `yaml:"demand"`
	Vehicles struct {
		Filepath       string     `yaml:"filepath"`
		StartTime      *startTime `yaml:"start_time"`
		Configurations [][]int    `yaml:"configurations"`
		TimeToStart    int        `yaml:"time_to_start"`
	} `yaml:"vehicles"`

	MaxRouteDuration    int     `yaml:"max_route_duration"`
	MaxRideTime         int     `yaml:"max_ride_time"`
	ReturnToDepot       bool    `yaml:"return_to_depot"`
	VirtualVehicles     bool    `yaml:"virtual_vehicles"`
	MinPauseLength      int     `yaml:"min_pause_length"`
	MaxPauseInterval    int     `yaml:"max_pause_interval"`
	TravelTimeDivider   float64 `yaml:"travel_time_divider"`
	MaxPickupDelay      int     `yaml:"max_pickup_delay"`
	EnableNegativeDelay bool    `yaml:"enable_negative_delay"`
	VehicleCapacity     int     `yaml:"vehicle_capacity"`
	ServiceTime         int     `yaml:"service_time"`
}

// Vehicle start time given either as seconds or as "YYYY-MM-DD HH:MM[:SS]".
type startTime struct {
	seconds int64
}

func (s *startTime) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		s.seconds = n
		return nil
	}

	var text string
	if err := value.Decode(&text); err != nil {
		return fmt.Errorf("start_time: expected seconds or a datetime string: %w", err)
	}
	sec, err := parseClockSeconds(text)
	if err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	s.seconds = sec
	return nil
}

// Return the seconds since midnight of the clock part of a datetime string.
func parseClockSeconds(text string) (int64, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty time %q", text)
	}

	parts := strings.Split(fields[len(fields)-1], ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", text)
	}

	var total int64
	for i, unit := range []int64{3600, 60, 1} {
		if i >= len(parts) {
			break
		}
		v, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", text, err)
		}
		total += v * unit
	}
	return total, nil
}

// Return the policy knobs of the instance. Pause settings are given in minutes.
func (f *instanceFile) config() domain.InstanceConfig {
	start := f.Demand.MinTime
	if f.Vehicles.StartTime != nil {
		start = f.Vehicles.StartTime.seconds
	}

	cfg := domain.InstanceConfig{
		MaxRouteDuration:    time.Duration(f.MaxRouteDuration) * time.Second,
		MaxRideTime:         time.Duration(f.MaxRideTime) * time.Second,
		ReturnToDepot:       f.ReturnToDepot,
		VirtualVehicles:     f.VirtualVehicles,
		MinPauseLength:      time.Duration(f.MinPauseLength) * time.Minute,
		MaxPauseInterval:    time.Duration(f.MaxPauseInterval) * time.Minute,
		TravelTimeDivider:   f.TravelTimeDivider,
		MaxPickupDelay:      time.Duration(f.MaxPickupDelay) * time.Second,
		EnableNegativeDelay: f.EnableNegativeDelay,
		VehicleCapacity:     f.VehicleCapacity,
	}
	if start != 0 {
		cfg.StartTime = domain.UnixSeconds(start)
	}
	return cfg
}
