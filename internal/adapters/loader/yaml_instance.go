package loader

import (
	"context"
	"darp-checker/internal/adapters/traveltime"
	"darp-checker/internal/domain"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

func readInstanceFile(path string) (*instanceFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance config: %w", err)
	}

	var f instanceFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("read instance config %q: parse yaml: %w", path, err)
	}
	if f.Demand.Filepath == "" {
		return nil, fmt.Errorf("read instance config %q: demand.filepath is missing", path)
	}
	return &f, nil
}

// Return the travel-time matrix path: dm_filepath, or dm.csv (then dm.h5) in the area directory.
func (f *instanceFile) matrixPath(dir string) string {
	if f.DMFilepath != "" {
		return resolvePath(dir, f.DMFilepath)
	}
	areaDir := resolvePath(dir, f.AreaDir)
	if csvPath := filepath.Join(areaDir, "dm.csv"); fileExists(csvPath) {
		return csvPath
	}
	return filepath.Join(areaDir, "dm.h5")
}

func (l *Loader) loadYAMLInstance(ctx context.Context, path string, travelTimes domain.TravelTimeProvider) (*domain.Instance, error) {
	f, err := readInstanceFile(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	cfg := f.config()

	if travelTimes == nil {
		dmPath := f.matrixPath(dir)
		log.Info().Str("path", dmPath).Msg("reading travel time matrix")
		m, err := traveltime.LoadMatrixFile(ctx, dmPath, l.MatrixCache)
		if err != nil {
			return nil, fmt.Errorf("load instance %q: %w", path, err)
		}
		travelTimes = m
	}

	demandPath := resolvePath(dir, f.Demand.Filepath)
	demand, err := os.Open(demandPath)
	if err != nil {
		return nil, fmt.Errorf("load instance %q: %w", path, err)
	}
	defer demand.Close()

	log.Info().Str("path", demandPath).Msg("reading demand")
	requests, err := readDemand(demand, travelTimes, demandOptions{
		maxProlongation: time.Duration(f.MaxProlongation) * time.Second,
		serviceTime:     time.Duration(f.ServiceTime) * time.Second,
		divider:         cfg.Divider(),
	})
	if err != nil {
		return nil, fmt.Errorf("load instance %q: %w", path, err)
	}

	vehicles, err := f.vehicles(dir)
	if err != nil {
		return nil, fmt.Errorf("load instance %q: %w", path, err)
	}

	inst, err := domain.NewInstance(requests, vehicles, travelTimes, cfg)
	if err != nil {
		return nil, fmt.Errorf("load instance %q: %w", path, err)
	}
	logValidation(path, inst)

	log.Info().Str("path", path).Int("requests", len(requests)).Int("vehicles", len(vehicles)).Msg("instance loaded")
	return inst, nil
}

// Build the fleet. Virtual-vehicle instances get a single template vehicle.
func (f *instanceFile) vehicles(dir string) ([]*domain.Vehicle, error) {
	if f.VirtualVehicles {
		return []*domain.Vehicle{{
			Index:          0,
			Capacity:       f.VehicleCapacity,
			Configurations: f.Vehicles.Configurations,
			TimeToStart:    time.Duration(f.Vehicles.TimeToStart) * time.Second,
		}}, nil
	}

	vehiclesPath := filepath.Join(dir, "vehicles.csv")
	if f.Vehicles.Filepath != "" {
		vehiclesPath = resolvePath(dir, f.Vehicles.Filepath)
	}

	file, err := os.Open(vehiclesPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	vehicles, err := readVehicles(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", vehiclesPath, err)
	}

	for _, v := range vehicles {
		if f.VehicleCapacity > 0 {
			v.Capacity = f.VehicleCapacity
		}
		v.Configurations = f.Vehicles.Configurations
	}
	return vehicles, nil
}
