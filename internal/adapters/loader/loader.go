package loader

import (
	"context"
	"darp-checker/internal/domain"
	"darp-checker/internal/platform/obs"
	"darp-checker/internal/ports"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownRequest = domain.ErrUnknownRequest
	ErrUnknownVehicle = domain.ErrUnknownVehicle
)

// Loader reads instances, solutions and experiment configs from disk.
// MatrixCache is optional.
type Loader struct {
	MatrixCache ports.MatrixCache
}

func New(cache ports.MatrixCache) *Loader {
	return &Loader{MatrixCache: cache}
}

// Load a YAML instance config, or a Cordeau benchmark file for any other extension.
func (l *Loader) LoadInstance(ctx context.Context, path string, travelTimes domain.TravelTimeProvider) (_ *domain.Instance, err error) {
	defer obs.Time(ctx, "loader.LoadInstance")(&err)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return l.loadYAMLInstance(ctx, path, travelTimes)
	default:
		return LoadCordeau(path)
	}
}

// Load a JSON solution, or a Cordeau solution for any other extension.
func (l *Loader) LoadSolution(ctx context.Context, path string, inst *domain.Instance) (_ *domain.Solution, err error) {
	defer obs.Time(ctx, "loader.LoadSolution")(&err)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load solution: %w", err)
	}
	defer f.Close()

	decode := DecodeSolution
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		decode = DecodeCordeauSolution
	}
	sol, err := decode(f, inst)
	if err != nil {
		return nil, fmt.Errorf("load solution %q: %w", path, err)
	}
	return sol, nil
}

// Decode a solution from r. Satisfies ports.SolutionDecoder.
func (l *Loader) DecodeSolution(r io.Reader, inst *domain.Instance) (*domain.Solution, error) {
	return DecodeSolution(r, inst)
}

func (l *Loader) InstancePath(ctx context.Context, configPath string) (string, error) {
	cfg, err := LoadExperimentConfig(configPath)
	if err != nil {
		return "", err
	}
	return cfg.Instance, nil
}

// Resolve p against dir unless it is absolute.
func resolvePath(dir string, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func logValidation(path string, inst *domain.Instance) {
	for _, err := range inst.Validate() {
		log.Warn().Str("instance", path).Err(err).Msg("instance sanity check failed")
	}
}
