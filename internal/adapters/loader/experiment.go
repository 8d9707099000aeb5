package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Represents the experiment config written next to a solver's output.
type ExperimentConfig struct {
	Instance string `yaml:"instance"`
	Outdir   string `yaml:"outdir"`
}

// Read an experiment config. The instance path is resolved against the config's directory.
func LoadExperimentConfig(path string) (ExperimentConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ExperimentConfig{}, fmt.Errorf("load experiment config: %w", err)
	}

	var cfg ExperimentConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return ExperimentConfig{}, fmt.Errorf("load experiment config %q: parse yaml: %w", path, err)
	}
	if cfg.Instance == "" {
		return ExperimentConfig{}, fmt.Errorf("load experiment config %q: instance is missing", path)
	}

	dir := filepath.Dir(path)
	cfg.Instance = filepath.Clean(resolvePath(dir, cfg.Instance))
	cfg.Outdir = resolvePath(dir, cfg.Outdir)

	return cfg, nil
}
