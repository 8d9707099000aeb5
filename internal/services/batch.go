package services

import (
	"context"
	"darp-checker/internal/domain"
	"darp-checker/internal/platform/metrics"
	"darp-checker/internal/platform/obs"
	"darp-checker/internal/ports"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const (
	DefaultSolutionFileName = "config.yaml-solution.json"
	DefaultExperimentConfig = "config.yaml"
	DefaultAreaDepth        = 5
)

// A solution file discovered under a batch root.
type SolutionEntry struct {
	SolutionPath     string
	ExperimentConfig string
	Area             string
}

type BatchOptions struct {
	SolutionFileName string
	ExperimentConfig string
	// Position of the area directory counted from the end of the solution directory path.
	AreaDepth int
	Workers   int
}

func (o BatchOptions) withDefaults() BatchOptions {
	if o.SolutionFileName == "" {
		o.SolutionFileName = DefaultSolutionFileName
	}
	if o.ExperimentConfig == "" {
		o.ExperimentConfig = DefaultExperimentConfig
	}
	if o.AreaDepth <= 0 {
		o.AreaDepth = DefaultAreaDepth
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	return o
}

// BatchChecker checks every solution found under a set of experiment directories.
type BatchChecker struct {
	Checker     *SolutionChecker
	Instances   ports.InstanceSource
	Solutions   ports.SolutionSource
	Experiments ports.ExperimentSource
	Results     ports.CheckResultRepository
	Metrics     *metrics.CheckMetrics
	Now         func() time.Time
}

// Return the area name of a solution directory: the component depth positions
// from the end of the path, or "" when the path is too short.
func AreaOf(dir string, depth int) string {
	parts := strings.Split(filepath.ToSlash(filepath.Clean(dir)), "/")
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if depth <= 0 || depth > len(nonEmpty) {
		return ""
	}
	return nonEmpty[len(nonEmpty)-depth]
}

// Walk roots and collect solution files, sorted by area then path.
func FindSolutions(roots []string, opts BatchOptions) ([]SolutionEntry, error) {
	opts = opts.withDefaults()

	var entries []SolutionEntry
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || d.Name() != opts.SolutionFileName {
				return nil
			}
			dir := filepath.Dir(path)
			entries = append(entries, SolutionEntry{
				SolutionPath:     path,
				ExperimentConfig: filepath.Join(dir, opts.ExperimentConfig),
				Area:             AreaOf(dir, opts.AreaDepth),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("find solutions under %q: %w", root, err)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Area != entries[j].Area {
			return entries[i].Area < entries[j].Area
		}
		return entries[i].SolutionPath < entries[j].SolutionPath
	})

	return entries, nil
}

type indexedRecord struct {
	index  int
	record domain.CheckRecord
}

// Run checks every entry and returns one record per solution in entry order.
//
// Instances are loaded sequentially so that consecutive entries can reuse the
// previous instance (same instance path) or its travel-time provider (same
// area). Checks run on a bounded pool; the first error, including an exhausted
// error budget, cancels the remaining checks and stops further loading.
// Solutions referencing unknown requests or vehicles are recorded as NOT OK.
func (b *BatchChecker) Run(ctx context.Context, entries []SolutionEntry, opts BatchOptions) (_ []domain.CheckRecord, err error) {
	defer obs.Time(ctx, "batch.Run")(&err)

	opts = opts.withDefaults()
	now := b.Now
	if now == nil {
		now = time.Now
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	p := pool.NewWithResults[indexedRecord]().
		WithContext(runCtx).
		WithCancelOnError().
		WithMaxGoroutines(opts.Workers)

	var (
		loadErr          error
		lastInstancePath string
		lastArea         string
		lastInstance     *domain.Instance
	)

	for i, entry := range entries {
		if runCtx.Err() != nil {
			// nil when a failed check stopped the run; the pool reports that error
			loadErr = ctx.Err()
			break
		}

		instancePath, err := b.Experiments.InstancePath(ctx, entry.ExperimentConfig)
		if err != nil {
			loadErr = fmt.Errorf("batch: %s: %w", entry.SolutionPath, err)
			break
		}

		var inst *domain.Instance
		switch {
		case lastInstance != nil && instancePath == lastInstancePath:
			inst = lastInstance
		case lastInstance != nil && entry.Area != "" && entry.Area == lastArea:
			log.Debug().Str("area", entry.Area).Str("instance", instancePath).Msg("reusing travel time provider")
			inst, err = b.Instances.LoadInstance(ctx, instancePath, lastInstance.TravelTimes)
		default:
			inst, err = b.Instances.LoadInstance(ctx, instancePath, nil)
		}
		if err != nil {
			loadErr = fmt.Errorf("batch: load instance %s: %w", instancePath, err)
			break
		}
		lastInstance, lastInstancePath, lastArea = inst, instancePath, entry.Area

		sol, solErr := b.Solutions.LoadSolution(ctx, entry.SolutionPath, inst)
		if solErr != nil && !IsStructural(solErr) {
			loadErr = fmt.Errorf("batch: load solution %s: %w", entry.SolutionPath, solErr)
			break
		}

		index := i
		p.Go(func(ctx context.Context) (indexedRecord, error) {
			if err := ctx.Err(); err != nil {
				return indexedRecord{}, err
			}

			log.Info().Str("solution", entry.SolutionPath).Str("area", entry.Area).Msg("checking solution")
			start := time.Now()

			var res SolutionResult
			var err error
			if solErr != nil {
				log.Warn().Err(solErr).Str("solution", entry.SolutionPath).Msg("solution does not match its instance")
				res, err = b.Checker.RejectSolution(solErr)
			} else {
				res, err = b.Checker.CheckSolution(inst, sol)
			}
			if err != nil {
				stop()
				return indexedRecord{}, fmt.Errorf("batch: check %s: %w", entry.SolutionPath, err)
			}

			failures, warnings := countViolations(res.Violations)
			if b.Metrics != nil {
				b.Metrics.ObserveSolution(res.OK, violationsByKind(res.Violations), time.Since(start))
			}

			return indexedRecord{index: index, record: domain.CheckRecord{
				SolutionPath:              entry.SolutionPath,
				InstancePath:              instancePath,
				Area:                      entry.Area,
				OK:                        res.OK,
				PlanDepartureTimeFailures: res.Failures[FailurePlanDepartureTime],
				Violations:                failures,
				Warnings:                  warnings,
				Cost:                      res.Cost,
				CheckedAt:                 now().UTC(),
			}}, nil
		})
	}

	results, poolErr := p.Wait()
	if err := errors.Join(loadErr, poolErr); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	records := make([]domain.CheckRecord, len(results))
	for i, r := range results {
		records[i] = r.record
	}

	if b.Results != nil {
		runID, _ := ctx.Value(obs.RunIDKey).(string)
		if err := b.Results.SaveResults(ctx, runID, records); err != nil {
			return records, fmt.Errorf("batch: save results: %w", err)
		}
	}

	LogSummary(records)

	return records, nil
}

// Log the result table followed by the failing solutions.
func LogSummary(records []domain.CheckRecord) {
	failing := 0
	for _, r := range records {
		log.Info().
			Str("solution", r.SolutionPath).
			Str("area", r.Area).
			Bool("ok", r.OK).
			Int("plan_departure_time", r.PlanDepartureTimeFailures).
			Int("violations", r.Violations).
			Int("warnings", r.Warnings).
			Msg("result")
		if !r.OK {
			failing++
		}
	}

	log.Info().Int("solutions", len(records)).Int("not_ok", failing).Msg("check finished")
	for _, r := range records {
		if !r.OK {
			log.Error().Str("solution", r.SolutionPath).Int("violations", r.Violations).Msg("solution NOT OK")
		}
	}
}

func countViolations(vs []Violation) (failures int, warnings int) {
	acc := Accumulator{Violations: vs}
	return acc.Counts()
}

func violationsByKind(vs []Violation) map[string]int {
	acc := Accumulator{Violations: vs}
	return acc.CountByKind()
}
