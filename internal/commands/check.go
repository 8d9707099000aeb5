package commands

import (
	"context"
	"darp-checker/internal/adapters/loader"
	"darp-checker/internal/domain"
	"darp-checker/internal/services"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var maxErrorsFlag = &cli.IntFlag{
	Name:    "max-errors",
	Usage:   "abort after this many violations (0 or less disables the limit)",
	Value:   services.DefaultMaxErrors,
	EnvVars: []string{"DARPCHECK_MAX_ERRORS"},
}

var strictFlag = &cli.BoolFlag{
	Name:    "strict",
	Usage:   "exit with a non-zero status when a solution is NOT OK",
	EnvVars: []string{"DARPCHECK_STRICT"},
}

func RegisterCheckCLI() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check a single solution file",
		ArgsUsage: "<solution.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "instance",
				Aliases: []string{"i"},
				Usage:   "instance config.yaml or Cordeau file (default: read from the experiment config next to the solution)",
			},
			&cli.StringFlag{
				Name:  "experiment-config",
				Usage: "experiment config file name looked up next to the solution",
				Value: services.DefaultExperimentConfig,
			},
			maxErrorsFlag,
			strictFlag,
			redisURLFlag,
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one solution file", 2)
			}
			solutionPath := c.Args().First()
			ctx := c.Context

			cache, closeCache := openMatrixCache(ctx, c.String(redisURLFlag.Name))
			defer closeCache()
			l := loader.New(cache)

			instancePath := c.String("instance")
			if instancePath == "" {
				p, err := l.InstancePath(ctx, filepath.Join(filepath.Dir(solutionPath), c.String("experiment-config")))
				if err != nil {
					return fmt.Errorf("resolve instance: %w", err)
				}
				instancePath = p
			}

			checker := services.NewSolutionChecker(services.NewErrorBudget(c.Int(maxErrorsFlag.Name)))

			var res services.SolutionResult
			inst, sol, err := loadPair(ctx, l, instancePath, solutionPath)
			switch {
			case services.IsStructural(err):
				log.Warn().Err(err).Str("solution", solutionPath).Msg("solution does not match its instance")
				res, err = checker.RejectSolution(err)
			case err != nil:
				return err
			default:
				res, err = checker.CheckSolution(inst, sol)
			}
			if err != nil {
				return err
			}

			failures, warnings := (&services.Accumulator{Violations: res.Violations}).Counts()
			log.Info().
				Str("solution", solutionPath).
				Bool("ok", res.OK).
				Float64("cost", res.Cost).
				Int("violations", failures).
				Int("warnings", warnings).
				Int("plan_departure_time", res.Failures[services.FailurePlanDepartureTime]).
				Msg("check finished")

			if !res.OK && c.Bool(strictFlag.Name) {
				return cli.Exit("solution NOT OK", 1)
			}
			return nil
		},
	}
}

// Load an instance and a solution. The instance is also returned when only the solution fails.
func loadPair(ctx context.Context, l *loader.Loader, instancePath string, solutionPath string) (*domain.Instance, *domain.Solution, error) {
	inst, err := l.LoadInstance(ctx, instancePath, nil)
	if err != nil {
		return nil, nil, err
	}
	sol, err := l.LoadSolution(ctx, solutionPath, inst)
	if err != nil {
		return inst, nil, err
	}
	return inst, sol, nil
}
