package commands

import (
	"darp-checker/internal/adapters/loader"
	"darp-checker/internal/adapters/report"
	"darp-checker/internal/adapters/repositories"
	"darp-checker/internal/platform/db"
	"darp-checker/internal/platform/metrics"
	"darp-checker/internal/platform/obs"
	"darp-checker/internal/services"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var databaseURLFlag = &cli.StringFlag{
	Name:    "database-url",
	Usage:   "store results in this Postgres database",
	EnvVars: []string{"DATABASE_URL"},
}

func RegisterCheckAllCLI() *cli.Command {
	return &cli.Command{
		Name:      "check-all",
		Usage:     "Check every solution found under the given experiment directories",
		ArgsUsage: "<root> [root...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "number of solutions checked in parallel",
				Value:   runtime.NumCPU(),
				EnvVars: []string{"DARPCHECK_WORKERS"},
			},
			&cli.StringFlag{
				Name:  "solution-file",
				Usage: "name of the solution files to look for",
				Value: services.DefaultSolutionFileName,
			},
			&cli.StringFlag{
				Name:  "experiment-config",
				Usage: "experiment config file name next to each solution",
				Value: services.DefaultExperimentConfig,
			},
			&cli.IntFlag{
				Name:  "area-depth",
				Usage: "position of the area directory counted from the end of the solution directory",
				Value: services.DefaultAreaDepth,
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "write the result table to this CSV file",
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "write Prometheus metrics to this file",
				EnvVars: []string{"DARPCHECK_METRICS_FILE"},
			},
			maxErrorsFlag,
			strictFlag,
			redisURLFlag,
			databaseURLFlag,
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("expected at least one root directory", 2)
			}

			runID := uuid.NewString()
			ctx := obs.WithRunID(c.Context, runID)
			log.Info().Str("run_id", runID).Strs("roots", c.Args().Slice()).Msg("starting batch check")

			opts := services.BatchOptions{
				SolutionFileName: c.String("solution-file"),
				ExperimentConfig: c.String("experiment-config"),
				AreaDepth:        c.Int("area-depth"),
				Workers:          c.Int("workers"),
			}
			entries, err := services.FindSolutions(c.Args().Slice(), opts)
			if err != nil {
				return err
			}
			log.Info().Int("solutions", len(entries)).Msg("solutions found")

			cache, closeCache := openMatrixCache(ctx, c.String(redisURLFlag.Name))
			defer closeCache()

			l := loader.New(cache)
			m := metrics.NewCheckMetrics()
			batch := &services.BatchChecker{
				Checker:     services.NewSolutionChecker(services.NewErrorBudget(c.Int(maxErrorsFlag.Name))),
				Instances:   l,
				Solutions:   l,
				Experiments: l,
				Metrics:     m,
			}

			if url := c.String(databaseURLFlag.Name); url != "" {
				conn, err := db.Open(ctx, url)
				if err != nil {
					return err
				}
				defer conn.Close()
				if err := repositories.InitSchema(ctx, conn); err != nil {
					return err
				}
				batch.Results = repositories.NewPostgresCheckResultRepository(conn)
			}

			records, err := batch.Run(ctx, entries, opts)
			if err != nil {
				return err
			}

			if path := c.String("report"); path != "" {
				if err := report.WriteCSVFile(path, records); err != nil {
					return err
				}
				log.Info().Str("path", path).Msg("report written")
			}
			if path := c.String("metrics-file"); path != "" {
				if err := m.WriteTextfile(path); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}

			if c.Bool(strictFlag.Name) {
				for _, r := range records {
					if !r.OK {
						return cli.Exit("some solutions are NOT OK", 1)
					}
				}
			}
			return nil
		},
	}
}
