package main

import (
	"context"
	"darp-checker/internal/commands"
	"darp-checker/internal/config"
	"darp-checker/internal/platform/obs"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	config.Load()
	obs.SetupLogger(config.Get("DARPCHECK_LOG_FORMAT", "CONSOLE"), config.GetBool("DARPCHECK_DEBUG", false))

	app := &cli.App{
		Name:        "darpcheck",
		Usage:       "Check DARP solutions against their instances",
		Description: "Simulates every vehicle plan of a solution and reports violated constraints",

		Commands: []*cli.Command{
			commands.RegisterCheckCLI(),
			commands.RegisterCheckAllCLI(),
			commands.RegisterResultsCLI(),
			commands.RegisterServeCLI(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}
