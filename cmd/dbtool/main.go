package main

import (
	"context"
	"darp-checker/internal/adapters/repositories"
	"darp-checker/internal/config"
	"darp-checker/internal/platform/db"
	"darp-checker/internal/platform/obs"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	config.Load()
	obs.SetupLogger(config.Get("DARPCHECK_LOG_FORMAT", "CONSOLE"), config.GetBool("DARPCHECK_DEBUG", false))

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer conn.Close()

	log.Info().Msg("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}
	log.Info().Msg("Schema ready.")
}
