package commands

import (
	"context"
	"darp-checker/internal/adapters/cache"
	"darp-checker/internal/ports"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var redisURLFlag = &cli.StringFlag{
	Name:    "redis-url",
	Usage:   "cache parsed travel time matrices in this Redis database",
	EnvVars: []string{"REDIS_URL"},
}

var matrixCacheTTL = 7 * 24 * time.Hour

// Open the optional matrix cache. An unreachable Redis disables caching.
func openMatrixCache(ctx context.Context, url string) (ports.MatrixCache, func()) {
	if url == "" {
		return nil, func() {}
	}

	client, err := cache.OpenRedis(ctx, url)
	if err != nil {
		log.Warn().Err(err).Msg("matrix cache disabled")
		return nil, func() {}
	}

	return cache.NewRedisMatrixCache(client, matrixCacheTTL), func() { _ = client.Close() }
}
