package commands

import (
	"context"
	"darp-checker/internal/adapters/loader"
	"darp-checker/internal/adapters/repositories"
	"darp-checker/internal/api"
	"darp-checker/internal/api/handlers"
	"darp-checker/internal/platform/db"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterServeCLI() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve solution checks over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address",
				Value:   ":8080",
				EnvVars: []string{"DARPCHECK_ADDR"},
			},
			&cli.StringFlag{
				Name:    "instance-root",
				Usage:   "directory that instance paths in requests are resolved against",
				Value:   ".",
				EnvVars: []string{"DARPCHECK_INSTANCE_ROOT"},
			},
			maxErrorsFlag,
			redisURLFlag,
			databaseURLFlag,
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context

			cache, closeCache := openMatrixCache(ctx, c.String(redisURLFlag.Name))
			defer closeCache()
			l := loader.New(cache)

			checks := &handlers.CheckHandler{
				Instances:    l,
				Solutions:    l,
				InstanceRoot: c.String("instance-root"),
				MaxErrors:    c.Int(maxErrorsFlag.Name),
			}

			var results *handlers.ResultHandler
			if url := c.String(databaseURLFlag.Name); url != "" {
				conn, err := db.Open(ctx, url)
				if err != nil {
					return err
				}
				defer conn.Close()
				results = &handlers.ResultHandler{Results: repositories.NewPostgresCheckResultRepository(conn)}
			}

			srv := &http.Server{
				Addr:              c.String("addr"),
				Handler:           api.NewRouter(checks, results),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      120 * time.Second,
				IdleTimeout:       60 * time.Second,
			}
			return listenAndServe(ctx, srv)
		},
	}
}

// Run srv until it fails or ctx is cancelled.
func listenAndServe(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
