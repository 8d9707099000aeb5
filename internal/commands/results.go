package commands

import (
	"darp-checker/internal/adapters/report"
	"darp-checker/internal/adapters/repositories"
	"darp-checker/internal/platform/db"
	"os"

	"github.com/urfave/cli/v2"
)

func RegisterResultsCLI() *cli.Command {
	return &cli.Command{
		Name:      "results",
		Usage:     "Print the stored results of a batch run as CSV",
		ArgsUsage: "<run-id>",
		Flags:     []cli.Flag{databaseURLFlag},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one run id", 2)
			}
			url := c.String(databaseURLFlag.Name)
			if url == "" {
				return cli.Exit("DATABASE_URL is required", 2)
			}

			conn, err := db.Open(c.Context, url)
			if err != nil {
				return err
			}
			defer conn.Close()

			records, err := repositories.NewPostgresCheckResultRepository(conn).ListResults(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			return report.WriteCSV(os.Stdout, records)
		},
	}
}
