package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "fuelstops",
		Usage: "Plan fuel stops and fuel cost along a driving route",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file (default: ./config.yaml or ./configs/config.yaml)",
				EnvVars: []string{"FUELSTOPS_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: text or json",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			planCommand(),
			importPricesCommand(),
			pricesCommand(),
			statusCommand(),
			pruneCacheCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func priceSourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "csv",
			Usage: "Fuel price CSV file",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "SQLite database with imported fuel prices",
		},
		&cli.StringFlag{
			Name:  "dsn",
			Usage: "Postgres connection string to read fuel prices from",
		},
	}
}

func routingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "osrm-url",
			Usage: "OSRM server base URL",
		},
		&cli.StringFlag{
			Name:  "nominatim-url",
			Usage: "Nominatim server base URL",
		},
		&cli.StringFlag{
			Name:  "cache",
			Usage: "Cache backend: memory, sqlite, valkey or none",
		},
	}
}
