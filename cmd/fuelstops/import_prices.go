package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/fuelstops/internal/store"
)

func importPricesCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-prices",
		Usage: "Replace the fuel prices stored in the database with a CSV file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Fuel price CSV file",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Database file",
				Value: "fuelstops.db",
			},
		},
		Action: importPricesAction,
	}
}

func importPricesAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Prices.CSV == "" {
		return errors.New("a CSV file is required")
	}
	// --db has a default, so it wins over prices.db only when given.
	dbPath := cfg.Prices.DB
	if dbPath == "" || c.IsSet("db") {
		dbPath = c.String("db")
	}

	logger, err := cliLogger(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	storage, err := store.NewStorage(ctx, dbPath, logger)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer storage.Close()

	if err := importCSV(ctx, storage, cfg.Prices.CSV); err != nil {
		return err
	}

	count, err := storage.PriceCount(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d fuel prices from %s into %s\n", count, cfg.Prices.CSV, dbPath)
	return nil
}
