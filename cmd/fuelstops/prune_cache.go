package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/fuelstops/internal/logging"
	"github.com/rubiojr/fuelstops/internal/store"
)

const defaultCacheMaxAge = 30 * 24 * time.Hour

func pruneCacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune-cache",
		Usage: "Delete old reverse-geocoding results from the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Database file",
				Value: "fuelstops.db",
			},
			&cli.DurationFlag{
				Name:  "max-age",
				Usage: "Delete entries older than this",
				Value: defaultCacheMaxAge,
			},
		},
		Action: pruneCacheAction,
	}
}

func pruneCacheAction(c *cli.Context) error {
	level := c.String("log-level")
	if level == "" {
		level = "info"
	}
	logger, err := logging.New(level, c.String("log-format"))
	if err != nil {
		return err
	}

	ctx := context.Background()
	storage, err := store.NewStorage(ctx, c.String("db"), logger)
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer storage.Close()

	deleted, err := storage.PruneGeocodes(ctx, c.Duration("max-age"))
	if err != nil {
		return err
	}
	if err := storage.VacuumDatabase(ctx); err != nil {
		return err
	}

	fmt.Printf("Deleted %d cached places\n", deleted)
	return nil
}
