package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/fuelstops/internal/store"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the last price import and geocode cache size of a database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "Database file",
				Value: "fuelstops.db",
			},
		},
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	ctx := context.Background()
	storage, err := store.NewStorage(ctx, c.String("db"), slog.New(slog.DiscardHandler))
	if err != nil {
		return fmt.Errorf("error initializing storage: %w", err)
	}
	defer storage.Close()

	imp, err := storage.LastImport(ctx)
	if err != nil {
		return err
	}
	if imp == nil {
		fmt.Println("No fuel prices imported.")
	} else {
		fmt.Printf("Last import:     %s (%s, %d rows)\n", imp.ImportedAt.Format(time.DateTime), imp.Source, imp.Rows)
	}

	count, err := storage.PriceCount(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Fuel prices:     %d\n", count)

	geocodes, err := storage.GeocodeCount(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Cached places:   %d\n", geocodes)
	return nil
}
