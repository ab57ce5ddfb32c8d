package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/fuelstops/internal/fuelstops"
)

func planCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "start",
			Usage:    "Start position as lat,lon",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "finish",
			Usage:    "Finish position as lat,lon",
			Required: true,
		},
		&cli.Float64Flag{
			Name:    "range",
			Aliases: []string{"r"},
			Usage:   "Vehicle range per tank in miles (default from configuration)",
		},
		&cli.StringFlag{
			Name:  "gpx",
			Usage: "Also write the route and stops to this GPX file",
		},
	}
	flags = append(flags, priceSourceFlags()...)
	flags = append(flags, routingFlags()...)

	return &cli.Command{
		Name:   "plan",
		Usage:  "Plan fuel stops for a single trip and print the result as JSON",
		Flags:  flags,
		Action: planAction,
	}
}

func planAction(c *cli.Context) error {
	start, err := fuelstops.ParseCoordinate(c.String("start"))
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	finish, err := fuelstops.ParseCoordinate(c.String("finish"))
	if err != nil {
		return fmt.Errorf("invalid --finish: %w", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := cliLogger(cfg)
	if err != nil {
		return err
	}

	maxRange := cfg.Planning.DefaultMaxRange
	if c.IsSet("range") {
		maxRange = c.Float64("range")
	}

	ctx := context.Background()
	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.planner(logger).Plan(ctx, fuelstops.PlanRequest{
		Start:       start,
		Finish:      finish,
		StartInput:  c.String("start"),
		FinishInput: c.String("finish"),
		MaxRange:    maxRange,
	})
	if err != nil {
		return err
	}

	if path := c.String("gpx"); path != "" {
		b, err := fuelstops.ToGPX(result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return fmt.Errorf("error writing gpx file: %w", err)
		}
		logger.Info("GPX written", "path", path)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
