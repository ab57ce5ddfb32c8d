package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/fuelstops/internal/logging"
	"github.com/rubiojr/fuelstops/internal/server"
)

func serveCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Listen address",
		},
		&cli.IntFlag{
			Name:  "rate-limit",
			Usage: "Requests per minute per client IP (0 disables)",
		},
	}
	flags = append(flags, priceSourceFlags()...)
	flags = append(flags, routingFlags()...)

	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the fuel stop planning HTTP API",
		Flags:  flags,
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, err := logging.NewHTTP(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, cfg, logger.Logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("Fuel prices loaded", "rows", rt.prices.Len(), "mean", rt.prices.MeanPrice())

	srv := server.New(rt.planner(logger.Logger), rt.prices, logger, server.Options{
		DefaultMaxRange: cfg.Planning.DefaultMaxRange,
		RateLimit:       cfg.Server.RateLimit,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
	})

	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
