package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rubiojr/fuelstops/internal/config"
)

func pricesCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "region",
			Usage: "Region token to match against station addresses, e.g. Texas",
		},
	}
	flags = append(flags, priceSourceFlags()...)

	return &cli.Command{
		Name:   "prices",
		Usage:  "Show price table statistics and the mean price for a region",
		Flags:  flags,
		Action: pricesAction,
	}
}

func pricesAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// Planning caches are not needed to inspect prices.
	cfg.Cache.Backend = config.CacheNone

	logger, err := cliLogger(cfg)
	if err != nil {
		return err
	}

	rt, err := newRuntime(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	fmt.Printf("Rows:       %d\n", rt.prices.Len())
	fmt.Printf("Table mean: %.4f\n", rt.prices.MeanPrice())

	region := c.String("region")
	if region == "" {
		return nil
	}

	fmt.Printf("Region:     %s\n", region)
	fmt.Printf("Matches:    %d\n", rt.prices.Matches(region))
	if mean, ok := rt.prices.MatchMean(region); ok {
		fmt.Printf("Mean:       %.4f\n", mean)
	} else {
		fmt.Printf("Mean:       %.4f (no match, table mean)\n", rt.prices.MeanPrice())
	}
	return nil
}
