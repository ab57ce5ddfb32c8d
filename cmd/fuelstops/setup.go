package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"
	"github.com/valkey-io/valkey-go"

	"github.com/rubiojr/fuelstops/internal/cache"
	"github.com/rubiojr/fuelstops/internal/config"
	"github.com/rubiojr/fuelstops/internal/fuelstops"
	"github.com/rubiojr/fuelstops/internal/geocode"
	"github.com/rubiojr/fuelstops/internal/logging"
	"github.com/rubiojr/fuelstops/internal/prices"
	"github.com/rubiojr/fuelstops/internal/store"
	"github.com/rubiojr/fuelstops/pkg/api"
)

// flagOverrides maps command-line flags onto configuration keys. A flag
// only overrides the configuration when it was set explicitly.
var flagOverrides = map[string]func(*config.Config, *cli.Context, string){
	"log-level":     func(cfg *config.Config, c *cli.Context, n string) { cfg.Log.Level = c.String(n) },
	"log-format":    func(cfg *config.Config, c *cli.Context, n string) { cfg.Log.Format = c.String(n) },
	"addr":          func(cfg *config.Config, c *cli.Context, n string) { cfg.Server.Addr = c.String(n) },
	"rate-limit":    func(cfg *config.Config, c *cli.Context, n string) { cfg.Server.RateLimit = c.Int(n) },
	"osrm-url":      func(cfg *config.Config, c *cli.Context, n string) { cfg.Routing.OSRMURL = c.String(n) },
	"nominatim-url": func(cfg *config.Config, c *cli.Context, n string) { cfg.Geocoding.NominatimURL = c.String(n) },
	"csv":           func(cfg *config.Config, c *cli.Context, n string) { cfg.Prices.CSV = c.String(n) },
	"db":            func(cfg *config.Config, c *cli.Context, n string) { cfg.Prices.DB = c.String(n) },
	"dsn":           func(cfg *config.Config, c *cli.Context, n string) { cfg.Prices.DSN = c.String(n) },
	"cache":         func(cfg *config.Config, c *cli.Context, n string) { cfg.Cache.Backend = c.String(n) },
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	for name, apply := range flagOverrides {
		if c.IsSet(name) {
			apply(cfg, c, name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runtime holds the collaborators shared by the commands that plan routes.
type runtime struct {
	cfg     *config.Config
	log     *slog.Logger
	storage *store.Storage
	valkey  valkey.Client
	prices  *prices.Table
}

func newRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: logger}

	if cfg.Prices.DB != "" {
		storage, err := store.NewStorage(ctx, cfg.Prices.DB, logger)
		if err != nil {
			return nil, fmt.Errorf("error initializing storage: %w", err)
		}
		rt.storage = storage
	}

	table, err := rt.loadPrices(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.prices = table

	if cfg.Cache.Backend == config.CacheValkey {
		client, err := cache.DialValkey(cfg.Cache.ValkeyAddr)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.valkey = client
	}

	return rt, nil
}

// loadPrices picks the price source: Postgres, then the SQLite store, then
// the CSV file. An empty store is seeded from the CSV file when one is
// configured.
func (rt *runtime) loadPrices(ctx context.Context) (*prices.Table, error) {
	switch {
	case rt.cfg.Prices.DSN != "":
		rt.log.Debug("Loading fuel prices from postgres")
		return prices.LoadPostgres(ctx, rt.cfg.Prices.DSN)
	case rt.storage != nil:
		table, err := rt.storage.LoadPrices(ctx)
		if errors.Is(err, store.ErrNoPrices) && rt.cfg.Prices.CSV != "" {
			rt.log.Info("Price database is empty, importing CSV", "csv", rt.cfg.Prices.CSV)
			if err := importCSV(ctx, rt.storage, rt.cfg.Prices.CSV); err != nil {
				return nil, err
			}
			return rt.storage.LoadPrices(ctx)
		}
		return table, err
	default:
		rt.log.Debug("Loading fuel prices from CSV", "csv", rt.cfg.Prices.CSV)
		return prices.LoadCSVFile(rt.cfg.Prices.CSV)
	}
}

func (rt *runtime) planner(logger *slog.Logger) *fuelstops.Planner {
	routes := fuelstops.NewOSRMRouteClient(api.NewRouteAPI(rt.cfg.Routing.OSRMURL, rt.cfg.Routing.Timeout))
	geocoder := geocode.NewNominatim(rt.cfg.Geocoding.NominatimURL, rt.cfg.Geocoding.Timeout)

	ttl := rt.cfg.Cache.TTL
	var opts []fuelstops.Option
	switch rt.cfg.Cache.Backend {
	case config.CacheMemory:
		opts = append(opts,
			fuelstops.WithRouteCache(cache.NewMemory[fuelstops.RouteGeometry](ttl)),
			fuelstops.WithPlaceCache(cache.NewMemory[string](ttl)),
		)
	case config.CacheSQLite:
		opts = append(opts,
			fuelstops.WithRouteCache(cache.NewMemory[fuelstops.RouteGeometry](ttl)),
			fuelstops.WithPlaceCache(rt.storage.GeocodeCache(ttl)),
		)
	case config.CacheValkey:
		opts = append(opts,
			fuelstops.WithRouteCache(cache.NewMemory[fuelstops.RouteGeometry](ttl)),
			fuelstops.WithPlaceCache(cache.NewValkey[string](rt.valkey, "fuelstops:geocode:", ttl, logger)),
		)
	}

	return fuelstops.NewPlanner(routes, geocoder, rt.prices, logger, opts...)
}

func (rt *runtime) Close() {
	if rt.valkey != nil {
		rt.valkey.Close()
	}
	if rt.storage != nil {
		if err := rt.storage.Close(); err != nil {
			rt.log.Warn("error closing storage", "error", err)
		}
	}
}

func importCSV(ctx context.Context, storage *store.Storage, path string) error {
	table, err := prices.LoadCSVFile(path)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return storage.SavePrices(ctx, path, table.Rows())
}

func cliLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Format)
}
