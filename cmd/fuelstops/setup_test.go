package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rubiojr/fuelstops/internal/config"
	"github.com/rubiojr/fuelstops/internal/store"
)

const testCSV = `OPIS Truckstop ID,Truckstop Name,Address,City,State,Rack ID,Retail Price
7,WOODSHED,"I-44, EXIT 283",Big Cabin,OK,307,3.0
46,KWIK TRIP,"I-94, EXIT 143",Tomah,WI,420,4.0
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "fuel-prices.csv")
	if err := os.WriteFile(csvPath, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		Routing:   config.RoutingConfig{OSRMURL: "http://127.0.0.1:1", Timeout: time.Second},
		Geocoding: config.GeocodingConfig{NominatimURL: "http://127.0.0.1:1", Timeout: time.Second},
		Prices:    config.PricesConfig{CSV: csvPath},
		Cache:     config.CacheConfig{Backend: config.CacheMemory, TTL: time.Hour},
		Planning:  config.PlanningConfig{DefaultMaxRange: 500},
	}
}

func TestNewRuntimeCSV(t *testing.T) {
	cfg := testConfig(t)

	rt, err := newRuntime(context.Background(), cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("newRuntime() failed: %v", err)
	}
	defer rt.Close()

	if rt.prices.Len() != 2 || rt.prices.MeanPrice() != 3.5 {
		t.Errorf("unexpected table: %d rows, mean %v", rt.prices.Len(), rt.prices.MeanPrice())
	}
	if rt.storage != nil {
		t.Error("expected no storage without prices.db")
	}
	if rt.planner(rt.log) == nil {
		t.Error("expected a planner")
	}
}

func TestNewRuntimeSeedsDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Prices.DB = filepath.Join(t.TempDir(), "fuelstops.db")
	cfg.Cache.Backend = config.CacheSQLite

	ctx := context.Background()
	rt, err := newRuntime(ctx, cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("newRuntime() failed: %v", err)
	}
	if rt.prices.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", rt.prices.Len())
	}
	if rt.planner(rt.log) == nil {
		t.Error("expected a planner")
	}
	rt.Close()

	storage, err := store.NewStorage(ctx, cfg.Prices.DB, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	defer storage.Close()

	imp, err := storage.LastImport(ctx)
	if err != nil || imp == nil || imp.Rows != 2 {
		t.Errorf("expected the CSV to be imported, got %+v, %v", imp, err)
	}
}

func TestNewRuntimeMissingCSV(t *testing.T) {
	cfg := testConfig(t)
	cfg.Prices.CSV = filepath.Join(t.TempDir(), "missing.csv")

	if _, err := newRuntime(context.Background(), cfg, slog.New(slog.DiscardHandler)); err == nil {
		t.Fatal("expected an error for a missing price file")
	}
}
