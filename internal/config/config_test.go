package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected server.addr %q", cfg.Server.Addr)
	}
	if cfg.Planning.DefaultMaxRange != 500 {
		t.Errorf("unexpected default max range %v", cfg.Planning.DefaultMaxRange)
	}
	if cfg.Cache.Backend != CacheMemory || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.Routing.Timeout != 30*time.Second {
		t.Errorf("unexpected routing timeout %v", cfg.Routing.Timeout)
	}
	if cfg.Geocoding.Timeout != 10*time.Second {
		t.Errorf("unexpected geocoding timeout %v", cfg.Geocoding.Timeout)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FUELSTOPS_ROUTING_OSRM_URL", "http://osrm.internal:5000")
	t.Setenv("FUELSTOPS_CACHE_TTL", "90m")
	t.Setenv("FUELSTOPS_PLANNING_DEFAULT_MAX_RANGE", "350")
	t.Setenv("FUELSTOPS_GEOCODING_TIMEOUT", "3s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Routing.OSRMURL != "http://osrm.internal:5000" {
		t.Errorf("env override ignored: %q", cfg.Routing.OSRMURL)
	}
	if cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("expected 90m ttl, got %v", cfg.Cache.TTL)
	}
	if cfg.Planning.DefaultMaxRange != 350 {
		t.Errorf("expected range 350, got %v", cfg.Planning.DefaultMaxRange)
	}
	if cfg.Geocoding.Timeout != 3*time.Second {
		t.Errorf("expected 3s geocoding timeout, got %v", cfg.Geocoding.Timeout)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fuelstops.yaml")
	yaml := `
server:
  addr: ":9090"
  rate_limit: 0
prices:
  db: /var/lib/fuelstops/fuelstops.db
cache:
  backend: sqlite
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" || cfg.Server.RateLimit != 0 {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Cache.Backend != CacheSQLite || cfg.Prices.DB != "/var/lib/fuelstops/fuelstops.db" {
		t.Errorf("unexpected cache/prices config %+v %+v", cfg.Cache, cfg.Prices)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "debug" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Addr: ":8080", ReadTimeout: time.Second, WriteTimeout: time.Second, RateLimit: 20},
			Routing:   RoutingConfig{OSRMURL: "http://osrm", Timeout: time.Second},
			Geocoding: GeocodingConfig{NominatimURL: "http://nominatim", Timeout: time.Second},
			Prices:    PricesConfig{CSV: "fuel-prices.csv"},
			Cache:     CacheConfig{Backend: CacheMemory},
			Planning:  PlanningConfig{DefaultMaxRange: 500},
			Log:       LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no price source", func(c *Config) { c.Prices = PricesConfig{} }, "prices.csv"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "redis" }, "cache.backend"},
		{"sqlite without db", func(c *Config) { c.Cache.Backend = CacheSQLite }, "requires prices.db"},
		{"valkey without addr", func(c *Config) { c.Cache.Backend = CacheValkey }, "cache.valkey_addr"},
		{"zero geocoding timeout", func(c *Config) { c.Geocoding.Timeout = 0 }, "geocoding.timeout"},
		{"zero range", func(c *Config) { c.Planning.DefaultMaxRange = 0 }, "default_max_range"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "rate_limit"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
