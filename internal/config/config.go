// Package config loads service configuration from defaults, an optional
// YAML file and FUELSTOPS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheValkey = "valkey"
	CacheNone   = "none"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Geocoding GeocodingConfig `mapstructure:"geocoding"`
	Prices    PricesConfig    `mapstructure:"prices"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Planning  PlanningConfig  `mapstructure:"planning"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int `mapstructure:"rate_limit"`
}

type RoutingConfig struct {
	OSRMURL string        `mapstructure:"osrm_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeocodingConfig.Timeout bounds each reverse lookup.
type GeocodingConfig struct {
	NominatimURL string        `mapstructure:"nominatim_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// PricesConfig selects the price source. When several are set the
// precedence is DSN, then DB, then CSV.
type PricesConfig struct {
	CSV string `mapstructure:"csv"`
	DB  string `mapstructure:"db"`
	DSN string `mapstructure:"dsn"`
}

type CacheConfig struct {
	Backend    string        `mapstructure:"backend"`
	TTL        time.Duration `mapstructure:"ttl"`
	ValkeyAddr string        `mapstructure:"valkey_addr"`
}

type PlanningConfig struct {
	DefaultMaxRange float64 `mapstructure:"default_max_range"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration. An empty path searches for config.yaml in
// the working directory and ./configs and tolerates its absence; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 2*time.Minute)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("routing.osrm_url", "http://router.project-osrm.org")
	v.SetDefault("routing.timeout", 30*time.Second)
	v.SetDefault("geocoding.nominatim_url", "https://nominatim.openstreetmap.org/")
	v.SetDefault("geocoding.timeout", 10*time.Second)
	v.SetDefault("prices.csv", "fuel-prices.csv")
	v.SetDefault("prices.db", "")
	v.SetDefault("prices.dsn", "")
	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.valkey_addr", "localhost:6379")
	v.SetDefault("planning.default_max_range", 500.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// FUELSTOPS_ROUTING_OSRM_URL → routing.osrm_url
	v.SetEnvPrefix("FUELSTOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Sprintf("server.rate_limit must not be negative, got %d", c.Server.RateLimit))
	}
	if c.Routing.OSRMURL == "" {
		errs = append(errs, "routing.osrm_url is required")
	}
	if c.Routing.Timeout <= 0 {
		errs = append(errs, "routing.timeout must be positive")
	}
	if c.Geocoding.NominatimURL == "" {
		errs = append(errs, "geocoding.nominatim_url is required")
	}
	if c.Geocoding.Timeout <= 0 {
		errs = append(errs, "geocoding.timeout must be positive")
	}
	if c.Prices.CSV == "" && c.Prices.DB == "" && c.Prices.DSN == "" {
		errs = append(errs, "one of prices.csv, prices.db or prices.dsn is required")
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheSQLite:
		if c.Prices.DB == "" {
			errs = append(errs, "cache.backend sqlite requires prices.db")
		}
	case CacheValkey:
		if c.Cache.ValkeyAddr == "" {
			errs = append(errs, "cache.backend valkey requires cache.valkey_addr")
		}
	default:
		errs = append(errs, fmt.Sprintf("cache.backend must be memory, sqlite, valkey or none, got %q", c.Cache.Backend))
	}

	if !(c.Planning.DefaultMaxRange > 0) {
		errs = append(errs, fmt.Sprintf("planning.default_max_range must be positive, got %v", c.Planning.DefaultMaxRange))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
