package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/treasurevalley/lotmap/internal/property"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrInvalidGeocodeRate = errors.New("geocode rate must be positive")
)

// Config holds server configuration.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	Env         string `yaml:"env"`

	// AutoMigrate creates or extends the properties table at startup.
	AutoMigrate bool `yaml:"auto_migrate"`
	// SuppressTransientDBWarnings collapses repeated connectivity errors in the DB log.
	SuppressTransientDBWarnings bool `yaml:"suppress_transient_db_warnings"`

	// AdminTokenHash is a bcrypt hash; when set, writes need a matching X-Admin-Token.
	AdminTokenHash string   `yaml:"admin_token_hash"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	MapboxToken       string        `yaml:"mapbox_token"`
	GeocodeRatePerSec float64       `yaml:"geocode_rate_per_sec"`
	GeocodeCacheTTL   time.Duration `yaml:"geocode_cache_ttl"`

	DriftGroups []property.DriftGroup `yaml:"drift_groups"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:              "5050",
		Env:               "production",
		AllowedOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		GeocodeRatePerSec: 10,
		GeocodeCacheTTL:   time.Hour,
		DriftGroups:       append([]property.DriftGroup(nil), property.DefaultDriftGroups...),
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// LOTMAP_CONFIG (if any), then environment variables.
//
// Environment variables:
//   - PORT (default: 5050)
//   - DATABASE_URL (required)
//   - APP_ENV: "development" or "production" (default: production)
//   - DB_AUTO_MIGRATE: "true" to run AutoMigrate at startup
//   - SUPPRESS_TRANSIENT_DB_WARNINGS: "true" to collapse connectivity errors
//   - ADMIN_TOKEN_HASH: bcrypt hash guarding write routes
//   - ALLOWED_ORIGINS: comma-separated CORS allow-list
//   - MAPBOX_TOKEN: geocoding token; geocoding is disabled without it
//   - GEOCODE_RATE_PER_SEC (default: 10)
//   - GEOCODE_CACHE_TTL: Go duration (default: 1h)
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("LOTMAP_CONFIG")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse overlays YAML data onto cfg.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		cfg.Env = strings.ToLower(v)
	}
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DB_AUTO_MIGRATE: %w", err)
		}
		cfg.AutoMigrate = b
	}
	if v := os.Getenv("SUPPRESS_TRANSIENT_DB_WARNINGS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SUPPRESS_TRANSIENT_DB_WARNINGS: %w", err)
		}
		cfg.SuppressTransientDBWarnings = b
	}
	if v := os.Getenv("ADMIN_TOKEN_HASH"); v != "" {
		cfg.AdminTokenHash = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if v := os.Getenv("MAPBOX_TOKEN"); v != "" {
		cfg.MapboxToken = v
	}
	if v := os.Getenv("GEOCODE_RATE_PER_SEC"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("GEOCODE_RATE_PER_SEC: %w", err)
		}
		cfg.GeocodeRatePerSec = f
	}
	if v := os.Getenv("GEOCODE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GEOCODE_CACHE_TTL: %w", err)
		}
		cfg.GeocodeCacheTTL = d
	}
	return nil
}

// Validate checks that the configuration can start a server.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.GeocodeRatePerSec <= 0 {
		return ErrInvalidGeocodeRate
	}
	for _, g := range c.DriftGroups {
		if len(g.Columns) == 0 {
			return fmt.Errorf("drift group %q has no columns", g.Name)
		}
	}
	return nil
}

// Development reports whether APP_ENV is development.
func (c Config) Development() bool {
	return c.Env == "development"
}
