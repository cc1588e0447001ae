package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the planner service.
// Environment variables are parsed from the SLOTH_PLANNER_ prefix.
type Config struct {
	// BuildTarget selects the high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// DBDriver is derived from BuildTarget when "auto": local builds run on
	// sqlite, cloud targets on postgres.
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/planner.db"`

	// AuthProviderURL is the identity provider base URL for bearer-token
	// verification. Empty means the static local-dev authorizer.
	AuthProviderURL string `envconfig:"AUTH_PROVIDER_URL" default:""`

	// HealthInterval is the probe period in seconds for dependency checkers.
	HealthIntervalSeconds int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"10"`

	// NotificationSweepMinutes is the period of the expired-notification
	// sweeper. Zero disables it.
	NotificationSweepMinutes int `envconfig:"NOTIFICATION_SWEEP_MINUTES" default:"15"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when "auto".
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud-dev", "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH required for sqlite driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN required for postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a Config by parsing SLOTH_PLANNER_-prefixed environment
// variables, e.g. SLOTH_PLANNER_HTTP_PORT.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SLOTH_PLANNER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("auth_provider_present", cfg.AuthProviderURL != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
