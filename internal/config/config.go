package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	customerrors "github.com/axellelanca/creatorverse/internal/errors"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port                   int    `mapstructure:"port"`                     // HTTP server port (default: 8080)
		BaseURL                string `mapstructure:"base_url"`                 // Public base URL, used to print page links from the CLI
		ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"` // Grace period for in-flight requests on shutdown
	} `mapstructure:"server"`

	// Store selects the record store backend: sqlite, postgres or postgrest
	Store struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"store"`

	// Database configuration section for SQLite settings
	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name
	} `mapstructure:"database"`

	Postgres struct {
		DSN      string `mapstructure:"dsn"`
		MaxConns int    `mapstructure:"max_conns"`
	} `mapstructure:"postgres"`

	// PostgREST points at a hosted database-as-a-service project (e.g. Supabase)
	PostgREST struct {
		URL            string `mapstructure:"url"`
		APIKey         string `mapstructure:"api_key"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"postgrest"`

	// Monitor configuration for creator URL health checking
	Monitor struct {
		Enabled               bool `mapstructure:"enabled"`
		IntervalMinutes       int  `mapstructure:"interval_minutes"`        // Interval in minutes between URL health checks
		WorkerCount           int  `mapstructure:"worker_count"`            // Number of goroutines checking URLs concurrently
		RequestTimeoutSeconds int  `mapstructure:"request_timeout_seconds"` // Timeout of a single HEAD request
	} `mapstructure:"monitor"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // console or json
	} `mapstructure:"log"`

	// File is the config file that was read, empty when defaults and environment were used
	File string `mapstructure:"-"`
}

// ConfigPath is the directory searched for config.yaml.
var ConfigPath = "./configs"

// LoadConfig loads the application configuration using Viper.
// A .env file in the working directory is loaded into the environment first, then
// config.yaml is read and environment variables override it (server.port -> SERVER_PORT).
// It does not log: the logger is built from its result.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, customerrors.ErrConfigLoad{Path: ".env", Reason: err.Error()}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AddConfigPath(ConfigPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Set default values for all configuration options
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.shutdown_timeout_seconds", 5)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("database.name", "creatorverse.db")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgrest.url", "")
	v.SetDefault("postgrest.api_key", "")
	v.SetDefault("postgrest.timeout_seconds", 30)
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval_minutes", 5)
	v.SetDefault("monitor.worker_count", 4)
	v.SetDefault("monitor.request_timeout_seconds", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is not fatal - defaults and environment apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, customerrors.ErrConfigLoad{Path: ConfigPath, Reason: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, customerrors.ErrConfigLoad{Path: v.ConfigFileUsed(), Reason: err.Error()}
	}

	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres", "postgrest":
	default:
		return fmt.Errorf("unsupported store.driver %q", c.Store.Driver)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log.format %q", c.Log.Format)
	}
	if c.Monitor.WorkerCount < 1 {
		return fmt.Errorf("monitor.worker_count must be at least 1, got %d", c.Monitor.WorkerCount)
	}
	return nil
}
