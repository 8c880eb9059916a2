package store

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/axellelanca/creatorverse/internal/config"
)

// Supported values of store.driver.
const (
	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
	DriverPostgREST = "postgrest"
)

// Open connects the backend selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Backend, error) {
	switch cfg.Store.Driver {
	case DriverSQLite, "":
		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info().Str("driver", DriverSQLite).Str("database", cfg.Database.Name).Msg("record store opened")
		return NewGormStore(db), nil
	case DriverPostgres:
		s, err := NewPostgresStore(ctx, cfg.Postgres.DSN, int32(cfg.Postgres.MaxConns))
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", DriverPostgres).Int("max_conns", cfg.Postgres.MaxConns).Msg("record store opened")
		return s, nil
	case DriverPostgREST:
		if cfg.PostgREST.URL == "" {
			return nil, fmt.Errorf("postgrest.url is required for the %s driver", DriverPostgREST)
		}
		timeout := time.Duration(cfg.PostgREST.TimeoutSeconds) * time.Second
		log.Info().Str("driver", DriverPostgREST).Str("url", cfg.PostgREST.URL).Msg("record store opened")
		return NewPostgRESTStore(cfg.PostgREST.URL, cfg.PostgREST.APIKey, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
