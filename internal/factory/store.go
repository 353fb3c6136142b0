// Package factory selects and constructs the configured backends.
package factory

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/dineguide/dineguide/internal/config"
	"github.com/dineguide/dineguide/internal/store/postgres"
	"github.com/dineguide/dineguide/internal/store/sqldb"
	"github.com/dineguide/dineguide/internal/store/sqlite"
)

// NewStore opens the configured database and creates the schema.
// Postgres is retried with exponential backoff until cfg.BootstrapTimeout
// elapses, so the service can start alongside its database container.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sqldb.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		s, err := sqlite.Bootstrap(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite bootstrap: %w", err)
		}
		log.Info().Str("driver", cfg.DBDriver).Str("path", cfg.SQLitePath).Msg("store ready")
		return s, nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("DINEGUIDE_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		exp := backoff.NewExponentialBackOff()
		exp.MaxElapsedTime = cfg.BootstrapTimeout()

		attempt := 0
		var s *sqldb.DB
		op := func() error {
			attempt++
			var err error
			s, err = postgres.Bootstrap(ctx, cfg.PostgresDSN)
			if err != nil {
				log.Warn().Err(err).Int("attempt", attempt).Msg("postgres not ready")
			}
			return err
		}
		if err := backoff.Retry(op, backoff.WithContext(exp, ctx)); err != nil {
			return nil, fmt.Errorf("postgres bootstrap: %w", err)
		}
		log.Info().Str("driver", cfg.DBDriver).Int("attempts", attempt).Msg("store ready")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
