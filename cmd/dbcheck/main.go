// Command dbcheck verifies database connectivity with the service configuration
// and applies pending migrations.
package main

import (
	"context"
	"os"
	"time"

	"dealer-kart/internal/config"
	"dealer-kart/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := config.NewLogger(config.LoggerConfig{Level: cfg.Logger.Level, Format: "console"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	var dbName, version string
	if err := pool.QueryRow(ctx, "SELECT current_database(), version()").Scan(&dbName, &version); err != nil {
		logger.Fatal().Err(err).Msg("failed to query database")
	}
	logger.Info().Str("database", dbName).Str("version", version).Msg("connected")

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}

	rows, err := pool.Query(ctx, "SELECT name, applied_at FROM schema_migrations ORDER BY name")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to list migrations")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name      string
			appliedAt time.Time
		)
		if err := rows.Scan(&name, &appliedAt); err != nil {
			logger.Fatal().Err(err).Msg("failed to scan migration")
		}
		logger.Info().Str("migration", name).Time("applied_at", appliedAt).Msg("applied")
	}
	if err := rows.Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to read migrations")
	}
}
