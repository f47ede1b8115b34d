package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// Migrate applies all pending migrations for the dialect. Safe to call on
// every start.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	gooseDialect := database.DialectSQLite3
	dir := "migrations/sqlite"
	if d == Postgres {
		gooseDialect = database.DialectPostgres
		dir = "migrations/postgres"
	}

	fsys, err := fs.Sub(migrationFiles, dir)
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	log.Info().Str("dialect", string(d)).Msg("running database migrations")
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("migration applied")
	}

	log.Info().Int("applied", len(results)).Msg("database migrations complete")
	return nil
}
