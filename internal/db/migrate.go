package db

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/admitstats/internal/sql"
)

// ApplyMigrations executes every embedded migration against the sink.
// The DDL is written with IF NOT EXISTS throughout, so reapplying on an
// existing schema is a no-op.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	entries, err := fs.ReadDir(embedsql.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	// Filenames carry a numeric prefix; lexical order is apply order.
	sort.Strings(names)

	for _, name := range names {
		ddl, err := fs.ReadFile(embedsql.Migrations, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		log.Debug().Str("migration", name).Msg("applying migration")
		if _, err := pool.Exec(ctx, string(ddl)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	log.Info().Int("migrations", len(names)).Msg("schema up to date")
	return nil
}
