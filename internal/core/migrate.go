// AngelaMos | 2026
// migrate.go

package core

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, in filename order, each in its own transaction.
func Migrate(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := migrationNames()
	if err != nil {
		return err
	}

	done, err := appliedMigrations(ctx, db)
	if err != nil {
		return err
	}

	count := 0
	for _, name := range names {
		if _, ok := done[name]; ok {
			continue
		}

		content, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		logger.Info("applying migration", "file", name)

		err = InTx(ctx, db, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (name) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		count++
	}

	logger.Info("migrations applied", "count", count)
	return nil
}

// PendingMigrations lists embedded migrations not yet recorded in
// schema_migrations.
func PendingMigrations(ctx context.Context, db DBTX) ([]string, error) {
	names, err := migrationNames()
	if err != nil {
		return nil, err
	}

	done, err := appliedMigrations(ctx, db)
	if err != nil {
		return nil, err
	}

	pending := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := done[name]; !ok {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// SchemaChecker fails its ping while migrations are outstanding.
type SchemaChecker struct {
	DB DBTX
}

func (c SchemaChecker) Ping(ctx context.Context) error {
	pending, err := PendingMigrations(ctx, c.DB)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return fmt.Errorf("%d pending migrations, next %s", len(pending), pending[0])
	}
	return nil
}

func appliedMigrations(ctx context.Context, db DBTX) (map[string]struct{}, error) {
	var applied []string
	err := db.SelectContext(ctx, &applied, `SELECT name FROM schema_migrations`)
	if err != nil && !IsUndefinedTable(err) {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}

	done := make(map[string]struct{}, len(applied))
	for _, name := range applied {
		done[name] = struct{}{}
	}
	return done, nil
}

func migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}
