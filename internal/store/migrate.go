package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrations returns the migration files for a dialect.
func Migrations(d Dialect) (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations/"+string(d))
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, c *Conn) error {
	provider, err := newProvider(c)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Rollback undoes the most recent migration.
func Rollback(ctx context.Context, c *Conn) error {
	provider, err := newProvider(c)
	if err != nil {
		return err
	}
	if _, err := provider.Down(ctx); err != nil {
		return fmt.Errorf("rollback migration: %w", err)
	}
	return nil
}

// Status lists every known migration and whether it is applied.
func Status(ctx context.Context, c *Conn) ([]*goose.MigrationStatus, error) {
	provider, err := newProvider(c)
	if err != nil {
		return nil, err
	}
	return provider.Status(ctx)
}

func newProvider(c *Conn) (*goose.Provider, error) {
	fsys, err := Migrations(c.Dialect)
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(c.Dialect.gooseDialect(), c.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	return provider, nil
}
