package database

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// RunFunc matches goose.RunContext and lets callers substitute it in tests.
type RunFunc func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error

// Migrator applies the embedded schema migrations.
type Migrator struct {
	run RunFunc
}

// NewMigrator prepares goose for the embedded postgres migrations.
func NewMigrator() (*Migrator, error) {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	return &Migrator{run: goose.RunContext}, nil
}

// Run executes a goose command (up, down, status, version, redo, up-to, down-to).
func (m *Migrator) Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	return m.run(ctx, command, db, migrationsDir, args...)
}

// Up migrates to the latest version.
func (m *Migrator) Up(ctx context.Context, db *sql.DB) error {
	return m.Run(ctx, db, "up")
}
