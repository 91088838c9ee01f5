package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// MigrationsTable records applied migrations.
const MigrationsTable = "schema_migrations"

// MigrationsDir is the source directory of the embedded migrations,
// relative to the repository root. New migrations are created here.
const MigrationsDir = "internal/platform/postgres/migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// gooseLogger routes goose output through slog. Fatalf does not exit;
// errors come back through the goose return values.
type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func configureGoose(log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	goose.SetLogger(gooseLogger{log: log.With(slog.String("component", "migrations"))})
	goose.SetTableName(MigrationsTable)
	goose.SetBaseFS(migrationsFS)
	return goose.SetDialect("postgres")
}

// Migrate runs a goose command ("up", "down", "reset", "status",
// "version") against db using the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, log *slog.Logger) error {
	if err := configureGoose(log); err != nil {
		return fmt.Errorf("failed to configure migrations: %w", err)
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, "migrations")
	case "down":
		err = goose.DownContext(ctx, db, "migrations")
	case "reset":
		err = goose.ResetContext(ctx, db, "migrations")
	case "status":
		err = goose.StatusContext(ctx, db, "migrations")
	case "version":
		err = goose.VersionContext(ctx, db, "migrations")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

// CreateMigration writes a new timestamped SQL migration into dir.
func CreateMigration(dir, name string, log *slog.Logger) error {
	if name == "" {
		return fmt.Errorf("migration name is required")
	}
	if err := configureGoose(log); err != nil {
		return fmt.Errorf("failed to configure migrations: %w", err)
	}
	// Create writes to the real filesystem, not the embedded one.
	goose.SetBaseFS(nil)
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration %s: %w", name, err)
	}
	return nil
}

// MigrationFiles lists the embedded migration files in order.
func MigrationFiles() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
