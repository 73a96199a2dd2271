package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationCommands lists the goose commands Migrate accepts.
var migrationCommands = map[string]bool{
	"up":        true,
	"up-by-one": true,
	"down":      true,
	"reset":     true,
	"status":    true,
	"version":   true,
	"redo":      true,
}

// slogGooseLogger forwards goose output to slog. Fatalf does not exit so the
// caller decides how to terminate.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Migrate runs a goose command against the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger, command string, args ...string) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "migrations"), slog.String("command", command))

	if !migrationCommands[command] {
		return fmt.Errorf("unsupported migration command %q", command)
	}

	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetBaseFS(migrationFS)
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	start := time.Now()
	log.Info("running migrations")
	if err := goose.RunContext(ctx, command, db, "migrations", args...); err != nil {
		log.Error("migration failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migrations finished", slog.Duration("duration", time.Since(start)))
	return nil
}
