// Package main implements the rehabdesk API server, which tracks inpatient
// documentation reminders and drafts notes and rehab plans with an LLM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rehabdesk/rehabdesk-api/internal/config"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "rehabdesk-server",
		Short:        "Rehab ward documentation API server",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "path to a YAML config file (default ./config.yaml)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, log)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|up-by-one|down|redo|reset|status|version]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "up-by-one", "down", "redo", "reset", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			return runMigrations(cmd.Context(), cfg, log, args[0])
		},
	}
}

// bootstrap loads configuration and installs the structured logger.
func bootstrap(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("llm_enabled", cfg.LLMEnabled()),
		slog.Bool("knowledge_enabled", cfg.KnowledgeEnabled()))

	return cfg, log, nil
}

func runServer(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	log.Info("Database connection established")

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

func runMigrations(ctx context.Context, cfg *config.Config, log *slog.Logger, command string) error {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", slog.Any("error", err))
		}
	}()

	if err := postgres.Migrate(ctx, db, log, command); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	log.Info("Migration completed", slog.String("command", command))
	return nil
}
