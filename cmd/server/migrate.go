package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/platform/postgres"
	"github.com/phrazzld/scry-decks/internal/redact"
	"github.com/spf13/cobra"
)

var migrateCommands = []string{"up", "down", "reset", "status", "version", "create"}

type migrateOptions struct {
	dir      string
	logLevel string
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	opts := &migrateOptions{}
	cmd := &cobra.Command{
		Use:       "migrate <up|down|reset|status|version|create NAME>",
		Short:     "Apply or inspect database migrations",
		ValidArgs: migrateCommands,
		Args:      validateMigrateArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: opts.logLevel}, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if args[0] == "create" {
				return postgres.CreateMigration(opts.dir, args[1], log)
			}

			dbCfg, err := config.LoadDatabase(root.configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			db, err := openDatabase(cmd.Context(), *dbCfg, log)
			if err != nil {
				return fmt.Errorf("%s", redact.Error(err))
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Error("failed to close database", slog.String("error", redact.Error(err)))
				}
			}()

			log.Info("running migration", slog.String("command", args[0]))
			return postgres.Migrate(cmd.Context(), db, args[0], log)
		},
	}
	cmd.Flags().StringVar(&opts.dir, "dir", postgres.MigrationsDir, "directory for new migrations")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func validateMigrateArgs(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("a migration command is required: one of %v", migrateCommands)
	}
	switch args[0] {
	case "create":
		if len(args) != 2 || args[1] == "" {
			return fmt.Errorf("create requires exactly one migration name")
		}
		return nil
	case "up", "down", "reset", "status", "version":
		if len(args) != 1 {
			return fmt.Errorf("%s takes no further arguments", args[0])
		}
		return nil
	default:
		return fmt.Errorf("unknown migration command %q: one of %v", args[0], migrateCommands)
	}
}
