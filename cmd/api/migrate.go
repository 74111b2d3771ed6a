package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fitlog/fitlog/internal/config"
	"github.com/fitlog/fitlog/internal/repository"
)

var errMigrate = errors.New("database migration failed")

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return migrate(cmd.Context(), cfg, logger)
		},
	}
}

// migrate applies the embedded migrations. Driver errors may echo the DSN,
// so only a sanitized message is logged.
func migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dsn := cfg.DSN()

	version, err := repository.Migrate(ctx, dsn)
	if err != nil {
		logger.Error("failed to migrate database",
			slog.String("error", sanitizeError(err, dsn)),
			slog.String("database_url", redactURL(dsn)),
		)
		return errMigrate
	}

	logger.Info("database migrated", slog.Int64("version", version))
	return nil
}
