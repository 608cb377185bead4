package main

import (
	"fmt"

	"github.com/phrazzld/item-api/internal/config"
	"github.com/phrazzld/item-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

var migrateCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateStatus,
	postgres.MigrateVersion,
}

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Run database migrations against the configured postgres database",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations require the %s driver, got %q",
					config.DriverPostgres, cfg.Database.Driver)
			}

			db, err := setupAppDatabase(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			log.Info("executing migrations", "command", args[0])
			if err := postgres.Migrate(cmd.Context(), db, args[0], log); err != nil {
				log.Error("migration failed", "command", args[0], "error", err)
				return err
			}
			log.Info("migrations completed", "command", args[0])
			return nil
		},
	}
}
