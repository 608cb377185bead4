// Package main implements the entry point for the item API server, which
// serves CRUD endpoints for items and runs batch processing on a shared
// worker pool.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/item-api/internal/config"
	"github.com/phrazzld/item-api/internal/platform/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root command without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "item-api",
		Short:        "HTTP API for items with batch processing",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configFile, cmd.Flags())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "path to a YAML config file")
	flags.Int("port", 0, "HTTP port (overrides ITEMS_SERVER_PORT)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("driver", "", "storage driver: postgres or memory")
	flags.Int("workers", 0, "number of batch processing workers")

	cmd.AddCommand(newServeCmd(&configFile), newMigrateCmd(&configFile))
	return cmd
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configFile, cmd.Flags())
		},
	}
}

// loadConfig reads configuration and installs the process logger.
func loadConfig(configFile string, flags *pflag.FlagSet) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadWithOptions(config.Options{
		ConfigFile: configFile,
		Flags:      flags,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"driver", cfg.Database.Driver,
		"workers", cfg.Task.WorkerCount,
		"queue_size", cfg.Task.QueueSize)

	return cfg, log, nil
}

// runServe loads configuration, wires the application and serves until
// ctx is cancelled or SIGINT/SIGTERM arrives.
func runServe(ctx context.Context, configFile string, flags *pflag.FlagSet) error {
	cfg, log, err := loadConfig(configFile, flags)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		log.Error("failed to set up database", "error", err)
		return err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		log.Error("failed to initialize application", "error", err)
		return err
	}

	return app.Run(ctx)
}
