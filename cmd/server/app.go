package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/item-api/internal/config"
	"github.com/phrazzld/item-api/internal/events"
	"github.com/phrazzld/item-api/internal/platform/memory"
	"github.com/phrazzld/item-api/internal/platform/postgres"
	"github.com/phrazzld/item-api/internal/service"
	"github.com/phrazzld/item-api/internal/store"
	"github.com/phrazzld/item-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	itemStore store.ItemStore

	// Batch processing
	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool
	emitter    *events.InMemoryEventEmitter

	itemService service.ItemService
}

// newApplication wires stores, the worker pool and services. db may be nil
// only for the memory driver. The worker pool is started before returning.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		if db == nil {
			return nil, errors.New("postgres driver requires a database connection")
		}
		app.itemStore = postgres.NewPostgresItemStore(db, logger)
	case config.DriverMemory:
		app.itemStore = memory.NewItemStore(logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	app.taskQueue = task.NewTaskQueue(cfg.Task.QueueSize, logger)
	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: cfg.Task.WorkerCount,
	}, logger)

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.emitter.Subscribe(events.ItemBatchCompleted, events.NewBatchLogHandler(logger))

	processor := service.NewItemProcessor(
		app.itemStore,
		app.taskQueue,
		app.emitter,
		service.ProcessorConfig{ItemTimeout: cfg.Task.ItemTimeout()},
		logger,
	)
	app.itemService = service.NewItemService(app.itemStore, processor, logger)

	app.workerPool.Start()

	logger.Info("application initialized successfully",
		"driver", cfg.Database.Driver,
		"workers", app.workerPool.WorkerCount())
	return app, nil
}

// cleanup drains the worker pool and closes the database. Queued item tasks
// are allowed to finish until ctx is done.
func (app *application) cleanup(ctx context.Context) error {
	var errs []error

	app.taskQueue.Close()
	if pending := app.taskQueue.Len(); pending > 0 {
		app.logger.Info("draining queued item tasks", "pending", pending)
	}
	if err := app.workerPool.Stop(ctx); err != nil {
		app.logger.Error("worker pool did not drain before shutdown deadline", "error", err)
		errs = append(errs, fmt.Errorf("stop worker pool: %w", err))
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	app.logger.Info("application shutdown completed")
	return errors.Join(errs...)
}
