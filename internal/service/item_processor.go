package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/item-api/internal/domain"
	"github.com/phrazzld/item-api/internal/events"
	"github.com/phrazzld/item-api/internal/platform/logger"
	"github.com/phrazzld/item-api/internal/redact"
	"github.com/phrazzld/item-api/internal/store"
	"github.com/phrazzld/item-api/internal/task"
)

// TaskTypeProcessItem identifies per-item tasks on the shared worker queue.
const TaskTypeProcessItem = "item_process"

// ProcessorConfig tunes the batch coordinator.
type ProcessorConfig struct {
	// ItemTimeout bounds the storage calls of a single item. Zero disables it.
	ItemTimeout time.Duration
}

// BatchProcessor runs "process all items" asynchronously.
type BatchProcessor interface {
	ProcessAll(ctx context.Context) *task.Future[[]domain.Item]
}

// ItemProcessor marks every stored item as PROCESSED by fanning one task per
// item out to the shared worker queue. Each task writes only its own outcome
// slot; slots are merged after every task has finished.
type ItemProcessor struct {
	store   store.ItemStore
	queue   task.TaskQueueWriter
	emitter events.EventEmitter
	config  ProcessorConfig
	logger  *slog.Logger
}

var _ BatchProcessor = (*ItemProcessor)(nil)

// NewItemProcessor creates a coordinator submitting work to queue.
// A nil emitter is replaced by an in-memory one that logs batch summaries.
func NewItemProcessor(
	itemStore store.ItemStore,
	queue task.TaskQueueWriter,
	emitter events.EventEmitter,
	config ProcessorConfig,
	logger *slog.Logger,
) *ItemProcessor {
	if itemStore == nil || queue == nil {
		// ALLOW-PANIC: constructor precondition
		panic("item store and task queue are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "item_processor")

	if emitter == nil {
		local := events.NewInMemoryEventEmitter(logger)
		local.Subscribe(events.ItemBatchCompleted, events.NewBatchLogHandler(logger))
		emitter = local
	}

	return &ItemProcessor{
		store:   itemStore,
		queue:   queue,
		emitter: emitter,
		config:  config,
		logger:  logger,
	}
}

// itemOutcome is the result slot of one item task. Exactly one of item and
// err is set once the task has run.
type itemOutcome struct {
	itemID int64
	item   *domain.Item
	err    error
}

// ProcessAll starts a batch and returns immediately. The returned future
// resolves with the successfully processed items, in listing order, once every
// item task has finished; per-item failures are excluded from the result
// and reported through the batch summary. It resolves with
// ErrBatchNotScheduled if the IDs cannot be listed or the queue rejects work.
//
// The batch does not observe cancellation of ctx; only its values (logger,
// trace ID) are carried over.
func (p *ItemProcessor) ProcessAll(ctx context.Context) *task.Future[[]domain.Item] {
	batchID := uuid.New()
	log := logger.FromContextOrDefault(ctx, p.logger).With("batch_id", batchID.String())
	batchCtx := logger.WithLogger(context.WithoutCancel(ctx), log)

	return task.Go(func() ([]domain.Item, error) {
		return p.run(batchCtx, batchID, log)
	})
}

func (p *ItemProcessor) run(ctx context.Context, batchID uuid.UUID, log *slog.Logger) ([]domain.Item, error) {
	start := time.Now()

	ids, err := p.store.ListIDs(ctx)
	if err != nil {
		log.Error("failed to list item ids", redact.Attr(err))
		return nil, fmt.Errorf("%w: list item ids: %w", ErrBatchNotScheduled, err)
	}

	log.Debug("item batch started", "total", len(ids))

	outcomes := make([]itemOutcome, len(ids))
	var wg sync.WaitGroup
	submitted := 0
	var enqueueErr error

	for i, id := range ids {
		wg.Add(1)
		t := &itemTask{
			id:        uuid.New(),
			itemID:    id,
			slot:      &outcomes[i],
			wg:        &wg,
			batchCtx:  ctx,
			processor: p,
		}
		if err := p.queue.EnqueueContext(ctx, t); err != nil {
			wg.Done()
			enqueueErr = err
			break
		}
		submitted++
	}

	wg.Wait()

	if enqueueErr != nil {
		log.Error("item batch interrupted while enqueueing",
			"submitted", submitted,
			"total", len(ids),
			redact.Attr(enqueueErr))
		return nil, fmt.Errorf("%w: enqueue item task: %w", ErrBatchNotScheduled, enqueueErr)
	}

	results := make([]domain.Item, 0, len(ids))
	failedIDs := make([]int64, 0)
	for _, o := range outcomes {
		if o.err != nil || o.item == nil {
			failedIDs = append(failedIDs, o.itemID)
			continue
		}
		results = append(results, *o.item)
	}

	p.emitSummary(ctx, log, events.BatchSummary{
		BatchID:    batchID.String(),
		Total:      len(ids),
		Succeeded:  len(results),
		Failed:     len(failedIDs),
		FailedIDs:  failedIDs,
		DurationMS: time.Since(start).Milliseconds(),
	})

	return results, nil
}

func (p *ItemProcessor) emitSummary(ctx context.Context, log *slog.Logger, summary events.BatchSummary) {
	event, err := events.NewBatchCompletedEvent(summary)
	if err != nil {
		log.Error("failed to build batch summary event", "error", err)
		return
	}
	if err := p.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("batch summary event handler failed", "error", err)
	}
}

// processItem loads one item, marks it PROCESSED and saves it.
func (p *ItemProcessor) processItem(ctx context.Context, id int64) (*domain.Item, error) {
	if p.config.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.ItemTimeout)
		defer cancel()
	}

	item, err := p.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	item.MarkProcessed()

	saved, err := p.store.Save(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	if !saved.IsProcessed() {
		return nil, fmt.Errorf("save: stored status %q", saved.Status)
	}
	return saved, nil
}

// itemTask processes a single item on a pool worker.
type itemTask struct {
	id        uuid.UUID
	itemID    int64
	slot      *itemOutcome
	wg        *sync.WaitGroup
	batchCtx  context.Context
	processor *ItemProcessor
}

func (t *itemTask) ID() uuid.UUID { return t.id }

func (t *itemTask) Type() string { return TaskTypeProcessItem }

// Execute always fills the outcome slot and releases the barrier, even when
// processing panics. The returned error lets the pool log the failure.
func (t *itemTask) Execute(poolCtx context.Context) (err error) {
	defer t.wg.Done()

	outcome := itemOutcome{itemID: t.itemID}
	defer func() {
		if r := recover(); r != nil {
			outcome.item = nil
			outcome.err = fmt.Errorf("%w: %v", ErrItemPanicked, r)
		}
		*t.slot = outcome
		if outcome.err != nil {
			err = fmt.Errorf("item %d: %w", t.itemID, outcome.err)
		}
	}()

	// Tasks drained during a forced shutdown only record their failure.
	if poolErr := poolCtx.Err(); poolErr != nil {
		outcome.err = fmt.Errorf("worker pool stopped: %w", poolErr)
		return nil
	}

	// Storage calls run on the batch context but stop early if the pool is
	// being torn down.
	ctx, cancel := context.WithCancel(t.batchCtx)
	defer cancel()
	stop := context.AfterFunc(poolCtx, cancel)
	defer stop()

	outcome.item, outcome.err = t.processor.processItem(ctx, t.itemID)
	if errors.Is(outcome.err, store.ErrItemNotFound) {
		logger.FromContextOrDefault(t.batchCtx, t.processor.logger).
			Debug("item vanished before processing", "item_id", t.itemID)
	}
	return nil
}
