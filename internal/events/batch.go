package events

import (
	"context"
	"fmt"
	"log/slog"
)

// ItemBatchCompleted is emitted once per batch processing run, after every
// item task has finished.
const ItemBatchCompleted = "item.batch.completed"

// BatchSummary is the payload of an ItemBatchCompleted event.
type BatchSummary struct {
	BatchID    string  `json:"batch_id"`
	Total      int     `json:"total"`
	Succeeded  int     `json:"succeeded"`
	Failed     int     `json:"failed"`
	FailedIDs  []int64 `json:"failed_ids"`
	DurationMS int64   `json:"duration_ms"`
}

// NewBatchCompletedEvent wraps summary in an ItemBatchCompleted event.
func NewBatchCompletedEvent(summary BatchSummary) (*Event, error) {
	if summary.FailedIDs == nil {
		summary.FailedIDs = []int64{}
	}
	return NewEvent(ItemBatchCompleted, summary)
}

// NewBatchLogHandler returns a handler that records batch summaries in the
// log. Events of other types are ignored.
func NewBatchLogHandler(logger *slog.Logger) EventHandler {
	logger = logger.With("component", "batch_log_handler")

	return HandlerFunc(func(ctx context.Context, event *Event) error {
		if event.Type != ItemBatchCompleted {
			return nil
		}

		var summary BatchSummary
		if err := event.UnmarshalPayload(&summary); err != nil {
			return fmt.Errorf("decode batch summary: %w", err)
		}

		level := slog.LevelInfo
		if summary.Failed > 0 {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "item batch completed",
			"event_id", event.ID,
			"batch_id", summary.BatchID,
			"total", summary.Total,
			"succeeded", summary.Succeeded,
			"failed", summary.Failed,
			"failed_ids", summary.FailedIDs,
			"duration_ms", summary.DurationMS)
		return nil
	})
}
