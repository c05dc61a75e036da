package tasks

import (
	"context"
	"fmt"
	"time"
)

// newHistoryCleanupTask creates the task that deletes stored messages
// older than the configured retention window.
func newHistoryCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "history_cleanup")

	return func(ctx context.Context) error {
		cutoff := time.Now().UTC().Add(-deps.Config.Database.Retention)
		log.InfoContext(ctx, "Starting history cleanup task", "cutoff", cutoff)
		startTime := time.Now()

		deleted, err := deps.Store.DeleteMessagesBefore(ctx, cutoff)
		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "History cleanup task failed", "error", err, "duration", duration)
			return fmt.Errorf("history cleanup failed: %w", err)
		}

		log.InfoContext(ctx, "History cleanup task completed", "deleted", deleted, "duration", duration)
		return nil
	}
}
