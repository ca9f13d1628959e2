package scheduler

import (
	"context"
	"time"

	"frtutracker/logger"
)

// DirectoryRefresher re-reads the technician directory.
type DirectoryRefresher interface {
	Resolve(ctx context.Context) []string
}

// StartScheduler refreshes the directory cache once now and then every
// interval until ctx is done. The returned channel closes when it stops.
func StartScheduler(ctx context.Context, interval time.Duration, dir DirectoryRefresher) <-chan struct{} {
	logger.Info("Scheduler started (directory refresh every %s)", interval)

	stopped := make(chan struct{})
	RefreshDirectory(ctx, dir)

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("Scheduler stopped")
				return
			case <-ticker.C:
				logger.Debug("Scheduler tick: Running RefreshDirectory")
				RefreshDirectory(ctx, dir)
			}
		}
	}()
	return stopped
}

// RefreshDirectory resolves the directory, which updates its cache.
func RefreshDirectory(ctx context.Context, dir DirectoryRefresher) {
	start := time.Now()
	names := dir.Resolve(ctx)
	logger.WithFields(map[string]interface{}{
		"count":       len(names),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Directory refreshed")
}
