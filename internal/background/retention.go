package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaswanthKSnjit/IS601-final/internal/models"
)

// SnapshotRunner runs one retention aggregation pass
type SnapshotRunner interface {
	CalculateRetentionMetrics(ctx context.Context) (*models.RetentionSnapshot, error)
}

// RetentionScheduler periodically computes retention metrics and appends
// a snapshot to the analytics log
type RetentionScheduler struct {
	runner   SnapshotRunner
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewRetentionScheduler creates a new retention scheduler
func NewRetentionScheduler(runner SnapshotRunner, logger *slog.Logger, interval time.Duration) *RetentionScheduler {
	return &RetentionScheduler{
		runner:   runner,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic aggregation task
func (rs *RetentionScheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()

	// Run immediately on startup
	rs.run(ctx)

	for {
		select {
		case <-ticker.C:
			rs.run(ctx)
		case <-rs.stopCh:
			rs.logger.Info("retention scheduler stopped")
			return
		case <-ctx.Done():
			rs.logger.Info("retention scheduler context cancelled")
			return
		}
	}
}

// run executes a single aggregation pass. A failed pass is logged and the
// scheduler waits for the next tick; it never writes a partial snapshot.
func (rs *RetentionScheduler) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := rs.runner.CalculateRetentionMetrics(runCtx); err != nil {
		rs.logger.Error("retention aggregation failed", slog.Any("error", err))
	}
}

// Stop signals the scheduler to stop
func (rs *RetentionScheduler) Stop() {
	close(rs.stopCh)
}
