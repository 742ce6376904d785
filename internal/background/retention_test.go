package background

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JaswanthKSnjit/IS601-final/internal/models"
)

type countingRunner struct {
	calls atomic.Int32
}

func (r *countingRunner) CalculateRetentionMetrics(ctx context.Context) (*models.RetentionSnapshot, error) {
	r.calls.Add(1)
	return &models.RetentionSnapshot{}, nil
}

func TestRetentionScheduler_RunsAtStartup(t *testing.T) {
	runner := &countingRunner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scheduler := NewRetentionScheduler(runner, logger, time.Hour)

	done := make(chan struct{})
	go func() {
		scheduler.Start(context.Background())
		close(done)
	}()

	// The first pass happens before the first tick
	assert.Eventually(t, func() bool {
		return runner.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)

	scheduler.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRetentionScheduler_StopsOnContextCancel(t *testing.T) {
	runner := &countingRunner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scheduler := NewRetentionScheduler(runner, logger, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
}

func TestRetentionScheduler_TicksRepeatedly(t *testing.T) {
	runner := &countingRunner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scheduler := NewRetentionScheduler(runner, logger, 20*time.Millisecond)

	go scheduler.Start(context.Background())
	defer scheduler.Stop()

	assert.Eventually(t, func() bool {
		return runner.calls.Load() >= 3
	}, time.Second, 10*time.Millisecond)
}
