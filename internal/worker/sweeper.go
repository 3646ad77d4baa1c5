package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

const defaultBatchSize = 50

// Retrier reprocesses media whose face detection did not complete.
type Retrier interface {
	RetryPending(ctx context.Context, limit int) (int, error)
}

// DetectionSweeper periodically retries face detection for media left
// pending, failed, or stuck in processing after a restart cut a detection
// short.
type DetectionSweeper struct {
	retrier   Retrier
	logger    *slog.Logger
	interval  time.Duration
	batchSize int

	scheduler *gocron.Scheduler
	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
}

// NewDetectionSweeper creates a sweeper that runs every interval
func NewDetectionSweeper(retrier Retrier, logger *slog.Logger, interval time.Duration) *DetectionSweeper {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	return &DetectionSweeper{
		retrier:   retrier,
		logger:    logger,
		interval:  interval,
		batchSize: defaultBatchSize,
		scheduler: scheduler,
	}
}

func (w *DetectionSweeper) WithBatchSize(n int) *DetectionSweeper {
	w.batchSize = n
	return w
}

// Start schedules the sweep and runs the first one right away.
func (w *DetectionSweeper) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := w.scheduler.Every(w.interval).Do(w.sweep, ctx); err != nil {
		cancel()
		return fmt.Errorf("schedule detection sweep: %w", err)
	}

	w.cancel = cancel
	w.scheduler.StartAsync()
	w.running = true
	w.logger.Info("detection sweeper started", "interval", w.interval, "batch_size", w.batchSize)
	return nil
}

// Stop cancels a sweep in progress and stops the scheduler.
func (w *DetectionSweeper) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.cancel()
	w.scheduler.Stop()
	w.scheduler.Clear()
	w.running = false
	w.logger.Info("detection sweeper stopped")
}

func (w *DetectionSweeper) sweep(ctx context.Context) {
	start := time.Now()

	processed, err := w.retrier.RetryPending(ctx, w.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("detection sweep failed", "error", err)
		return
	}

	if processed > 0 {
		w.logger.Info("detection sweep completed",
			"processed", processed,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	w.logger.Debug("detection sweep found nothing to process")
}
