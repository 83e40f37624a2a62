package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/dedupe"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Fetcher pulls the full dataset from a provider.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Player, error)
}

// Swapper publishes a new dataset snapshot.
type Swapper interface {
	Swap(ctx context.Context, players []model.Player) (*repository.Snapshot, error)
}

// Saver persists a published snapshot. Persistence is best effort: a save
// failure never rolls back the published snapshot.
type Saver interface {
	Save(ctx context.Context, snap *repository.Snapshot) error
}

// Worker drains the trigger queue and runs refreshes one at a time.
type Worker struct {
	queue   Queue
	fetcher Fetcher
	swapper Swapper
	saver   Saver
	tracker *dedupe.Tracker

	name string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewWorker creates a refresh worker with configuration options.
func NewWorker(queue Queue, fetcher Fetcher, swapper Swapper, opts ...WorkerOption) *Worker {
	w := &Worker{
		queue:    queue,
		fetcher:  fetcher,
		swapper:  swapper,
		tracker:  dedupe.New(),
		name:     "refresh",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("refresh"),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run starts the worker loop until ctx is canceled, the queue closes, or
// Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	triggerChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case t, ok := <-triggerChan:
			if !ok {
				// Queue closed, worker should stop
				return
			}

			if err := w.process(ctx, t); err != nil {
				w.logger.Error(ctx, "refresh failed",
					logger.String("source", t.Source),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker. An in-flight refresh finishes first.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process handles a single trigger: fetch the dataset, skip it when the
// fingerprint is unchanged, otherwise publish a snapshot and persist it.
func (w *Worker) process(ctx context.Context, t Trigger) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordRefreshDuration(float64(latency))
	}()

	players, err := w.fetcher.Fetch(ctx)
	if err != nil {
		metrics.RecordRefreshFailure()
		metrics.RecordErrorByComponent("refresh", "fetch_error")
		return fmt.Errorf("fetch from %s: %w", w.fetcher.Name(), err)
	}

	fp := dedupe.Fingerprint(players)
	if w.tracker.Seen(fp) {
		metrics.RecordRefreshSkipped()
		w.logger.Debug(ctx, "dataset unchanged, keeping current snapshot",
			logger.String("source", t.Source),
			logger.String("provider", w.fetcher.Name()),
		)
		return nil
	}

	snap, err := w.swapper.Swap(ctx, players)
	if err != nil {
		// Roll back the fingerprint so an identical retry is not skipped.
		w.tracker.Forget(fp)
		metrics.RecordRefreshFailure()
		metrics.RecordErrorByComponent("refresh", "swap_error")
		return fmt.Errorf("swap dataset: %w", err)
	}

	w.logger.Info(ctx, "dataset refreshed",
		logger.String("source", t.Source),
		logger.String("provider", w.fetcher.Name()),
		logger.String("snapshot", snap.ID()),
		logger.Int("players", snap.Size()),
	)

	if w.saver != nil {
		if err := w.saver.Save(ctx, snap); err != nil {
			metrics.RecordErrorByComponent("refresh", "cache_save_error")
			w.logger.Warn(ctx, "snapshot cache save failed", logger.Error(err))
		}
	}

	return nil
}
