package refresh

import (
	"github.com/okian/scout/internal/domain/dedupe"
	"github.com/okian/scout/pkg/logger"
)

// QueueOption applies a configuration option to the InMemoryQueue.
type QueueOption func(*InMemoryQueue)

// WithCapacity sets the maximum capacity of the trigger queue.
func WithCapacity(capacity int) QueueOption {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WorkerOption applies a configuration option to the Worker.
type WorkerOption func(*Worker)

// WithName sets the worker name for identification and logging.
func WithName(name string) WorkerOption {
	return func(w *Worker) {
		if name != "" {
			w.name = name
			w.logger = logger.Get().Named(name)
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(log logger.Logger) WorkerOption {
	return func(w *Worker) {
		if log != nil {
			w.logger = log
		}
	}
}

// WithTracker replaces the fingerprint tracker. The caller can pre-seed the
// tracker with the fingerprint of a cached snapshot so the first refresh
// after a restart skips an unchanged dataset.
func WithTracker(tracker *dedupe.Tracker) WorkerOption {
	return func(w *Worker) {
		if tracker != nil {
			w.tracker = tracker
		}
	}
}

// WithSaver persists published snapshots to a cache. Saving is best effort.
func WithSaver(saver Saver) WorkerOption {
	return func(w *Worker) {
		w.saver = saver
	}
}
