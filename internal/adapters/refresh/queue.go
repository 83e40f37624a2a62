// Package refresh coordinates dataset reloads behind a bounded trigger
// queue. Scheduled ticks, filesystem events, and manual requests all flow
// through the same queue; a single worker drains it so at most one reload
// runs at a time.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/okian/scout/pkg/metrics"
)

// Sources that can request a refresh.
const (
	SourceStartup  = "startup"
	SourceSchedule = "schedule"
	SourceWatch    = "watch"
	SourceManual   = "manual"
)

const defaultQueueCapacity = 16

// Trigger is one refresh request.
type Trigger struct {
	Source      string
	RequestedAt time.Time
}

// NewTrigger stamps a trigger for the given source.
func NewTrigger(source string) Trigger {
	return Trigger{Source: source, RequestedAt: time.Now()}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics
// for refresh triggers.
type Queue interface {
	// Enqueue adds a trigger to the queue.
	// Returns false if the queue is full or closed and the trigger was
	// dropped.
	Enqueue(ctx context.Context, t Trigger) bool

	// Dequeue returns a channel that receives triggers as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Trigger

	// Len returns the current number of queued triggers.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	triggers chan Trigger
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory trigger queue with
// configuration options.
func NewInMemoryQueue(opts ...QueueOption) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}

	for _, opt := range opts {
		opt(q)
	}
	q.triggers = make(chan Trigger, q.capacity)

	metrics.UpdateRefreshQueueCapacity(q.capacity)
	metrics.UpdateRefreshQueueSize(0)
	return q
}

// Enqueue adds a trigger to the queue. A full queue drops the trigger
// rather than blocking the caller; a refresh is already pending anyway.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Trigger) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordRefreshDropped()
		return false
	}

	select {
	case q.triggers <- t:
		metrics.RecordRefreshTrigger(t.Source)
		metrics.UpdateRefreshQueueSize(len(q.triggers))
		return true
	case <-ctx.Done():
		metrics.RecordRefreshDropped()
		return false
	default:
		metrics.RecordRefreshDropped()
		return false
	}
}

// Dequeue returns a channel that receives triggers as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Trigger {
	out := make(chan Trigger)
	go func() {
		defer close(out)
		for t := range q.triggers {
			select {
			case out <- t:
				metrics.UpdateRefreshQueueSize(len(q.triggers))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued triggers.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.triggers)
	metrics.UpdateRefreshQueueSize(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.triggers)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
