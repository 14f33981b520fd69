// Package dispatch carries finalized recognition results from all sessions
// to the response worker pool through a single ordered hand-off queue.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/corvidlabs/voicegate/log"
	"github.com/corvidlabs/voicegate/metrics"
	"github.com/corvidlabs/voicegate/worker"
)

// Event is one finalized, non-empty utterance from a client.
type Event struct {
	ClientID string
	Text     string
	At       time.Time
}

// Queue is a FIFO hand-off channel shared by all recognition adapters.
// Producers block only when the buffer is full, which pool sizing should
// make rare.
type Queue struct {
	events chan Event
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(size int) *Queue {
	return &Queue{events: make(chan Event, size)}
}

// Enqueue adds an event to the queue.
func (q *Queue) Enqueue(ev Event) {
	q.events <- ev
}

// Events exposes the receive side of the queue. The consumer is its only
// reader in production.
func (q *Queue) Events() <-chan Event {
	return q.events
}

// Submitter accepts tasks without blocking, reporting rejection.
type Submitter interface {
	TrySubmit(worker.Task) bool
}

// Consumer is the queue's only reader. It drains events and submits tasks
// to the pool without waiting for their completion, so a slow pipeline
// never blocks the recognition adapters.
type Consumer struct {
	queue *Queue
	pool  Submitter
}

// NewConsumer creates a consumer for the given queue and pool.
func NewConsumer(queue *Queue, pool Submitter) *Consumer {
	return &Consumer{queue: queue, pool: pool}
}

// Run drains the queue until the context is cancelled. When the pool
// rejects a task the event is dropped and logged, never retried, so a
// saturated pool cannot grow memory without bound.
func (c *Consumer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.queue.Events():
			task := worker.Task{
				ID:       uuid.NewString(),
				ClientID: ev.ClientID,
				Text:     ev.Text,
			}
			if !c.pool.TrySubmit(task) {
				metrics.IncrementTasksDropped()
				log.Info("Dropped utterance for client %s: worker pool saturated", ev.ClientID)
				continue
			}
			metrics.IncrementTasksDispatched()
		}
	}
}
