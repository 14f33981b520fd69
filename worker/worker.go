// Package worker runs response pipelines on a bounded pool of goroutines.
package worker

import "sync"

// Task holds the data for one response-generation task.
type Task struct {
	ID       string
	ClientID string
	Text     string
}

// Handler runs the full response pipeline for one task.
type Handler func(Task)

// Pool manages a fixed number of workers and a queue of tasks. The pool
// bounds concurrent calls to the downstream model and synthesis services
// no matter how many clients are active.
type Pool struct {
	JobQueue   chan Task
	MaxWorkers int

	handler Handler
	wg      sync.WaitGroup
}

// New creates a new Pool.
func New(maxWorkers, queueSize int, handler Handler) *Pool {
	return &Pool{
		JobQueue:   make(chan Task, queueSize),
		MaxWorkers: maxWorkers,
		handler:    handler,
	}
}

// Start creates and starts the worker goroutines.
func (p *Pool) Start() {
	for i := 1; i <= p.MaxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// TrySubmit queues a task without blocking. It reports false when the
// queue is full; the caller decides what to do with the rejected task.
func (p *Pool) TrySubmit(task Task) bool {
	select {
	case p.JobQueue <- task:
		return true
	default:
		return false
	}
}

// Stop closes the queue and waits for queued and in-flight tasks to finish.
func (p *Pool) Stop() {
	close(p.JobQueue)
	p.wg.Wait()
}

// worker drains tasks from the queue until it is closed.
func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.JobQueue {
		p.handler(task)
	}
}
