// Package queue provides an unbounded, single-consumer task queue.
//
// A Queue models one logical execution context: tasks pushed from any
// goroutine run one at a time, in push order, on the queue's own goroutine.
// Push never blocks, so producers on other contexts cannot be stalled by a
// slow consumer.
package queue

import (
	"sync"
)

// PanicHandler is called with the recovered value when a task panics.
type PanicHandler func(recovered any)

// Queue is an unbounded FIFO of tasks drained by a single goroutine.
type Queue struct {
	onPanic PanicHandler
	cond    *sync.Cond
	done    chan struct{}
	tasks   []func()
	mu      sync.Mutex
	started bool
	closed  bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithPanicHandler sets the handler invoked when a task panics.
// Without one, panics are recovered and discarded.
func WithPanicHandler(h PanicHandler) Option {
	return func(q *Queue) {
		q.onPanic = h
	}
}

// New creates a stopped Queue. Call Start to begin draining.
func New(opts ...Option) *Queue {
	q := &Queue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Start launches the consumer goroutine. Calling Start more than once has no effect.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	go q.run()
}

// Push appends a task. It returns false if the queue is closed.
func (q *Queue) Push(task func()) bool {
	if task == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, task)
	q.cond.Signal()
	return true
}

// Flush blocks until every task pushed before the call has run.
// It returns immediately if the queue is closed or was never started.
// A task must not call Flush on its own queue: the consumer would wait for
// itself. Hand the call to another goroutine instead.
func (q *Queue) Flush() {
	q.mu.Lock()
	started := q.started
	q.mu.Unlock()
	if !started {
		return
	}

	marker := make(chan struct{})
	if !q.Push(func() { close(marker) }) {
		return
	}
	select {
	case <-marker:
	case <-q.done:
	}
}

// Close stops accepting tasks, runs the ones already queued and waits for the
// consumer to exit. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		started := q.started
		q.mu.Unlock()
		if started {
			<-q.done
		}
		return
	}
	q.closed = true
	started := q.started
	q.cond.Broadcast()
	q.mu.Unlock()

	if started {
		<-q.done
	}
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 && q.closed {
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.execute(task)
	}
}

func (q *Queue) execute(task func()) {
	defer func() {
		if r := recover(); r != nil && q.onPanic != nil {
			q.onPanic(r)
		}
	}()
	task()
}
