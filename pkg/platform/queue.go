package platform

import (
	"fmt"
	"sync"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultFlushLimit is the number of microtasks a single Flush may run before
// it stops with ErrFlushLimit.
const DefaultFlushLimit = 10000

// ErrFlushLimit is returned by Flush when the queue keeps refilling itself,
// usually an effect that sets state on every commit.
var ErrFlushLimit = errors.New("platform: microtask flush limit exceeded")

// Queue is a FIFO of microtasks. Tasks posted while the queue is flushing run
// in the same flush.
//
// ScheduleMicrotask may be called from any goroutine; Flush must only be
// called from the goroutine that owns the reconciler.
type Queue struct {
	mu       sync.Mutex
	tasks    []func()
	flushing bool

	// Limit caps the tasks run by one Flush. Zero means DefaultFlushLimit.
	Limit int
	// Log receives a warning when the queue grows past Limit.
	Log zerolog.Logger
}

// NewQueue returns an empty queue with the given flush limit.
func NewQueue(limit int) *Queue {
	return &Queue{Limit: limit, Log: zerolog.Nop()}
}

// ScheduleMicrotask appends fn to the queue.
func (q *Queue) ScheduleMicrotask(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Flush runs queued tasks in order until the queue is empty.
//
// A panicking task stops the flush: the panic is reported through the
// errors package handler and returned, and the remaining tasks stay queued
// for the next Flush. Hitting Limit stops the flush the same way, with every
// unrun task still queued. Flush called from inside a task is a no-op.
func (q *Queue) Flush() (err error) {
	q.mu.Lock()
	if q.flushing {
		q.mu.Unlock()
		return nil
	}
	q.flushing = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.flushing = false
		q.mu.Unlock()
	}()

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultFlushLimit
	}
	for ran := 0; ; ran++ {
		task, pending, ok := q.pop()
		if !ok {
			return nil
		}
		if ran >= limit {
			q.mu.Lock()
			q.tasks = append([]func(){task}, q.tasks...)
			q.mu.Unlock()
			q.Log.Warn().Int("limit", limit).Int("pending", pending).Msg("microtask queue did not settle, potential update loop")
			return fmt.Errorf("%w: ran %d tasks, %d pending", ErrFlushLimit, ran, pending)
		}
		if err := runTask("platform.Queue.Flush", task); err != nil {
			return err
		}
	}
}

func (q *Queue) pop() (task func(), pending int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil, 0, false
	}
	task = q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return task, len(q.tasks) + 1, true
}

func runTask(op string, task func()) (err error) {
	defer errors.Recover(op, &err)
	task()
	return nil
}
