package platform

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-drift/fiber/pkg/errors"
)

// ErrLoopRunning is returned when Run is called on a loop that is already running.
var ErrLoopRunning = errors.New("platform: loop is already running")

// Loop runs dispatched callbacks and microtasks on a single goroutine.
type Loop struct {
	queue   *Queue
	ingress chan func()
	done    chan struct{}
	stop    sync.Once
	running atomic.Bool
}

// NewLoop returns a loop draining queue after every callback. A nil queue
// gets a fresh one with the default flush limit.
func NewLoop(queue *Queue) *Loop {
	if queue == nil {
		queue = NewQueue(0)
	}
	return &Loop{
		queue:   queue,
		ingress: make(chan func(), 64),
		done:    make(chan struct{}),
	}
}

// Queue returns the loop's microtask queue.
func (l *Loop) Queue() *Queue {
	return l.queue
}

// ScheduleMicrotask posts fn to the loop's microtask queue.
func (l *Loop) ScheduleMicrotask(fn func()) {
	l.queue.ScheduleMicrotask(fn)
}

// Dispatch hands fn to the loop goroutine. It blocks while the ingress buffer
// is full and returns false once the loop has stopped.
func (l *Loop) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.ingress <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Install registers the loop as the global dispatch target.
func (l *Loop) Install() {
	RegisterDispatch(l.Dispatch)
}

// Run processes callbacks until ctx is cancelled or a callback or microtask
// fails. Microtasks queued before Run are flushed first. It returns the first
// error, or ctx.Err() on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.stop.Do(func() { close(l.done) })

	if err := l.queue.Flush(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.ingress:
			if err := runTask("platform.Loop.Run", fn); err != nil {
				return err
			}
			if err := l.queue.Flush(); err != nil {
				return err
			}
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
