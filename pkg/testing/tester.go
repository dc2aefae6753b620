package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/dom"
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/metrics"
	"github.com/go-drift/fiber/pkg/platform"
)

// DefaultFrame is the time PumpAndSettle advances the clock per step.
const DefaultFrame = 16 * time.Millisecond

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: timers or updates still pending")

// Tester renders components into an in-memory DOM document. Microtasks run
// only when the tester pumps, which makes every render deterministic.
type Tester struct {
	queue      *platform.Queue
	doc        *dom.Document
	clock      *FakeClock
	log        zerolog.Logger
	metrics    *metrics.Metrics
	nested     int
	reconciler *core.Reconciler
	root       *core.Root
	dispatches []func()
}

// NewTester creates a tester with an empty document.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester() *Tester {
	queue := platform.NewQueue(0)
	t := &Tester{
		queue:   queue,
		doc:     dom.NewDocument(queue),
		clock:   NewFakeClock(),
		log:     zerolog.Nop(),
		metrics: metrics.Unregistered(),
	}
	// Register this tester's dispatch function with the platform package
	// so that platform.Dispatch works during tests
	platform.RegisterDispatch(func(fn func()) bool {
		t.Dispatch(fn)
		return true
	})
	return t
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests. An error raised while
// unmounting, such as a panicking effect destroy, fails the test.
func NewTesterWithT(t testing.TB) *Tester {
	tester := NewTester()
	t.Cleanup(func() {
		if err := tester.Cleanup(); err != nil {
			t.Errorf("cleanup: %v", err)
		}
	})
	return tester
}

// Cleanup unmounts the tree, running every pending destroy, and unregisters
// the dispatch function. It returns the error of the final flush.
func (t *Tester) Cleanup() error {
	var err error
	if t.root != nil {
		t.root.Unmount()
		err = t.queue.Flush()
		t.root = nil
	}
	platform.RegisterDispatch(nil)
	return err
}

// SetLogger sets the reconciler and document logger. Must be called before
// the first Render.
func (t *Tester) SetLogger(log zerolog.Logger) {
	t.log = log
	t.doc.SetLogger(log)
}

// SetMetrics replaces the collectors. Must be called before the first Render.
func (t *Tester) SetMetrics(m *metrics.Metrics) {
	t.metrics = m
}

// SetNestedUpdateLimit overrides the reconciler's nested update limit. Must
// be called before the first Render.
func (t *Tester) SetNestedUpdateLimit(n int) {
	t.nested = n
}

// Clock returns the fake clock. It also drives the reconciler's render
// duration measurements.
func (t *Tester) Clock() *FakeClock {
	return t.clock
}

// Document returns the host document.
func (t *Tester) Document() *dom.Document {
	return t.doc
}

// Root returns the root, creating the reconciler on first use.
func (t *Tester) Root() *core.Root {
	if t.root == nil {
		t.reconciler = core.New(t.doc, core.Options{
			Logger:            &t.log,
			Metrics:           t.metrics,
			Now:               t.clock.Now,
			NestedUpdateLimit: t.nested,
		})
		t.root = t.reconciler.CreateRoot(t.doc.Body())
	}
	return t.root
}

// Render reconciles node into the root and pumps until the commit and its
// passive effects have run.
func (t *Tester) Render(node element.Node) error {
	t.Root().Render(node)
	return t.Pump()
}

// Pump runs queued dispatches, then flushes the microtask queue.
func (t *Tester) Pump() error {
	dispatches := t.dispatches
	t.dispatches = nil
	for _, fn := range dispatches {
		fn()
	}
	return t.queue.Flush()
}

// Advance moves the fake clock forward, firing due timers, then pumps.
func (t *Tester) Advance(d time.Duration) error {
	t.clock.Advance(d)
	return t.Pump()
}

// PumpAndSettle pumps and advances the clock by DefaultFrame until no work
// is pending or the timeout is reached.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
		t.clock.Advance(DefaultFrame)
		elapsed += DefaultFrame
	}
	return ErrSettleTimeout
}

func (t *Tester) needsWork() bool {
	return len(t.dispatches) > 0 || t.queue.Len() > 0 || t.clock.Pending() > 0
}

// Dispatch queues a callback for the next Pump, mirroring platform.Dispatch.
func (t *Tester) Dispatch(fn func()) {
	if fn != nil {
		t.dispatches = append(t.dispatches, fn)
	}
}

// HTML serializes the document body.
func (t *Tester) HTML() string {
	return t.doc.HTML()
}

// Ops returns the recorded host mutations as strings and clears the log.
func (t *Tester) Ops() []string {
	ops := t.doc.OpStrings()
	t.doc.ResetOps()
	return ops
}

// Find evaluates a finder against the document body.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{
		nodes:  finder.Evaluate(t.doc, t.doc.Body()),
		finder: finder,
	}
}

// Fiber returns the fiber that owns the host node n.
func (t *Tester) Fiber(n *html.Node) *core.Fiber {
	f, _ := t.doc.Handle(n).(*core.Fiber)
	return f
}
