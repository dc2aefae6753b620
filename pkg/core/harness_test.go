package core

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/go-drift/fiber/pkg/dom"
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/metrics"
	"github.com/go-drift/fiber/pkg/platform"
)

var _ HostConfig = (*dom.Document)(nil)

type silentHandler struct{}

func (silentHandler) HandleError(*errors.ReconcileError)          {}
func (silentHandler) HandleComponentError(*errors.ComponentError) {}
func (silentHandler) HandlePanic(*errors.PanicError)              {}

func silenceErrors(t *testing.T) {
	t.Helper()
	errors.SetHandler(silentHandler{})
	t.Cleanup(func() { errors.SetHandler(nil) })
}

// harness renders into a DOM document whose microtasks run on Flush.
type harness struct {
	t       *testing.T
	queue   *platform.Queue
	doc     *dom.Document
	metrics *metrics.Metrics
	r       *Reconciler
	root    *Root
}

func newHarness(t *testing.T, opts ...func(*Options)) *harness {
	t.Helper()
	queue := platform.NewQueue(0)
	doc := dom.NewDocument(queue)
	m := metrics.Unregistered()
	o := Options{Metrics: m}
	for _, fn := range opts {
		fn(&o)
	}
	r := New(doc, o)
	return &harness{
		t:       t,
		queue:   queue,
		doc:     doc,
		metrics: o.Metrics,
		r:       r,
		root:    r.CreateRoot(doc.Body()),
	}
}

// render renders node and flushes every pending task.
func (h *harness) render(node element.Node) {
	h.t.Helper()
	h.root.Render(node)
	h.flush()
}

func (h *harness) flush() {
	h.t.Helper()
	require.NoError(h.t, h.queue.Flush())
}

// renderErr renders node and returns the flush error.
func (h *harness) renderErr(node element.Node) error {
	h.root.Render(node)
	return h.queue.Flush()
}

func (h *harness) html() string {
	return h.doc.HTML()
}

func (h *harness) byID(id string) *html.Node {
	h.t.Helper()
	n := dom.Find(h.doc.Body(), dom.ByID(id))
	require.NotNil(h.t, n, "no element with id %q", id)
	return n
}

// hostOps returns the recorded insertions, moves and removals.
func (h *harness) hostOps() []string {
	var out []string
	for _, op := range h.doc.Ops() {
		switch op.Kind {
		case dom.OpAppend, dom.OpInsert, dom.OpRemove:
			out = append(out, op.String())
		}
	}
	return out
}

// walkFibers visits f and its descendants depth first.
func walkFibers(f *Fiber, fn func(*Fiber)) {
	if f == nil {
		return
	}
	fn(f)
	for c := f.child; c != nil; c = c.sibling {
		walkFibers(c, fn)
	}
}

// manualScheduler holds microtasks until they are run one at a time.
type manualScheduler struct {
	tasks []func()
}

func (s *manualScheduler) ScheduleMicrotask(fn func()) {
	s.tasks = append(s.tasks, fn)
}

func (s *manualScheduler) runAt(i int) {
	fn := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	fn()
}

func (s *manualScheduler) drain() {
	for len(s.tasks) > 0 {
		s.runAt(0)
	}
}

func li(id string) *element.Element {
	return element.H("li", element.Props{"key": id, "id": id}, id)
}

func list(ids ...string) *element.Element {
	return element.H("ul", element.Props{"id": "list"}, element.Map(ids, func(id string, _ int) element.Node {
		return li(id)
	}))
}

func counterValue(c prometheus.Collector) float64 {
	return testutil.ToFloat64(c)
}
