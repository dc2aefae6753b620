package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/dom"
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
)

// effectLog records effect callbacks in call order.
type effectLog struct {
	entries []string
}

func (l *effectLog) add(s string) { l.entries = append(l.entries, s) }

func (l *effectLog) take() []string {
	out := l.entries
	l.entries = nil
	return out
}

// logged returns a component whose effect logs "<name> create <dep>" and
// "<name> destroy <dep>". The dependency is the "dep" prop; a missing prop
// means no dependency list.
func logged(log *effectLog, name string, children ...element.Node) *element.Component {
	return element.NewComponent(name, func(h element.Hooks, p element.Props) element.Node {
		dep, hasDep := p["dep"]
		var deps []any
		if hasDep {
			deps = element.Deps(dep)
		}
		element.UseEffect(h, func() func() {
			log.add(name + " create " + stringOf(dep))
			return func() { log.add(name + " destroy " + stringOf(dep)) }
		}, deps)
		if len(children) == 0 {
			return nil
		}
		return element.Frag(children...)
	})
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "-"
}

func TestUseEffect_MountAndUnmount(t *testing.T) {
	log := &effectLog{}
	comp := logged(log, "A")
	h := newHarness(t)

	h.render(element.H(comp, element.Props{"dep": "x"}))
	assert.Equal(t, []string{"A create x"}, log.take())

	h.root.Unmount()
	h.flush()
	assert.Equal(t, []string{"A destroy x"}, log.take())
}

func TestUseEffect_DependencySkip(t *testing.T) {
	log := &effectLog{}
	comp := logged(log, "A")
	h := newHarness(t)

	h.render(element.H(comp, element.Props{"dep": "1"}))
	assert.Equal(t, []string{"A create 1"}, log.take())

	h.render(element.H(comp, element.Props{"dep": "1"}))
	assert.Empty(t, log.take(), "equal dependencies must not rerun the effect")

	h.render(element.H(comp, element.Props{"dep": "2"}))
	assert.Equal(t, []string{"A destroy 1", "A create 2"}, log.take())
}

func TestUseEffect_NilDepsRunAfterEveryCommit(t *testing.T) {
	log := &effectLog{}
	comp := logged(log, "A")
	h := newHarness(t)

	h.render(element.H(comp, nil))
	h.render(element.H(comp, nil))
	h.render(element.H(comp, nil))

	assert.Equal(t, []string{
		"A create -",
		"A destroy -", "A create -",
		"A destroy -", "A create -",
	}, log.take())
}

func TestUseEffect_EmptyDepsRunOnce(t *testing.T) {
	log := &effectLog{}
	mounts := 0
	var set element.Setter[int]
	comp := element.NewComponent("Once", func(h element.Hooks, p element.Props) element.Node {
		_, s := element.UseState(h, 0)
		set = s
		element.UseEffect(h, func() func() {
			mounts++
			return func() { log.add("cleanup") }
		}, element.Deps())
		return nil
	})
	h := newHarness(t)
	h.render(element.H(comp, nil))
	set.Set(1)
	h.flush()
	set.Set(2)
	h.flush()

	assert.Equal(t, 1, mounts)
	assert.Empty(t, log.take())

	h.root.Unmount()
	h.flush()
	assert.Equal(t, []string{"cleanup"}, log.take())
}

func TestUseEffect_ReplacedSubtreeDestroysBeforeCreate(t *testing.T) {
	log := &effectLog{}
	inner := logged(log, "C")
	oldComp := logged(log, "A", element.H(inner, element.Props{"dep": "c"}))
	newComp := logged(log, "B")
	h := newHarness(t)

	h.render(element.H("div", nil, element.H(oldComp, element.Props{"dep": "a"})))
	assert.Equal(t, []string{"C create c", "A create a"}, log.take())

	h.render(element.H("div", nil, element.H(newComp, element.Props{"dep": "b"})))
	assert.Equal(t, []string{"A destroy a", "C destroy c", "B create b"}, log.take())
}

func TestUseEffect_AllDestroysBeforeCreates(t *testing.T) {
	log := &effectLog{}
	a, b := logged(log, "A"), logged(log, "B")
	h := newHarness(t)
	tree := func(dep string) *element.Element {
		return element.H("div", nil,
			element.H(a, element.Props{"dep": dep}),
			element.H(b, element.Props{"dep": dep}),
		)
	}

	h.render(tree("1"))
	log.take()
	h.render(tree("2"))
	assert.Equal(t, []string{"A destroy 1", "B destroy 1", "A create 2", "B create 2"}, log.take())
}

func TestUseEffect_StateUpdateFromEffect(t *testing.T) {
	comp := element.NewComponent("Loader", func(h element.Hooks, p element.Props) element.Node {
		loaded, set := element.UseState(h, false)
		element.UseEffect(h, func() func() {
			set.Set(true)
			return nil
		}, element.Deps())
		if loaded {
			return element.H("p", nil, "ready")
		}
		return element.H("p", nil, "loading")
	})
	h := newHarness(t)
	h.render(element.H(comp, nil))

	assert.Equal(t, `<p>ready</p>`, h.html())
}

func TestUseEffect_FlushedBeforeNextRender(t *testing.T) {
	var log effectLog
	s := &manualScheduler{}
	doc := dom.NewDocument(s)
	r := New(doc, Options{})
	root := r.CreateRoot(doc.Body())

	first := element.NewComponent("First", func(h element.Hooks, p element.Props) element.Node {
		log.add("render first")
		element.UseEffect(h, func() func() {
			log.add("effect first")
			return nil
		}, nil)
		return nil
	})
	second := element.NewComponent("Second", func(h element.Hooks, p element.Props) element.Node {
		log.add("render second")
		return nil
	})

	root.Render(element.H(first, nil))
	require.Len(t, s.tasks, 1)
	s.runAt(0)
	require.Len(t, s.tasks, 1, "passive effects wait for their own task")
	assert.Equal(t, []string{"render first"}, log.take())

	root.Render(element.H(second, nil))
	require.Len(t, s.tasks, 2)
	s.runAt(1)
	assert.Equal(t, []string{"effect first", "render second"}, log.take())

	s.drain()
	assert.Empty(t, log.take())
}

func TestUseEffect_PanicInCreate(t *testing.T) {
	silenceErrors(t)
	comp := element.NewComponent("Fragile", func(h element.Hooks, p element.Props) element.Node {
		element.UseEffect(h, func() func() { panic("setup failed") }, element.Deps())
		return element.H("p", nil, "x")
	})
	h := newHarness(t)
	h.root.Render(element.H(comp, nil))
	err := h.queue.Flush()

	var ce *errors.ComponentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Fragile", ce.Component)
	assert.Equal(t, errors.PhaseCreate, ce.Phase)
	// The host tree was committed before effects ran.
	assert.Equal(t, `<p>x</p>`, h.html())
}

func TestUseEffect_PanicInDestroy(t *testing.T) {
	silenceErrors(t)
	comp := element.NewComponent("Sticky", func(h element.Hooks, p element.Props) element.Node {
		element.UseEffect(h, func() func() {
			return func() { panic(errors.New("cleanup failed")) }
		}, element.Deps())
		return nil
	})
	h := newHarness(t)
	h.render(element.H(comp, nil))
	h.root.Unmount()
	err := h.queue.Flush()

	var ce *errors.ComponentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errors.PhaseDestroy, ce.Phase)
	assert.EqualError(t, ce.Err, "cleanup failed")
}
