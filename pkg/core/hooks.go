package core

import (
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
)

// HookFlags tag effect records.
type HookFlags uint8

const (
	// HookHasEffect marks an effect whose create must run in this commit.
	HookHasEffect HookFlags = 1 << 0
	// HookPassive marks an effect run in the passive phase.
	HookPassive HookFlags = 1 << 3
)

type hookKind uint8

const (
	hookReducer hookKind = iota + 1
	hookState
	hookEffect
)

func (k hookKind) String() string {
	switch k {
	case hookReducer:
		return "UseReducer"
	case hookState:
		return "UseState"
	case hookEffect:
		return "UseEffect"
	default:
		return "unknown hook"
	}
}

// hook is one positional cell of a function component. The list hangs off
// the fiber's memoizedState.
type hook struct {
	kind          hookKind
	memoizedState any
	baseState     any
	queue         *hookQueue
	baseQueue     *stateUpdate
	next          *hook
}

type stateUpdate struct {
	action any
	next   *stateUpdate
}

type hookQueue struct {
	// pending is the last update of a circular list.
	pending             *stateUpdate
	lastRenderedReducer element.Reducer
	lastRenderedState   any
	dispatch            element.Dispatch
}

type effect struct {
	tag     HookFlags
	create  element.EffectFunc
	destroy func()
	deps    []any
	next    *effect
}

// effectQueue is a function component's circular effect list.
type effectQueue struct {
	lastEffect *effect
}

// renderContext is the element.Hooks implementation handed to one component
// invocation. It is invalidated when the component returns.
type renderContext struct {
	r         *Reconciler
	fiber     *Fiber
	component *element.Component
	mounting  bool

	currentHook *hook
	wipHook     *hook
	index       int
}

var _ element.Hooks = (*renderContext)(nil)

func (r *Reconciler) renderWithHooks(current, wip *Fiber, component *element.Component, props element.Props) (children element.Node) {
	ctx := &renderContext{
		r:         r,
		fiber:     wip,
		component: component,
		mounting:  current == nil,
	}

	wip.updateQueue = nil
	wip.memoizedState = nil
	wip.lanes = NoLanes

	r.renderingFiber = wip
	defer func() {
		ctx.fiber = nil
		r.renderingFiber = nil
		if rec := recover(); rec != nil {
			panic(componentPanic(component.DisplayName(), errors.PhaseRender, rec))
		}
	}()

	r.metrics.ComponentRenders.WithLabelValues(component.DisplayName()).Inc()
	children = component.Render(ctx, props)

	if !ctx.mounting {
		var remaining bool
		if ctx.currentHook == nil {
			remaining = current.memoizedState != nil
		} else {
			remaining = ctx.currentHook.next != nil
		}
		if remaining {
			panic(errors.Invariant("core.renderWithHooks",
				"%s rendered fewer hooks than during the previous render", component.DisplayName()))
		}
	}
	return children
}

// componentPanic wraps a panic raised by user code. Reconciler errors pass
// through unchanged.
func componentPanic(name string, phase errors.Phase, rec any) any {
	switch rec.(type) {
	case *errors.ReconcileError, *errors.ComponentError:
		return rec
	}
	ce := &errors.ComponentError{
		Component:  name,
		Phase:      phase,
		Recovered:  rec,
		StackTrace: errors.CaptureStack(),
	}
	if err, ok := rec.(error); ok {
		ce.Err = err
	}
	return ce
}

func (ctx *renderContext) checkActive(kind hookKind) {
	if ctx.fiber == nil {
		panic(errors.Invariant("core."+kind.String(),
			"hooks can only be called while %s is rendering", ctx.component.DisplayName()))
	}
}

func (ctx *renderContext) mountWorkInProgressHook(kind hookKind) *hook {
	h := &hook{kind: kind}
	if ctx.wipHook == nil {
		ctx.fiber.memoizedState = h
	} else {
		ctx.wipHook.next = h
	}
	ctx.wipHook = h
	ctx.index++
	return h
}

// updateWorkInProgressHook clones the next hook of the current fiber. Hooks
// are matched by position only.
func (ctx *renderContext) updateWorkInProgressHook(kind hookKind) *hook {
	var next *hook
	if ctx.currentHook == nil {
		current := ctx.fiber.alternate
		if current == nil {
			panic(errors.Invariant("core.updateWorkInProgressHook", "%s has no current fiber", ctx.component.DisplayName()))
		}
		next, _ = current.memoizedState.(*hook)
	} else {
		next = ctx.currentHook.next
	}
	if next == nil {
		panic(errors.Invariant("core.updateWorkInProgressHook",
			"%s rendered more hooks than during the previous render", ctx.component.DisplayName()))
	}
	if next.kind != kind {
		panic(errors.Invariant("core.updateWorkInProgressHook",
			"%s called %s as hook %d, previous render called %s", ctx.component.DisplayName(), kind, ctx.index, next.kind))
	}
	ctx.currentHook = next

	h := &hook{
		kind:          next.kind,
		memoizedState: next.memoizedState,
		baseState:     next.baseState,
		queue:         next.queue,
		baseQueue:     next.baseQueue,
	}
	if ctx.wipHook == nil {
		ctx.fiber.memoizedState = h
	} else {
		ctx.wipHook.next = h
	}
	ctx.wipHook = h
	ctx.index++
	return h
}

// UseReducer implements element.Hooks.
func (ctx *renderContext) UseReducer(reducer element.Reducer, initialArg any, init func(any) any) (any, element.Dispatch) {
	ctx.checkActive(hookReducer)
	if ctx.mounting {
		initial := initialArg
		if init != nil {
			initial = init(initialArg)
		}
		return ctx.mountReducer(hookReducer, reducer, initial)
	}
	return ctx.updateReducer(hookReducer, reducer)
}

// UseState implements element.Hooks.
func (ctx *renderContext) UseState(initial any) (any, element.Dispatch) {
	ctx.checkActive(hookState)
	if ctx.mounting {
		switch fn := initial.(type) {
		case element.StateInitializer:
			initial = fn()
		case func() any:
			initial = fn()
		}
		return ctx.mountReducer(hookState, element.BasicStateReducer, initial)
	}
	return ctx.updateReducer(hookState, element.BasicStateReducer)
}

func (ctx *renderContext) mountReducer(kind hookKind, reducer element.Reducer, initial any) (any, element.Dispatch) {
	h := ctx.mountWorkInProgressHook(kind)
	h.memoizedState = initial
	h.baseState = initial
	queue := &hookQueue{
		lastRenderedReducer: reducer,
		lastRenderedState:   initial,
	}
	r, fiber := ctx.r, ctx.fiber
	queue.dispatch = func(action any) {
		r.dispatchAction(fiber, queue, action)
	}
	h.queue = queue
	return h.memoizedState, queue.dispatch
}

func (ctx *renderContext) updateReducer(kind hookKind, reducer element.Reducer) (any, element.Dispatch) {
	h := ctx.updateWorkInProgressHook(kind)
	queue := h.queue
	queue.lastRenderedReducer = reducer

	current := ctx.currentHook
	baseQueue := current.baseQueue

	if pending := queue.pending; pending != nil {
		if baseQueue != nil {
			// Merge the pending list into the base list.
			baseFirst := baseQueue.next
			pendingFirst := pending.next
			baseQueue.next = pendingFirst
			pending.next = baseFirst
		}
		// Keep the merged list on the current hook until this render commits.
		baseQueue = pending
		current.baseQueue = pending
		queue.pending = nil
	}

	if baseQueue != nil {
		first := baseQueue.next
		newState := current.baseState
		update := first
		for {
			newState = reducer(newState, update.action)
			update = update.next
			if update == nil || update == first {
				break
			}
		}

		if !element.Is(newState, h.memoizedState) {
			ctx.r.didReceiveUpdate = true
		}
		h.memoizedState = newState
		h.baseState = newState
		h.baseQueue = nil
		queue.lastRenderedState = newState
	}

	return h.memoizedState, queue.dispatch
}

// UseEffect implements element.Hooks.
func (ctx *renderContext) UseEffect(create element.EffectFunc, deps []any) {
	ctx.checkActive(hookEffect)
	if ctx.mounting {
		h := ctx.mountWorkInProgressHook(hookEffect)
		ctx.fiber.flags |= Passive | PassiveStatic
		h.memoizedState = ctx.pushEffect(HookHasEffect|HookPassive, create, nil, deps)
		return
	}

	h := ctx.updateWorkInProgressHook(hookEffect)
	var destroy func()
	if prev, ok := ctx.currentHook.memoizedState.(*effect); ok {
		destroy = prev.destroy
		if deps != nil && areHookInputsEqual(deps, prev.deps) {
			h.memoizedState = ctx.pushEffect(HookPassive, create, destroy, deps)
			return
		}
	}
	ctx.fiber.flags |= Passive
	h.memoizedState = ctx.pushEffect(HookHasEffect|HookPassive, create, destroy, deps)
}

func (ctx *renderContext) pushEffect(tag HookFlags, create element.EffectFunc, destroy func(), deps []any) *effect {
	e := &effect{tag: tag, create: create, destroy: destroy, deps: deps}
	queue, _ := ctx.fiber.updateQueue.(*effectQueue)
	if queue == nil {
		queue = &effectQueue{}
		ctx.fiber.updateQueue = queue
	}
	if queue.lastEffect == nil {
		e.next = e
	} else {
		first := queue.lastEffect.next
		queue.lastEffect.next = e
		e.next = first
	}
	queue.lastEffect = e
	return e
}

// areHookInputsEqual compares dependency lists element-wise. A missing
// previous list or a length change counts as a change.
func areHookInputsEqual(nextDeps, prevDeps []any) bool {
	if prevDeps == nil || len(nextDeps) != len(prevDeps) {
		return false
	}
	for i := range prevDeps {
		if !element.Is(nextDeps[i], prevDeps[i]) {
			return false
		}
	}
	return true
}

// bailoutHooks restores the committed effect list after a component rendered
// without a state change.
func bailoutHooks(current, wip *Fiber, lanes Lanes) {
	wip.updateQueue = current.updateQueue
	wip.flags &^= Passive | Update
	current.lanes &^= lanes
}

// dispatchAction enqueues action on queue and schedules a render of fiber,
// unless the action provably leaves the state unchanged.
func (r *Reconciler) dispatchAction(fiber *Fiber, queue *hookQueue, action any) {
	if rf := r.renderingFiber; rf != nil && (rf == fiber || rf == fiber.alternate) {
		panic(errors.NotImplemented("core.dispatchAction",
			"state update on %s while it is rendering", componentName(fiber)))
	}

	update := &stateUpdate{action: action}
	if pending := queue.pending; pending == nil {
		update.next = update
	} else {
		update.next = pending.next
		pending.next = update
	}
	queue.pending = update

	alternate := fiber.alternate
	if fiber.lanes == NoLanes && (alternate == nil || alternate.lanes == NoLanes) {
		if r.eagerStateUnchanged(queue, action) {
			r.metrics.EagerBailouts.Inc()
			return
		}
	}

	r.scheduleUpdateOnFiber(fiber, SyncLane)
}

// eagerStateUnchanged applies the last rendered reducer ahead of the render.
// A panicking reducer is retried during the render, where it is reported.
func (r *Reconciler) eagerStateUnchanged(queue *hookQueue, action any) (same bool) {
	reducer := queue.lastRenderedReducer
	if reducer == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	current := queue.lastRenderedState
	return element.Is(reducer(current, action), current)
}
