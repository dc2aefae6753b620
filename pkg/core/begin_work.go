package core

import (
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
)

// beginWork renders wip and reconciles its children. It returns the first
// child to work on next, or nil when wip can be completed.
func (r *Reconciler) beginWork(current, wip *Fiber, renderLanes Lanes) *Fiber {
	if current != nil {
		oldProps := current.memoizedProps
		newProps := wip.pendingProps
		if !element.Is(oldProps, newProps) {
			r.didReceiveUpdate = true
		} else if !includesSomeLane(renderLanes, wip.lanes) {
			r.didReceiveUpdate = false
			return r.bailoutOnAlreadyFinishedWork(current, wip, renderLanes)
		} else {
			r.didReceiveUpdate = false
		}
		// The pending lane is consumed by this render on both generations,
		// so a later setter can take the eager path again.
		current.lanes = NoLanes
	} else {
		r.didReceiveUpdate = false
	}

	wip.lanes = NoLanes

	switch wip.tag {
	case FunctionComponent:
		component, ok := wip.typ.(*element.Component)
		if !ok || component.Render == nil {
			panic(errors.Invariant("core.beginWork", "%s has no render function", wip))
		}
		return r.updateFunctionComponent(current, wip, component, propsOf(wip.pendingProps), renderLanes)
	case HostRoot:
		return r.updateHostRoot(current, wip, renderLanes)
	case HostComponent:
		return r.updateHostComponent(current, wip, renderLanes)
	case HostText:
		return nil
	case Fragment:
		return r.updateFragment(current, wip, renderLanes)
	}
	panic(errors.NotImplemented("core.beginWork", "unknown work tag %s", wip.tag))
}

func (r *Reconciler) bailoutOnAlreadyFinishedWork(current, wip *Fiber, renderLanes Lanes) *Fiber {
	if !includesSomeLane(renderLanes, wip.childLanes) {
		// Nothing below has pending work; skip the whole subtree.
		return nil
	}
	cloneChildFibers(current, wip)
	return wip.child
}

// cloneChildFibers replaces wip's children, still shared with current, by
// their work-in-progress alternates.
func cloneChildFibers(current, wip *Fiber) {
	if current != nil && wip.child != current.child {
		panic(errors.NotImplemented("core.cloneChildFibers", "resuming work on %s", wip))
	}
	if wip.child == nil {
		return
	}

	currentChild := wip.child
	newChild := createWorkInProgress(currentChild, currentChild.pendingProps)
	wip.child = newChild
	newChild.parent = wip
	for currentChild.sibling != nil {
		currentChild = currentChild.sibling
		newChild.sibling = createWorkInProgress(currentChild, currentChild.pendingProps)
		newChild = newChild.sibling
		newChild.parent = wip
	}
	newChild.sibling = nil
}

func (r *Reconciler) reconcileChildren(current, wip *Fiber, nextChildren element.Node, renderLanes Lanes) {
	if current == nil {
		wip.child = mountChildFibers.reconcile(wip, nil, nextChildren, renderLanes)
	} else {
		wip.child = reconcileChildFibers.reconcile(wip, current.child, nextChildren, renderLanes)
	}
}

func (r *Reconciler) updateFunctionComponent(current, wip *Fiber, component *element.Component, props element.Props, renderLanes Lanes) *Fiber {
	nextChildren := r.renderWithHooks(current, wip, component, props)
	if current != nil && !r.didReceiveUpdate {
		bailoutHooks(current, wip, renderLanes)
		return r.bailoutOnAlreadyFinishedWork(current, wip, renderLanes)
	}
	r.reconcileChildren(current, wip, nextChildren, renderLanes)
	return wip.child
}

func (r *Reconciler) updateHostRoot(current, wip *Fiber, renderLanes Lanes) *Fiber {
	if current == nil {
		panic(errors.Invariant("core.updateHostRoot", "host root has no current fiber"))
	}
	prevState, _ := wip.memoizedState.(*rootState)
	var prevChildren any
	if prevState != nil {
		prevChildren = prevState.element
	}

	cloneUpdateQueue(current, wip)
	processUpdateQueue(wip, renderLanes)

	nextState, _ := wip.memoizedState.(*rootState)
	var nextChildren any
	if nextState != nil {
		nextChildren = nextState.element
	}
	if element.Is(nextChildren, prevChildren) {
		return r.bailoutOnAlreadyFinishedWork(current, wip, renderLanes)
	}
	r.reconcileChildren(current, wip, nextChildren, renderLanes)
	return wip.child
}

func (r *Reconciler) updateHostComponent(current, wip *Fiber, renderLanes Lanes) *Fiber {
	typ, _ := wip.typ.(string)
	nextProps := propsOf(wip.pendingProps)
	var prevProps element.Props
	if current != nil {
		prevProps = propsOf(current.memoizedProps)
	}

	nextChildren := nextProps.Children()
	if r.host.ShouldSetTextContent(typ, nextProps) {
		// The host renders the text itself; there is no child fiber.
		nextChildren = nil
	} else if prevProps != nil && r.host.ShouldSetTextContent(typ, prevProps) {
		wip.flags |= ContentReset
	}

	r.reconcileChildren(current, wip, nextChildren, renderLanes)
	return wip.child
}

func (r *Reconciler) updateFragment(current, wip *Fiber, renderLanes Lanes) *Fiber {
	r.reconcileChildren(current, wip, wip.pendingProps, renderLanes)
	return wip.child
}
