package core

import "github.com/go-drift/fiber/pkg/errors"

// flushPassiveEffects runs the effect teardowns and setups of the last
// commit. Every destroy runs before any create. It reports whether there was
// anything to flush.
func (r *Reconciler) flushPassiveEffects() bool {
	root := r.rootWithPendingPassiveEffects
	finishedWork := r.pendingPassiveWork
	if root == nil || finishedWork == nil {
		return false
	}
	r.rootWithPendingPassiveEffects = nil
	r.pendingPassiveWork = nil

	r.commitPassiveUnmountOnFiber(finishedWork)
	r.commitPassiveMountOnFiber(finishedWork)

	r.log.Debug().Str("root", root.id.String()).Msg("passive effects flushed")
	return true
}

func (r *Reconciler) commitPassiveUnmountOnFiber(finishedWork *Fiber) {
	r.recursivelyTraversePassiveUnmountEffects(finishedWork)
	if finishedWork.tag == FunctionComponent && finishedWork.flags&Passive != NoFlags {
		r.commitHookEffectListUnmount(HookPassive|HookHasEffect, finishedWork)
	}
}

func (r *Reconciler) recursivelyTraversePassiveUnmountEffects(parent *Fiber) {
	if parent.flags&ChildDeletion != NoFlags {
		for _, deleted := range parent.deletions {
			r.commitPassiveUnmountEffectsInsideOfDeletedTree(deleted)
		}
		detachAlternateSiblings(parent)
	}
	if parent.subtreeFlags&PassiveMask == NoFlags {
		return
	}
	for child := parent.child; child != nil; child = child.sibling {
		r.commitPassiveUnmountOnFiber(child)
	}
}

// commitPassiveUnmountEffectsInsideOfDeletedTree runs every passive destroy
// in a deleted subtree, parents before children, and clears each fiber's
// links once its subtree is done.
func (r *Reconciler) commitPassiveUnmountEffectsInsideOfDeletedTree(deletedRoot *Fiber) {
	node := deletedRoot
	for node != nil {
		if node.tag == FunctionComponent {
			r.commitHookEffectListUnmount(HookPassive, node)
		}
		if child := node.child; child != nil {
			child.parent = node
			node = child
			continue
		}
		for node != nil {
			sibling := node.sibling
			parent := node.parent
			detachFiberAfterEffects(node)
			if node == deletedRoot {
				return
			}
			if sibling != nil {
				sibling.parent = parent
				node = sibling
				break
			}
			node = parent
		}
	}
}

// detachAlternateSiblings unlinks the previous generation's children of
// parent, which still reference deleted fibers.
func detachAlternateSiblings(parent *Fiber) {
	previous := parent.alternate
	if previous == nil {
		return
	}
	child := previous.child
	previous.child = nil
	for child != nil {
		next := child.sibling
		child.sibling = nil
		child = next
	}
}

func detachFiberAfterEffects(fiber *Fiber) {
	if alternate := fiber.alternate; alternate != nil {
		fiber.alternate = nil
		detachFiberAfterEffects(alternate)
	}
	fiber.child = nil
	fiber.deletions = nil
	fiber.sibling = nil
	fiber.stateNode = nil
	fiber.parent = nil
	fiber.pendingProps = nil
	fiber.memoizedProps = nil
	fiber.memoizedState = nil
	fiber.updateQueue = nil
}

func (r *Reconciler) commitPassiveMountOnFiber(finishedWork *Fiber) {
	if finishedWork.subtreeFlags&PassiveMask != NoFlags {
		for child := finishedWork.child; child != nil; child = child.sibling {
			r.commitPassiveMountOnFiber(child)
		}
	}
	if finishedWork.tag == FunctionComponent && finishedWork.flags&Passive != NoFlags {
		r.commitHookEffectListMount(HookPassive|HookHasEffect, finishedWork)
	}
}

func (r *Reconciler) commitHookEffectListUnmount(flags HookFlags, fiber *Fiber) {
	queue, _ := fiber.updateQueue.(*effectQueue)
	if queue == nil || queue.lastEffect == nil {
		return
	}
	first := queue.lastEffect.next
	e := first
	for {
		if e.tag&flags == flags {
			destroy := e.destroy
			e.destroy = nil
			if destroy != nil {
				r.invokeEffect(fiber, errors.PhaseDestroy, destroy)
			}
		}
		e = e.next
		if e == first {
			break
		}
	}
}

func (r *Reconciler) commitHookEffectListMount(flags HookFlags, fiber *Fiber) {
	queue, _ := fiber.updateQueue.(*effectQueue)
	if queue == nil || queue.lastEffect == nil {
		return
	}
	first := queue.lastEffect.next
	e := first
	for {
		if e.tag&flags == flags && e.create != nil {
			create := e.create
			r.invokeEffect(fiber, errors.PhaseCreate, func() {
				e.destroy = create()
			})
		}
		e = e.next
		if e == first {
			break
		}
	}
}

// invokeEffect runs an effect callback. A panic is re-raised as a component
// error naming the fiber's component.
func (r *Reconciler) invokeEffect(fiber *Fiber, phase errors.Phase, fn func()) {
	name := componentName(fiber)
	defer func() {
		if rec := recover(); rec != nil {
			panic(componentPanic(name, phase, rec))
		}
	}()
	fn()
	r.metrics.Effects.WithLabelValues(string(phase)).Inc()
}
