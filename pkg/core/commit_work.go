package core

import "github.com/go-drift/fiber/pkg/errors"

// Host mutation labels for metrics.
const (
	opPlacement    = "placement"
	opDeletion     = "deletion"
	opUpdate       = "update"
	opTextUpdate   = "text_update"
	opContentReset = "content_reset"
)

func (r *Reconciler) countMutation(op string) {
	r.metrics.HostMutations.WithLabelValues(op).Inc()
}

func (r *Reconciler) commitMutationEffects(root *Root, finishedWork *Fiber) {
	r.commitMutationEffectsOnFiber(root, finishedWork)
}

// recursivelyTraverseMutationEffects removes the deletions of parent, then
// commits its children. Subtrees without mutation flags are skipped.
func (r *Reconciler) recursivelyTraverseMutationEffects(root *Root, parent *Fiber) {
	for _, child := range parent.deletions {
		r.commitDeletionEffects(root, parent, child)
	}
	if parent.subtreeFlags&MutationMask == NoFlags {
		return
	}
	for child := parent.child; child != nil; child = child.sibling {
		r.commitMutationEffectsOnFiber(root, child)
	}
}

func (r *Reconciler) commitMutationEffectsOnFiber(root *Root, finishedWork *Fiber) {
	current := finishedWork.alternate
	flags := finishedWork.flags

	r.recursivelyTraverseMutationEffects(root, finishedWork)
	r.commitReconciliationEffects(finishedWork)

	switch finishedWork.tag {
	case HostComponent:
		instance := finishedWork.stateNode
		// A placed child may already have reset the text.
		if finishedWork.flags&ContentReset != NoFlags {
			finishedWork.flags &^= ContentReset
			r.host.ResetTextContent(instance)
			r.countMutation(opContentReset)
		}
		if flags&Update != NoFlags && instance != nil {
			typ, _ := finishedWork.typ.(string)
			newProps := propsOf(finishedWork.memoizedProps)
			oldProps := newProps
			if current != nil {
				oldProps = propsOf(current.memoizedProps)
			}
			payload := finishedWork.updateQueue
			finishedWork.updateQueue = nil
			if payload != nil {
				r.host.CommitUpdate(instance, payload, typ, oldProps, newProps, finishedWork)
				r.countMutation(opUpdate)
			}
		}
	case HostText:
		if flags&Update != NoFlags {
			if finishedWork.stateNode == nil {
				panic(errors.Invariant("core.commitMutationEffects", "%s has no text instance", finishedWork))
			}
			newText, _ := finishedWork.memoizedProps.(string)
			oldText := newText
			if current != nil {
				oldText, _ = current.memoizedProps.(string)
			}
			r.host.CommitTextUpdate(finishedWork.stateNode, oldText, newText)
			r.countMutation(opTextUpdate)
		}
	}
}

func (r *Reconciler) commitReconciliationEffects(finishedWork *Fiber) {
	if finishedWork.flags&Placement != NoFlags {
		r.commitPlacement(finishedWork)
		finishedWork.flags &^= Placement
	}
}

func isHostParent(f *Fiber) bool {
	return f.tag == HostComponent || f.tag == HostRoot
}

func getHostParentFiber(fiber *Fiber) *Fiber {
	for parent := fiber.parent; parent != nil; parent = parent.parent {
		if isHostParent(parent) {
			return parent
		}
	}
	panic(errors.Invariant("core.getHostParentFiber", "%s has no host parent", fiber))
}

func (r *Reconciler) commitPlacement(finishedWork *Fiber) {
	parentFiber := getHostParentFiber(finishedWork)
	switch parentFiber.tag {
	case HostComponent:
		parent := parentFiber.stateNode
		if parentFiber.flags&ContentReset != NoFlags {
			// Clear the old text before the first child goes in.
			r.host.ResetTextContent(parent)
			r.countMutation(opContentReset)
			parentFiber.flags &^= ContentReset
		}
		before := getHostSibling(finishedWork)
		r.insertOrAppendPlacementNode(finishedWork, before, parent)
	case HostRoot:
		root, ok := parentFiber.stateNode.(*Root)
		if !ok {
			panic(errors.Invariant("core.commitPlacement", "host root without a root"))
		}
		before := getHostSibling(finishedWork)
		r.insertOrAppendPlacementNodeIntoContainer(finishedWork, before, root.containerInfo)
	default:
		panic(errors.Invariant("core.commitPlacement", "invalid host parent %s", parentFiber))
	}
}

// getHostSibling returns the host instance that fiber's host nodes must be
// inserted before, or nil to append. Fibers that are themselves being placed
// are not stable anchors and are skipped.
func getHostSibling(fiber *Fiber) any {
	node := fiber
siblings:
	for {
		for node.sibling == nil {
			if node.parent == nil || isHostParent(node.parent) {
				return nil
			}
			node = node.parent
		}
		node.sibling.parent = node.parent
		node = node.sibling
		for node.tag != HostComponent && node.tag != HostText {
			if node.flags&Placement != NoFlags || node.child == nil {
				continue siblings
			}
			node.child.parent = node
			node = node.child
		}
		if node.flags&Placement == NoFlags {
			return node.stateNode
		}
	}
}

func (r *Reconciler) insertOrAppendPlacementNode(node *Fiber, before, parent any) {
	if node.tag == HostComponent || node.tag == HostText {
		if before != nil {
			r.host.InsertBefore(parent, node.stateNode, before)
		} else {
			r.host.AppendChild(parent, node.stateNode)
		}
		r.countMutation(opPlacement)
		return
	}
	for child := node.child; child != nil; child = child.sibling {
		r.insertOrAppendPlacementNode(child, before, parent)
	}
}

func (r *Reconciler) insertOrAppendPlacementNodeIntoContainer(node *Fiber, before, container any) {
	if node.tag == HostComponent || node.tag == HostText {
		if before != nil {
			r.host.InsertInContainerBefore(container, node.stateNode, before)
		} else {
			r.host.AppendChildToContainer(container, node.stateNode)
		}
		r.countMutation(opPlacement)
		return
	}
	for child := node.child; child != nil; child = child.sibling {
		r.insertOrAppendPlacementNodeIntoContainer(child, before, container)
	}
}

// commitDeletionEffects removes the host nodes of deletedFiber from the
// nearest host ancestor of returnFiber and detaches it from the tree.
func (r *Reconciler) commitDeletionEffects(root *Root, returnFiber, deletedFiber *Fiber) {
	var hostParent any
	for parent := returnFiber; parent != nil; parent = parent.parent {
		if parent.tag == HostComponent {
			hostParent = parent.stateNode
			break
		}
		if parent.tag == HostRoot {
			hostParent = root.containerInfo
			break
		}
	}
	if hostParent == nil {
		panic(errors.Invariant("core.commitDeletionEffects", "%s has no host parent", deletedFiber))
	}
	r.commitDeletionEffectsOnFiber(deletedFiber, hostParent)
	detachFiberMutation(deletedFiber)
}

// commitDeletionEffectsOnFiber removes the topmost host nodes of a deleted
// subtree. Host nodes nested under another deleted host node go with it.
func (r *Reconciler) commitDeletionEffectsOnFiber(deletedFiber *Fiber, hostParent any) {
	switch deletedFiber.tag {
	case HostComponent, HostText:
		r.recursivelyTraverseDeletionEffects(deletedFiber, nil)
		if hostParent != nil {
			r.host.RemoveChild(hostParent, deletedFiber.stateNode)
			r.countMutation(opDeletion)
		}
	default:
		r.recursivelyTraverseDeletionEffects(deletedFiber, hostParent)
	}
}

func (r *Reconciler) recursivelyTraverseDeletionEffects(parent *Fiber, hostParent any) {
	for child := parent.child; child != nil; child = child.sibling {
		r.commitDeletionEffectsOnFiber(child, hostParent)
	}
}

// detachFiberMutation cuts the deleted fiber off from its parent so updates
// scheduled on it no longer reach the root. The remaining links are cleared
// after its passive effects run.
func detachFiberMutation(fiber *Fiber) {
	if alternate := fiber.alternate; alternate != nil {
		alternate.parent = nil
	}
	fiber.parent = nil
}
