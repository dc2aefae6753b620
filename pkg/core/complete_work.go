package core

import (
	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
)

// completeWork creates or diffs the host instance of wip once all of its
// children are complete, then bubbles the subtree's flags and lanes.
func (r *Reconciler) completeWork(current, wip *Fiber) {
	switch wip.tag {
	case FunctionComponent, Fragment, HostRoot:
	case HostComponent:
		typ, _ := wip.typ.(string)
		newProps := propsOf(wip.pendingProps)
		if current != nil && wip.stateNode != nil {
			r.updateHostComponentProps(current, wip, typ, newProps)
		} else {
			instance := r.host.CreateInstance(typ, newProps, wip)
			r.appendAllChildren(instance, wip)
			wip.stateNode = instance
			if r.host.FinalizeInitialChildren(instance, typ, newProps) {
				panic(errors.NotImplemented("core.completeWork", "commit-time mount work for <%s>", typ))
			}
		}
	case HostText:
		newText, _ := wip.pendingProps.(string)
		if current != nil && wip.stateNode != nil {
			oldText, _ := current.memoizedProps.(string)
			if oldText != newText {
				wip.flags |= Update
			}
		} else {
			wip.stateNode = r.host.CreateTextInstance(newText, wip)
		}
	default:
		panic(errors.NotImplemented("core.completeWork", "unknown work tag %s", wip.tag))
	}
	bubbleProperties(wip)
}

func (r *Reconciler) updateHostComponentProps(current, wip *Fiber, typ string, newProps element.Props) {
	oldProps := propsOf(current.memoizedProps)
	if element.Is(oldProps, newProps) {
		return
	}
	payload := r.host.PrepareUpdate(wip.stateNode, typ, oldProps, newProps)
	wip.updateQueue = payload
	if payload != nil {
		wip.flags |= Update
	}
}

// appendAllChildren attaches the nearest host descendants of wip to parent.
// Non-host fibers in between are looked through.
func (r *Reconciler) appendAllChildren(parent any, wip *Fiber) {
	node := wip.child
	for node != nil {
		if node.tag == HostComponent || node.tag == HostText {
			r.host.AppendInitialChild(parent, node.stateNode)
		} else if node.child != nil {
			node.child.parent = node
			node = node.child
			continue
		}
		if node == wip {
			return
		}
		for node.sibling == nil {
			if node.parent == nil || node.parent == wip {
				return
			}
			node = node.parent
		}
		node.sibling.parent = node.parent
		node = node.sibling
	}
}

// bubbleProperties folds the children's flags and lanes into wip. When the
// children were reused from the current tree only static flags count.
func bubbleProperties(wip *Fiber) {
	didBailout := wip.alternate != nil && wip.alternate.child == wip.child

	newChildLanes := NoLanes
	subtreeFlags := NoFlags

	for child := wip.child; child != nil; child = child.sibling {
		newChildLanes |= child.lanes | child.childLanes
		if didBailout {
			subtreeFlags |= child.subtreeFlags & StaticMask
			subtreeFlags |= child.flags & StaticMask
		} else {
			subtreeFlags |= child.subtreeFlags
			subtreeFlags |= child.flags
			child.parent = wip
		}
	}

	wip.subtreeFlags |= subtreeFlags
	wip.childLanes = newChildLanes
}
