// Package core implements the fiber reconciler: it turns element trees into
// host instances and keeps them in sync as the trees change.
//
// # Fibers
//
// Every rendered element is mirrored by a Fiber. A root keeps two
// generations of fibers: the committed (current) tree and the
// work-in-progress tree being rendered. Each fiber is paired with its
// counterpart from the other generation through its alternate, and fibers
// are recycled between renders instead of being reallocated.
//
// # Render and Commit
//
// An update marks the path from the updated fiber to its root and queues the
// root for a flush on the host's next microtask, so updates issued in the
// same turn coalesce. The flush renders the root synchronously: beginWork
// invokes components and reconciles their children, and completeWork creates
// or diffs host instances and bubbles effect flags upward. The commit phase
// then applies deletions, placements and updates to the host, swaps the
// current tree, and schedules passive effects. Passive effects run on a
// later microtask, or before the next render if that comes first; every
// cleanup runs before any setup.
//
// # Hooks
//
// Function components receive an element.Hooks value. Hooks are stored
// positionally on the fiber, so a component must call the same hooks in the
// same order on every render:
//
//	var Counter = element.NewComponent("Counter", func(h element.Hooks, p element.Props) element.Node {
//	    n, set := element.UseState(h, 0)
//	    return element.H("button", element.Props{"onClick": func() { set.Set(n + 1) }}, n)
//	})
//
// # Host
//
// The reconciler never touches a platform directly. All host operations go
// through HostConfig; see package dom for an in-memory implementation.
//
// # Errors
//
// Engine faults panic with *errors.ReconcileError. Panics raised by
// components and effects are re-raised as *errors.ComponentError. Nothing
// inside a flush recovers; the host's microtask queue reports the error and
// returns it to whoever flushed.
package core
