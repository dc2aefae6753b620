package core

import (
	"github.com/google/uuid"

	"github.com/go-drift/fiber/pkg/element"
)

// Root binds a host container to a fiber tree.
type Root struct {
	r             *Reconciler
	id            uuid.UUID
	containerInfo any

	current      *Fiber
	finishedWork *Fiber
	pendingLanes Lanes
}

// CreateRoot returns a new, empty root rendering into container.
func (r *Reconciler) CreateRoot(container any) *Root {
	root := &Root{
		r:             r,
		id:            uuid.New(),
		containerInfo: container,
	}
	fiber := createHostRootFiber()
	fiber.stateNode = root
	fiber.memoizedState = &rootState{}
	initializeUpdateQueue(fiber)
	root.current = fiber

	r.log.Debug().Str("root", root.id.String()).Msg("root created")
	return root
}

// Render schedules children to replace the root's content. The render runs
// on the host's next microtask; several calls in the same turn render only
// the last tree. Rendering an equal tree again diffs against the committed
// one instead of mounting afresh.
func (root *Root) Render(children element.Node) {
	update := &rootUpdate{lane: SyncLane, element: children}
	enqueueUpdate(root.current, update)
	root.r.scheduleUpdateOnFiber(root.current, SyncLane)
}

// Unmount schedules the removal of everything rendered into the root. Every
// effect cleanup runs.
func (root *Root) Unmount() {
	root.Render(nil)
}

// ID returns the root's unique id, used in logs and traces.
func (root *Root) ID() uuid.UUID { return root.id }

// Container returns the host container passed to CreateRoot.
func (root *Root) Container() any { return root.containerInfo }

// Current returns the host root fiber of the committed tree.
func (root *Root) Current() *Fiber { return root.current }
