package core

import "github.com/go-drift/fiber/pkg/errors"

// rootState is the memoized state of the host root fiber.
type rootState struct {
	element any
}

// rootUpdate asks the root to render element.
type rootUpdate struct {
	lane    Lanes
	element any
	next    *rootUpdate
}

type sharedQueue struct {
	// pending is the last update of a circular list.
	pending *rootUpdate
}

// rootUpdateQueue holds the host root's pending render requests. The shared
// pending list is common to both generations of the root fiber, so requests
// survive an abandoned render.
type rootUpdateQueue struct {
	baseState       *rootState
	firstBaseUpdate *rootUpdate
	lastBaseUpdate  *rootUpdate
	shared          *sharedQueue
}

func initializeUpdateQueue(fiber *Fiber) {
	state, _ := fiber.memoizedState.(*rootState)
	fiber.updateQueue = &rootUpdateQueue{
		baseState: state,
		shared:    &sharedQueue{},
	}
}

func enqueueUpdate(fiber *Fiber, update *rootUpdate) {
	queue, ok := fiber.updateQueue.(*rootUpdateQueue)
	if !ok {
		// Only roots carry an update queue; an unmounted root has none.
		return
	}
	pending := queue.shared.pending
	if pending == nil {
		update.next = update
	} else {
		update.next = pending.next
		pending.next = update
	}
	queue.shared.pending = update
}

// cloneUpdateQueue gives the work-in-progress root its own queue object.
func cloneUpdateQueue(current, wip *Fiber) {
	queue, _ := wip.updateQueue.(*rootUpdateQueue)
	currentQueue, _ := current.updateQueue.(*rootUpdateQueue)
	if queue == currentQueue {
		wip.updateQueue = &rootUpdateQueue{
			baseState:       currentQueue.baseState,
			firstBaseUpdate: currentQueue.firstBaseUpdate,
			lastBaseUpdate:  currentQueue.lastBaseUpdate,
			shared:          currentQueue.shared,
		}
	}
}

// processUpdateQueue folds every pending update into the root state. The last
// requested element wins.
func processUpdateQueue(wip *Fiber, renderLanes Lanes) {
	queue, ok := wip.updateQueue.(*rootUpdateQueue)
	if !ok {
		panic(errors.Invariant("core.processUpdateQueue", "%s has no update queue", wip))
	}

	firstBaseUpdate := queue.firstBaseUpdate
	lastBaseUpdate := queue.lastBaseUpdate

	if pending := queue.shared.pending; pending != nil {
		queue.shared.pending = nil

		lastPendingUpdate := pending
		firstPendingUpdate := lastPendingUpdate.next
		lastPendingUpdate.next = nil
		if lastBaseUpdate == nil {
			firstBaseUpdate = firstPendingUpdate
		} else {
			lastBaseUpdate.next = firstPendingUpdate
		}
		lastBaseUpdate = lastPendingUpdate

		// Append to the current queue too, so the updates are not lost if
		// this render never commits.
		if current := wip.alternate; current != nil {
			if currentQueue, ok := current.updateQueue.(*rootUpdateQueue); ok && currentQueue != queue {
				if currentQueue.lastBaseUpdate != lastBaseUpdate {
					if currentQueue.lastBaseUpdate == nil {
						currentQueue.firstBaseUpdate = firstPendingUpdate
					} else {
						currentQueue.lastBaseUpdate.next = firstPendingUpdate
					}
					currentQueue.lastBaseUpdate = lastPendingUpdate
				}
			}
		}
	}

	if firstBaseUpdate == nil {
		return
	}

	newState := queue.baseState
	for update := firstBaseUpdate; update != nil; update = update.next {
		if !includesSomeLane(renderLanes, update.lane) {
			panic(errors.NotImplemented("core.processUpdateQueue", "update lane %d outside render lanes %d", update.lane, renderLanes))
		}
		newState = &rootState{element: update.element}
	}

	queue.baseState = newState
	queue.firstBaseUpdate = nil
	queue.lastBaseUpdate = nil
	wip.memoizedState = newState
}
