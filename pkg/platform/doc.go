// Package platform provides the scheduling primitives the reconciler runs on.
//
// Queue is a microtask queue with an explicit, deterministic Flush: updates
// requested during one synchronous turn are posted as microtasks and run
// together when the queue is flushed. Tests drive it directly.
//
// Loop owns a single goroutine that runs externally dispatched callbacks one
// at a time and drains the microtask queue after each of them. Every root and
// every state setter must be used from that goroutine; other goroutines hand
// work over with Loop.Dispatch or the global Dispatch.
//
//	loop := platform.NewLoop(nil)
//	loop.Install()
//	go func() {
//	    result := fetch()
//	    platform.Dispatch(func() { setResult.Set(result) })
//	}()
//	err := loop.Run(ctx)
package platform
