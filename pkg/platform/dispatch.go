package platform

import "sync"

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func()) bool
)

// RegisterDispatch sets the function used to hand callbacks to the goroutine
// that owns the reconciler. Loop.Install registers the loop's Dispatch; pass
// nil to unregister.
func RegisterDispatch(fn func(callback func()) bool) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Dispatch schedules callback to run on the reconciler goroutine. Background
// goroutines must use it before touching state setters or roots.
// Returns false if no dispatch function is registered, the callback is nil,
// or the registered loop has stopped.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	return fn(callback)
}
