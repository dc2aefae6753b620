package core

// syncQueue tracks roots with pending synchronous work in schedule order.
// A root is queued at most once until it is flushed.
type syncQueue struct {
	roots  []*Root
	queued map[*Root]bool

	flushing       bool
	flushScheduled bool
}

// schedule queues root and reports whether it was newly added.
func (q *syncQueue) schedule(root *Root) bool {
	if q.queued[root] {
		return false
	}
	if q.queued == nil {
		q.queued = make(map[*Root]bool)
	}
	q.queued[root] = true
	q.roots = append(q.roots, root)
	return true
}

func (q *syncQueue) pop() *Root {
	if len(q.roots) == 0 {
		return nil
	}
	root := q.roots[0]
	q.roots[0] = nil
	q.roots = q.roots[1:]
	delete(q.queued, root)
	return root
}

func (q *syncQueue) len() int {
	return len(q.roots)
}

// ensureRootIsScheduled queues root and arranges for a flush on the next
// microtask. Updates issued in the same turn coalesce into that flush.
func (r *Reconciler) ensureRootIsScheduled(root *Root) {
	if r.sync.schedule(root) {
		r.log.Trace().Str("root", root.id.String()).Msg("root scheduled")
	}
	r.ensureSyncFlushScheduled()
}

func (r *Reconciler) ensureSyncFlushScheduled() {
	// A running flush picks up roots queued during it.
	if r.sync.flushScheduled || r.sync.flushing || r.sync.len() == 0 {
		return
	}
	r.sync.flushScheduled = true
	r.host.ScheduleMicrotask(r.flushSyncCallbacks)
}

// flushSyncCallbacks renders and commits every queued root. A re-entrant
// call is a no-op. If a root panics, it is dropped and the remaining roots
// are flushed on a later microtask.
func (r *Reconciler) flushSyncCallbacks() {
	if r.sync.flushing {
		return
	}
	r.sync.flushScheduled = false
	r.sync.flushing = true
	defer func() {
		r.sync.flushing = false
		r.ensureSyncFlushScheduled()
	}()

	for root := r.sync.pop(); root != nil; root = r.sync.pop() {
		r.performSyncWorkOnRoot(root)
	}
}
