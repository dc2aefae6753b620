package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/metrics"
)

// DefaultNestedUpdateLimit bounds how many consecutive commits of one root may
// leave synchronous work behind before the reconciler gives up.
const DefaultNestedUpdateLimit = 50

const tracerName = "github.com/go-drift/fiber/pkg/core"

// Options configures a Reconciler. The zero value is usable.
type Options struct {
	// Logger receives render and commit diagnostics. Nil disables logging.
	Logger *zerolog.Logger
	// Metrics receives counters and timings. Nil uses unregistered collectors.
	Metrics *metrics.Metrics
	// Tracer creates the render and commit spans. Nil uses the global provider.
	Tracer trace.Tracer
	// Now returns the current time. Nil uses time.Now.
	Now func() time.Time
	// NestedUpdateLimit overrides DefaultNestedUpdateLimit when positive.
	NestedUpdateLimit int
}

// Reconciler renders element trees into a host through fibers.
//
// A Reconciler and all of its roots are confined to one goroutine: the one
// that calls Root.Render, dispatches state updates and runs the host's
// microtasks.
type Reconciler struct {
	host    HostConfig
	log     zerolog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time

	// Render state. Only valid while a render is in progress.
	wipRoot            *Root
	wip                *Fiber
	wipRootRenderLanes Lanes
	didReceiveUpdate   bool
	renderingFiber     *Fiber

	// Passive effects of the last commit, run on the next microtask or
	// before the next render, whichever comes first.
	rootWithPendingPassiveEffects *Root
	pendingPassiveWork            *Fiber
	passiveFlushScheduled         bool

	sync syncQueue

	nestedUpdateLimit     int
	nestedUpdateCount     int
	rootWithNestedUpdates *Root
}

// New creates a Reconciler driving host.
func New(host HostConfig, opts Options) *Reconciler {
	if host == nil {
		panic(errors.Invariant("core.New", "host config is nil"))
	}
	r := &Reconciler{
		host:              host,
		log:               zerolog.Nop(),
		metrics:           opts.Metrics,
		tracer:            opts.Tracer,
		now:               opts.Now,
		nestedUpdateLimit: opts.NestedUpdateLimit,
	}
	if opts.Logger != nil {
		r.log = opts.Logger.With().Str("component", "reconciler").Logger()
	}
	if r.metrics == nil {
		r.metrics = metrics.Unregistered()
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.nestedUpdateLimit <= 0 {
		r.nestedUpdateLimit = DefaultNestedUpdateLimit
	}
	return r
}

// scheduleUpdateOnFiber marks fiber dirty up to its root and queues the
// root for the next synchronous flush.
func (r *Reconciler) scheduleUpdateOnFiber(fiber *Fiber, lane Lanes) {
	if r.nestedUpdateCount > r.nestedUpdateLimit {
		r.nestedUpdateCount = 0
		r.rootWithNestedUpdates = nil
		panic(errors.Invariant("core.scheduleUpdateOnFiber",
			"maximum update depth exceeded: a component keeps scheduling updates while rendering"))
	}

	root := markUpdateLaneFromFiberToRoot(fiber, lane)
	if root == nil {
		r.log.Warn().
			Str("fiber", fiber.String()).
			Msg("ignoring state update on an unmounted component")
		return
	}
	root.pendingLanes |= lane
	r.ensureRootIsScheduled(root)
}

// markUpdateLaneFromFiberToRoot sets lane on fiber and childLanes on each
// ancestor, on both generations. It returns nil when fiber is no longer
// attached to a root.
func markUpdateLaneFromFiberToRoot(source *Fiber, lane Lanes) *Root {
	source.lanes |= lane
	if alternate := source.alternate; alternate != nil {
		alternate.lanes |= lane
	}
	node := source
	parent := source.parent
	for parent != nil {
		parent.childLanes |= lane
		if alternate := parent.alternate; alternate != nil {
			alternate.childLanes |= lane
		}
		node = parent
		parent = parent.parent
	}
	if node.tag != HostRoot {
		return nil
	}
	root, _ := node.stateNode.(*Root)
	return root
}

// performSyncWorkOnRoot renders and commits root if it has sync work.
func (r *Reconciler) performSyncWorkOnRoot(root *Root) {
	r.flushPassiveEffects()

	if !includesSomeLane(root.pendingLanes, SyncLane) {
		return
	}
	lanes := SyncLane
	// Updates scheduled from here on requeue the root.
	root.pendingLanes &^= lanes

	start := r.now()
	ctx := context.Background()
	r.renderRootSync(ctx, root, lanes)
	root.finishedWork = root.current.alternate
	r.commitRoot(ctx, root)

	elapsed := r.now().Sub(start)
	r.metrics.RenderDuration.Observe(elapsed.Seconds())
	r.log.Debug().
		Str("root", root.id.String()).
		Dur("duration", elapsed).
		Msg("root flushed")
}

func (r *Reconciler) rootSpan(ctx context.Context, name string, root *Root) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("fiber.root", root.id.String())))
}

func (r *Reconciler) renderRootSync(ctx context.Context, root *Root, lanes Lanes) {
	_, span := r.rootSpan(ctx, "fiber.render", root)
	defer span.End()

	if r.wipRoot != root || r.wipRootRenderLanes != lanes {
		r.prepareFreshStack(root, lanes)
	}

	completed := false
	defer func() {
		if !completed {
			// The work-in-progress tree is abandoned; current is untouched.
			r.wipRoot = nil
			r.wip = nil
			r.wipRootRenderLanes = NoLanes
			r.renderingFiber = nil
			span.SetAttributes(attribute.Bool("fiber.aborted", true))
		}
	}()

	r.metrics.Renders.Inc()
	for r.wip != nil {
		r.performUnitOfWork(r.wip)
	}
	completed = true

	r.wipRoot = nil
	r.wipRootRenderLanes = NoLanes
}

func (r *Reconciler) prepareFreshStack(root *Root, lanes Lanes) {
	root.finishedWork = nil
	r.wipRoot = root
	r.wip = createWorkInProgress(root.current, nil)
	r.wipRootRenderLanes = lanes
}

func (r *Reconciler) performUnitOfWork(unit *Fiber) {
	current := unit.alternate
	r.log.Trace().Stringer("fiber", unit).Msg("begin work")

	next := r.beginWork(current, unit, r.wipRootRenderLanes)
	unit.memoizedProps = unit.pendingProps
	if next == nil {
		r.completeUnitOfWork(unit)
	} else {
		r.wip = next
	}
}

// completeUnitOfWork completes unit and its ancestors until one of them has
// a sibling left to begin.
func (r *Reconciler) completeUnitOfWork(unit *Fiber) {
	completed := unit
	for completed != nil {
		current := completed.alternate
		parent := completed.parent

		r.log.Trace().Stringer("fiber", completed).Msg("complete work")
		r.completeWork(current, completed)

		if sibling := completed.sibling; sibling != nil {
			r.wip = sibling
			return
		}
		completed = parent
		r.wip = completed
	}
}

func (r *Reconciler) commitRoot(ctx context.Context, root *Root) {
	_, span := r.rootSpan(ctx, "fiber.commit", root)
	defer span.End()

	finishedWork := root.finishedWork
	if finishedWork == nil {
		return
	}
	root.finishedWork = nil
	if finishedWork == root.current {
		panic(errors.Invariant("core.commitRoot", "cannot commit the tree that is already current"))
	}

	if (finishedWork.subtreeFlags|finishedWork.flags)&PassiveMask != NoFlags && !r.passiveFlushScheduled {
		r.passiveFlushScheduled = true
		r.host.ScheduleMicrotask(func() {
			r.passiveFlushScheduled = false
			r.flushPassiveEffects()
		})
	}

	if (finishedWork.subtreeFlags|finishedWork.flags)&MutationMask != NoFlags {
		r.commitMutationEffects(root, finishedWork)
	}

	// The finished tree becomes current once every host mutation is applied.
	root.current = finishedWork

	if (finishedWork.subtreeFlags|finishedWork.flags)&PassiveMask != NoFlags {
		r.rootWithPendingPassiveEffects = root
		r.pendingPassiveWork = finishedWork
	}

	if includesSomeLane(root.pendingLanes, SyncLane) {
		if root == r.rootWithNestedUpdates {
			r.nestedUpdateCount++
		} else {
			r.nestedUpdateCount = 0
			r.rootWithNestedUpdates = root
		}
	} else {
		r.nestedUpdateCount = 0
	}

	r.metrics.Commits.Inc()
	r.log.Debug().
		Str("root", root.id.String()).
		Stringer("flags", finishedWork.subtreeFlags).
		Msg("commit")
}
