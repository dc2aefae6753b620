package core

import (
	"fmt"
	"strings"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
)

// WorkTag identifies the kind of a fiber.
type WorkTag uint8

const (
	FunctionComponent WorkTag = iota
	HostRoot
	HostComponent
	HostText
	Fragment
)

func (t WorkTag) String() string {
	switch t {
	case FunctionComponent:
		return "FunctionComponent"
	case HostRoot:
		return "HostRoot"
	case HostComponent:
		return "HostComponent"
	case HostText:
		return "HostText"
	case Fragment:
		return "Fragment"
	default:
		return fmt.Sprintf("WorkTag(%d)", uint8(t))
	}
}

// Flags are the commit-phase side effects recorded on a fiber.
type Flags uint32

const (
	NoFlags       Flags = 0
	Placement     Flags = 1 << 1
	Update        Flags = 1 << 2
	ChildDeletion Flags = 1 << 4
	ContentReset  Flags = 1 << 5
	Passive       Flags = 1 << 11
	// PassiveStatic survives cloning so deleted subtrees with effects can be
	// found without walking every fiber.
	PassiveStatic Flags = 1 << 23

	PlacementAndUpdate = Placement | Update

	MutationMask = Placement | Update | ChildDeletion | ContentReset
	PassiveMask  = Passive | ChildDeletion
	StaticMask   = PassiveStatic
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Placement, "Placement"},
	{Update, "Update"},
	{ChildDeletion, "ChildDeletion"},
	{ContentReset, "ContentReset"},
	{Passive, "Passive"},
	{PassiveStatic, "PassiveStatic"},
}

func (f Flags) String() string {
	if f == NoFlags {
		return "NoFlags"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
			f &^= fn.flag
		}
	}
	if f != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(f)))
	}
	return strings.Join(parts, "|")
}

// Lanes mark pending work. Only SyncLane is used.
type Lanes uint32

const (
	NoLanes  Lanes = 0
	SyncLane Lanes = 1
)

func includesSomeLane(a, b Lanes) bool {
	return a&b != NoLanes
}

// Fiber is a unit of work mirroring one element of the rendered tree. Each
// committed fiber is paired with at most one work-in-progress alternate.
//
// Fibers are owned by the reconciler. The exported accessors are for
// inspection in tests and tools and must not be used during a render.
type Fiber struct {
	tag         WorkTag
	key         string
	elementType any
	typ         any

	pendingProps  any
	memoizedProps any
	// memoizedState is the hook list head for function components and
	// *rootState for the host root.
	memoizedState any
	// updateQueue is the *effectQueue of a function component, the
	// *rootUpdateQueue of the host root, or the pending update payload of a
	// host component.
	updateQueue any
	// stateNode is the host instance, or the *Root for the host root.
	stateNode any

	parent  *Fiber
	child   *Fiber
	sibling *Fiber
	index   int

	alternate *Fiber

	flags        Flags
	subtreeFlags Flags
	deletions    []*Fiber

	lanes      Lanes
	childLanes Lanes
}

func createFiber(tag WorkTag, pendingProps any, key string) *Fiber {
	return &Fiber{
		tag:          tag,
		key:          key,
		pendingProps: pendingProps,
	}
}

func createHostRootFiber() *Fiber {
	return createFiber(HostRoot, nil, "")
}

// createWorkInProgress returns the alternate of current prepared for a new
// render, allocating it on first use. Children are linked, not cloned.
func createWorkInProgress(current *Fiber, pendingProps any) *Fiber {
	wip := current.alternate
	if wip == nil {
		wip = createFiber(current.tag, pendingProps, current.key)
		wip.elementType = current.elementType
		wip.typ = current.typ
		wip.stateNode = current.stateNode
		wip.alternate = current
		current.alternate = wip
	} else {
		wip.pendingProps = pendingProps
		wip.typ = current.typ
		wip.subtreeFlags = NoFlags
		wip.deletions = nil
	}

	// Only static flags carry over; effect flags describe the previous commit.
	wip.flags = current.flags & StaticMask
	wip.childLanes = current.childLanes
	wip.lanes = current.lanes

	wip.child = current.child
	wip.memoizedProps = current.memoizedProps
	wip.memoizedState = current.memoizedState
	wip.updateQueue = current.updateQueue

	wip.sibling = current.sibling
	wip.index = current.index

	return wip
}

func createFiberFromElement(el *element.Element, lanes Lanes) *Fiber {
	var tag WorkTag
	switch el.Type.(type) {
	case string:
		tag = HostComponent
	case *element.Component:
		tag = FunctionComponent
	case element.FragmentType:
		return createFiberFromFragment(el.Children(), el.Key, lanes)
	default:
		panic(errors.NotImplemented("core.createFiberFromElement", "element type %T", el.Type))
	}
	fiber := createFiber(tag, el.Props, el.Key)
	fiber.elementType = el.Type
	fiber.typ = el.Type
	fiber.lanes = lanes
	return fiber
}

func createFiberFromText(text string, lanes Lanes) *Fiber {
	fiber := createFiber(HostText, text, "")
	fiber.lanes = lanes
	return fiber
}

func createFiberFromFragment(children element.Node, key string, lanes Lanes) *Fiber {
	fiber := createFiber(Fragment, children, key)
	fiber.elementType = element.Fragment
	fiber.lanes = lanes
	return fiber
}

// Tag returns the fiber kind.
func (f *Fiber) Tag() WorkTag { return f.tag }

// Key returns the element key, or "".
func (f *Fiber) Key() string { return f.key }

// Type returns the host tag, *element.Component, or element.Fragment.
func (f *Fiber) Type() any { return f.typ }

// Props returns the props used by the last render: element.Props for host
// and function components, the text for host text, the children for fragments.
func (f *Fiber) Props() any { return f.memoizedProps }

// StateNode returns the host instance owned by a host fiber.
func (f *Fiber) StateNode() any { return f.stateNode }

// Return returns the parent fiber.
func (f *Fiber) Return() *Fiber { return f.parent }

// Child returns the first child fiber.
func (f *Fiber) Child() *Fiber { return f.child }

// Sibling returns the next sibling fiber.
func (f *Fiber) Sibling() *Fiber { return f.sibling }

// Index returns the position among siblings.
func (f *Fiber) Index() int { return f.index }

// Alternate returns the fiber from the other render generation.
func (f *Fiber) Alternate() *Fiber { return f.alternate }

// Flags returns the fiber's own effect flags.
func (f *Fiber) Flags() Flags { return f.flags }

// SubtreeFlags returns the union of the flags of all descendants.
func (f *Fiber) SubtreeFlags() Flags { return f.subtreeFlags }

// Deletions returns the child fibers scheduled for removal.
func (f *Fiber) Deletions() []*Fiber { return f.deletions }

// Lanes returns the fiber's pending lanes.
func (f *Fiber) Lanes() Lanes { return f.lanes }

// ChildLanes returns the pending lanes of the fiber's descendants.
func (f *Fiber) ChildLanes() Lanes { return f.childLanes }

// Children returns the child fibers in order.
func (f *Fiber) Children() []*Fiber {
	var out []*Fiber
	for c := f.child; c != nil; c = c.sibling {
		out = append(out, c)
	}
	return out
}

func (f *Fiber) String() string {
	if f == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(f.tag.String())
	switch f.tag {
	case HostComponent, FunctionComponent:
		sb.WriteString("(")
		sb.WriteString(element.TypeName(f.typ))
		if f.key != "" {
			fmt.Fprintf(&sb, " key=%q", f.key)
		}
		sb.WriteString(")")
	case HostText:
		text, _ := f.pendingProps.(string)
		fmt.Fprintf(&sb, "(%q)", text)
	case Fragment:
		if f.key != "" {
			fmt.Fprintf(&sb, "(key=%q)", f.key)
		}
	}
	return sb.String()
}

func propsOf(v any) element.Props {
	p, _ := v.(element.Props)
	return p
}

func componentName(f *Fiber) string {
	if c, ok := f.typ.(*element.Component); ok {
		return c.DisplayName()
	}
	return element.TypeName(f.typ)
}
