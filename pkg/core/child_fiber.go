package core

import (
	"reflect"
	"strconv"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
)

// childReconciler diffs a fiber's previous children against a new children
// value. The mounting variant never records side effects: a freshly mounted
// subtree is inserted into the host as a unit.
type childReconciler struct {
	shouldTrackSideEffects bool
}

var (
	reconcileChildFibers = childReconciler{shouldTrackSideEffects: true}
	mountChildFibers     = childReconciler{shouldTrackSideEffects: false}
)

func (c childReconciler) deleteChild(returnFiber, childToDelete *Fiber) {
	if !c.shouldTrackSideEffects {
		return
	}
	returnFiber.deletions = append(returnFiber.deletions, childToDelete)
	returnFiber.flags |= ChildDeletion
}

func (c childReconciler) deleteRemainingChildren(returnFiber, currentFirstChild *Fiber) *Fiber {
	if !c.shouldTrackSideEffects {
		return nil
	}
	for child := currentFirstChild; child != nil; child = child.sibling {
		c.deleteChild(returnFiber, child)
	}
	return nil
}

// existingChildren indexes old fibers by key, or by index when unkeyed.
// order keeps deletion of leftovers deterministic.
type existingChildren struct {
	fibers map[string]*Fiber
	order  []string
}

func slotKey(key string, index int) string {
	if key != "" {
		return "k:" + key
	}
	return "i:" + strconv.Itoa(index)
}

func mapRemainingChildren(currentFirstChild *Fiber) *existingChildren {
	m := &existingChildren{fibers: make(map[string]*Fiber)}
	for child := currentFirstChild; child != nil; child = child.sibling {
		k := slotKey(child.key, child.index)
		m.fibers[k] = child
		m.order = append(m.order, k)
	}
	return m
}

func (m *existingChildren) get(k string) *Fiber {
	return m.fibers[k]
}

func (m *existingChildren) delete(k string) {
	delete(m.fibers, k)
}

func (m *existingChildren) each(fn func(*Fiber)) {
	for _, k := range m.order {
		if f, ok := m.fibers[k]; ok {
			fn(f)
		}
	}
}

func useFiber(fiber *Fiber, pendingProps any) *Fiber {
	clone := createWorkInProgress(fiber, pendingProps)
	clone.index = 0
	clone.sibling = nil
	return clone
}

// placeChild records newFiber's position and flags it for insertion when it
// is new or has to move right of lastPlacedIndex.
func (c childReconciler) placeChild(newFiber *Fiber, lastPlacedIndex, newIndex int) int {
	newFiber.index = newIndex
	if !c.shouldTrackSideEffects {
		return lastPlacedIndex
	}
	current := newFiber.alternate
	if current != nil {
		oldIndex := current.index
		if oldIndex < lastPlacedIndex {
			newFiber.flags |= Placement
			return lastPlacedIndex
		}
		return oldIndex
	}
	newFiber.flags |= Placement
	return lastPlacedIndex
}

func (c childReconciler) placeSingleChild(newFiber *Fiber) *Fiber {
	if c.shouldTrackSideEffects && newFiber.alternate == nil {
		newFiber.flags |= Placement
	}
	return newFiber
}

func (c childReconciler) updateTextNode(returnFiber, current *Fiber, text string, lanes Lanes) *Fiber {
	if current == nil || current.tag != HostText {
		created := createFiberFromText(text, lanes)
		created.parent = returnFiber
		return created
	}
	existing := useFiber(current, text)
	existing.parent = returnFiber
	return existing
}

func (c childReconciler) updateElement(returnFiber, current *Fiber, el *element.Element, lanes Lanes) *Fiber {
	if isFragmentElement(el) {
		return c.updateFragment(returnFiber, current, el.Children(), lanes, el.Key)
	}
	if current != nil && element.Is(current.elementType, el.Type) {
		existing := useFiber(current, el.Props)
		existing.parent = returnFiber
		return existing
	}
	created := createFiberFromElement(el, lanes)
	created.parent = returnFiber
	return created
}

func (c childReconciler) updateFragment(returnFiber, current *Fiber, fragment element.Node, lanes Lanes, key string) *Fiber {
	if current == nil || current.tag != Fragment {
		created := createFiberFromFragment(fragment, key, lanes)
		created.parent = returnFiber
		return created
	}
	existing := useFiber(current, fragment)
	existing.parent = returnFiber
	return existing
}

func (c childReconciler) createChild(returnFiber *Fiber, newChild element.Node, lanes Lanes) *Fiber {
	if text, ok := textOf(newChild); ok {
		created := createFiberFromText(text, lanes)
		created.parent = returnFiber
		return created
	}
	if el, ok := newChild.(*element.Element); ok && el != nil {
		created := createFiberFromElement(el, lanes)
		created.parent = returnFiber
		return created
	}
	if list, ok := nodeList(newChild); ok {
		created := createFiberFromFragment(list, "", lanes)
		created.parent = returnFiber
		return created
	}
	if isEmptyChild(newChild) {
		return nil
	}
	panic(errors.InvalidChild("core.createChild", newChild))
}

// updateSlot reuses oldFiber when newChild has the same key. It returns nil
// when the keys differ or newChild renders nothing.
func (c childReconciler) updateSlot(returnFiber, oldFiber *Fiber, newChild element.Node, lanes Lanes) *Fiber {
	key := ""
	if oldFiber != nil {
		key = oldFiber.key
	}
	if text, ok := textOf(newChild); ok {
		// Text nodes have no key; a keyed old fiber cannot be a text slot.
		if key != "" {
			return nil
		}
		return c.updateTextNode(returnFiber, oldFiber, text, lanes)
	}
	if el, ok := newChild.(*element.Element); ok && el != nil {
		if el.Key != key {
			return nil
		}
		return c.updateElement(returnFiber, oldFiber, el, lanes)
	}
	if list, ok := nodeList(newChild); ok {
		if key != "" {
			return nil
		}
		return c.updateFragment(returnFiber, oldFiber, list, lanes, "")
	}
	if isEmptyChild(newChild) {
		return nil
	}
	panic(errors.InvalidChild("core.updateSlot", newChild))
}

func (c childReconciler) updateFromMap(existing *existingChildren, returnFiber *Fiber, newIdx int, newChild element.Node, lanes Lanes) *Fiber {
	if text, ok := textOf(newChild); ok {
		matched := existing.get(slotKey("", newIdx))
		return c.updateTextNode(returnFiber, matched, text, lanes)
	}
	if el, ok := newChild.(*element.Element); ok && el != nil {
		matched := existing.get(slotKey(el.Key, newIdx))
		return c.updateElement(returnFiber, matched, el, lanes)
	}
	if list, ok := nodeList(newChild); ok {
		matched := existing.get(slotKey("", newIdx))
		return c.updateFragment(returnFiber, matched, list, lanes, "")
	}
	if isEmptyChild(newChild) {
		return nil
	}
	panic(errors.InvalidChild("core.updateFromMap", newChild))
}

func (c childReconciler) reconcileChildrenArray(returnFiber, currentFirstChild *Fiber, newChildren []element.Node, lanes Lanes) *Fiber {
	var resultingFirstChild, previousNewFiber *Fiber

	oldFiber := currentFirstChild
	lastPlacedIndex := 0
	newIdx := 0
	var nextOldFiber *Fiber

	// Walk both lists in step while keys line up.
	for ; oldFiber != nil && newIdx < len(newChildren); newIdx++ {
		if oldFiber.index > newIdx {
			// The old list had an empty slot here.
			nextOldFiber = oldFiber
			oldFiber = nil
		} else {
			nextOldFiber = oldFiber.sibling
		}
		newFiber := c.updateSlot(returnFiber, oldFiber, newChildren[newIdx], lanes)
		if newFiber == nil {
			if oldFiber == nil {
				oldFiber = nextOldFiber
			}
			break
		}
		if c.shouldTrackSideEffects && oldFiber != nil && newFiber.alternate == nil {
			// Same slot, different type: the old fiber cannot be reused.
			c.deleteChild(returnFiber, oldFiber)
		}
		lastPlacedIndex = c.placeChild(newFiber, lastPlacedIndex, newIdx)
		if previousNewFiber == nil {
			resultingFirstChild = newFiber
		} else {
			previousNewFiber.sibling = newFiber
		}
		previousNewFiber = newFiber
		oldFiber = nextOldFiber
	}

	if newIdx == len(newChildren) {
		c.deleteRemainingChildren(returnFiber, oldFiber)
		return resultingFirstChild
	}

	if oldFiber == nil {
		for ; newIdx < len(newChildren); newIdx++ {
			newFiber := c.createChild(returnFiber, newChildren[newIdx], lanes)
			if newFiber == nil {
				continue
			}
			lastPlacedIndex = c.placeChild(newFiber, lastPlacedIndex, newIdx)
			if previousNewFiber == nil {
				resultingFirstChild = newFiber
			} else {
				previousNewFiber.sibling = newFiber
			}
			previousNewFiber = newFiber
		}
		return resultingFirstChild
	}

	existing := mapRemainingChildren(oldFiber)
	for ; newIdx < len(newChildren); newIdx++ {
		newFiber := c.updateFromMap(existing, returnFiber, newIdx, newChildren[newIdx], lanes)
		if newFiber == nil {
			continue
		}
		if c.shouldTrackSideEffects && newFiber.alternate != nil {
			existing.delete(slotKey(newFiber.key, newIdx))
		}
		lastPlacedIndex = c.placeChild(newFiber, lastPlacedIndex, newIdx)
		if previousNewFiber == nil {
			resultingFirstChild = newFiber
		} else {
			previousNewFiber.sibling = newFiber
		}
		previousNewFiber = newFiber
	}

	if c.shouldTrackSideEffects {
		existing.each(func(child *Fiber) {
			c.deleteChild(returnFiber, child)
		})
	}
	return resultingFirstChild
}

func (c childReconciler) reconcileSingleElement(returnFiber, currentFirstChild *Fiber, el *element.Element, lanes Lanes) *Fiber {
	key := el.Key
	child := currentFirstChild
	for child != nil {
		if child.key == key {
			if isFragmentElement(el) {
				if child.tag == Fragment {
					c.deleteRemainingChildren(returnFiber, child.sibling)
					existing := useFiber(child, el.Children())
					existing.parent = returnFiber
					return existing
				}
			} else if element.Is(child.elementType, el.Type) {
				c.deleteRemainingChildren(returnFiber, child.sibling)
				existing := useFiber(child, el.Props)
				existing.parent = returnFiber
				return existing
			}
			// Key matched but the type did not; nothing else can match.
			c.deleteRemainingChildren(returnFiber, child)
			break
		}
		c.deleteChild(returnFiber, child)
		child = child.sibling
	}

	var created *Fiber
	if isFragmentElement(el) {
		created = createFiberFromFragment(el.Children(), key, lanes)
	} else {
		created = createFiberFromElement(el, lanes)
	}
	created.parent = returnFiber
	return created
}

// reconcile returns the new first child of returnFiber for newChild.
func (c childReconciler) reconcile(returnFiber, currentFirstChild *Fiber, newChild element.Node, lanes Lanes) *Fiber {
	// An unkeyed top-level fragment is treated as its children.
	if el, ok := newChild.(*element.Element); ok && el != nil && isFragmentElement(el) && el.Key == "" {
		newChild = el.Children()
	}

	if el, ok := newChild.(*element.Element); ok && el != nil {
		return c.placeSingleChild(c.reconcileSingleElement(returnFiber, currentFirstChild, el, lanes))
	}
	if list, ok := nodeList(newChild); ok {
		return c.reconcileChildrenArray(returnFiber, currentFirstChild, list, lanes)
	}
	if text, ok := textOf(newChild); ok {
		panic(errors.NotImplemented("core.reconcileChildFibers",
			"text child %q of %s; wrap it in a host element", text, returnFiber))
	}
	if isEmptyChild(newChild) {
		return c.deleteRemainingChildren(returnFiber, currentFirstChild)
	}
	panic(errors.InvalidChild("core.reconcileChildFibers", newChild))
}

func isFragmentElement(el *element.Element) bool {
	_, ok := el.Type.(element.FragmentType)
	return ok
}

// isEmptyChild reports whether v renders nothing.
func isEmptyChild(v element.Node) bool {
	switch c := v.(type) {
	case nil, bool:
		return true
	case *element.Element:
		return c == nil
	}
	return false
}

// textOf returns the text of a string or numeric child.
func textOf(v element.Node) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(t).Int(), 10), true
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return strconv.FormatUint(reflect.ValueOf(t).Uint(), 10), true
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	}
	return "", false
}

// nodeList returns v as a []element.Node when it is any slice or array of
// children.
func nodeList(v element.Node) ([]element.Node, bool) {
	if list, ok := v.([]element.Node); ok {
		return list, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]element.Node, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}
