package element

import "fmt"

// ChildrenProp is the props key holding an element's children.
const ChildrenProp = "children"

// KeyProp is the props key H extracts into Element.Key.
const KeyProp = "key"

// Node is any value that can appear as a child: nil, bool, string, an
// integer or float, *Element, or []Node.
type Node = any

// Props holds an element's properties. Props are never mutated after the
// element is created.
type Props map[string]any

// Children returns the children stored in p, or nil.
func (p Props) Children() Node {
	if p == nil {
		return nil
	}
	return p[ChildrenProp]
}

// Element describes one node of the tree to render.
type Element struct {
	// Type is a host tag string, a *Component, or Fragment.
	Type any
	// Key identifies the element among its siblings. Empty means unkeyed.
	Key string
	// Props are the element's properties, including children.
	Props Props
}

// Children returns the element's children.
func (e *Element) Children() Node {
	return e.Props.Children()
}

func (e *Element) String() string {
	name := TypeName(e.Type)
	if e.Key != "" {
		return fmt.Sprintf("<%s key=%q>", name, e.Key)
	}
	return "<" + name + ">"
}

// FragmentType is the type of Fragment.
type FragmentType struct{}

// Fragment groups children without a host node of its own.
var Fragment = FragmentType{}

// RenderFunc renders a component. The Hooks value must not be retained after
// the call returns.
type RenderFunc func(h Hooks, props Props) Node

// Component is a function component. Components are compared by pointer, so
// declare each one once, typically as a package-level variable.
type Component struct {
	// Name is used in logs and error messages.
	Name string
	// Render produces the component's children.
	Render RenderFunc
}

// NewComponent returns a component with the given display name.
func NewComponent(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}

// DisplayName returns the component's name, or "Anonymous".
func (c *Component) DisplayName() string {
	if c == nil || c.Name == "" {
		return "Anonymous"
	}
	return c.Name
}

// TypeName returns a readable name for an element type.
func TypeName(t any) string {
	switch v := t.(type) {
	case string:
		return v
	case *Component:
		return v.DisplayName()
	case FragmentType:
		return "Fragment"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// H creates an element. The "key" prop, if present, becomes Element.Key and
// is removed from the props. A single child is stored as-is; several children
// are stored as a []Node. The props map passed in is copied.
func H(typ any, props Props, children ...Node) *Element {
	p := make(Props, len(props)+1)
	var key string
	for k, v := range props {
		if k == KeyProp {
			if v != nil {
				key = fmt.Sprint(v)
			}
			continue
		}
		p[k] = v
	}
	switch len(children) {
	case 0:
	case 1:
		p[ChildrenProp] = children[0]
	default:
		p[ChildrenProp] = append([]Node(nil), children...)
	}
	return &Element{Type: typ, Key: key, Props: p}
}

// Frag creates an unkeyed fragment of children.
func Frag(children ...Node) *Element {
	return H(Fragment, nil, children...)
}

// Map renders each item with fn and returns the results as a []Node.
func Map[T any](items []T, fn func(item T, index int) Node) []Node {
	out := make([]Node, len(items))
	for i, item := range items {
		out[i] = fn(item, i)
	}
	return out
}
