// Package element provides the declarative element model consumed by the
// reconciler in package core.
//
// An Element is an immutable description of what to render: a type, an
// optional key, and props. The type is either a host tag string ("div",
// "li"), a *Component, or Fragment. Children live in Props under
// "children" and may be any Node: nil, a bool (renders nothing), a string
// or number (text), an *Element, or a []Node.
//
//	element.H("ul", nil,
//	    element.H("li", element.Props{"key": "a"}, "first"),
//	    element.H("li", element.Props{"key": "b"}, "second"),
//	)
//
// # Components
//
// A Component is a named render function. It receives a Hooks value that is
// valid only for the duration of the call and the element's props:
//
//	var Counter = element.NewComponent("Counter", func(h element.Hooks, p element.Props) element.Node {
//	    n, set := element.UseState(h, 0)
//	    return element.H("button", element.Props{"onClick": func() { set.Set(n + 1) }}, n)
//	})
//
// Hooks are positional: a component must call the same hooks in the same
// order on every render.
package element
