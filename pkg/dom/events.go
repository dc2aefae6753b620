package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Event is passed to handlers taking an argument.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Dispatch fires an event of type typ at target and bubbles it through
// target's ancestors. Handlers may be func(), func(*Event) or
// func(Event). It returns the number of handlers invoked.
func (d *Document) Dispatch(target *html.Node, typ string) int {
	ev := &Event{Type: typ, Target: target}
	called := 0
	for n := target; n != nil && !ev.stopped; n = n.Parent {
		h, ok := d.handlers[n][typ]
		if !ok {
			continue
		}
		ev.CurrentTarget = n
		switch fn := h.(type) {
		case func():
			fn()
		case func(*Event):
			fn(ev)
		case func(Event):
			fn(*ev)
		default:
			panic(fmt.Sprintf("dom: unsupported %s handler %T on %s", typ, h, describe(n)))
		}
		called++
		d.log.Trace().Str("event", typ).Str("node", describe(n)).Msg("handler invoked")
	}
	return called
}

// Click dispatches a click event at target.
func (d *Document) Click(target *html.Node) int {
	return d.Dispatch(target, "click")
}

// HasHandler reports whether n listens for typ.
func (d *Document) HasHandler(n *html.Node, typ string) bool {
	_, ok := d.handlers[n][typ]
	return ok
}
