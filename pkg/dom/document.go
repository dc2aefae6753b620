package dom

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/go-drift/fiber/pkg/element"
)

// Scheduler runs callbacks after the current synchronous turn.
type Scheduler interface {
	ScheduleMicrotask(fn func())
}

// Document is an HTML host. It implements every host operation the
// reconciler needs. A Document is not safe for concurrent use.
type Document struct {
	body      *html.Node
	scheduler Scheduler
	handlers  map[*html.Node]map[string]any
	handles   map[*html.Node]any
	ops       []Op
	log       zerolog.Logger
}

// NewDocument creates an empty document whose microtasks run on s.
func NewDocument(s Scheduler) *Document {
	if s == nil {
		panic("dom: nil scheduler")
	}
	return &Document{
		body:      &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body},
		scheduler: s,
		handlers:  make(map[*html.Node]map[string]any),
		handles:   make(map[*html.Node]any),
		log:       zerolog.Nop(),
	}
}

// SetLogger sets the logger receiving a trace event per mutation.
func (d *Document) SetLogger(log zerolog.Logger) {
	d.log = log.With().Str("component", "dom").Logger()
}

// Body returns the document's body element, the usual root container.
func (d *Document) Body() *html.Node {
	return d.body
}

// NewContainer returns a detached element usable as another root container.
func (d *Document) NewContainer(tag string) *html.Node {
	return newElement(tag)
}

// HTML serializes the children of the body.
func (d *Document) HTML() string {
	return InnerHTML(d.body)
}

// Handle returns the reconciler handle passed when n was created.
func (d *Document) Handle(n *html.Node) any {
	return d.handles[n]
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return fmt.Sprintf("<!-- %v -->", err)
		}
	}
	return buf.String()
}

// OuterHTML serializes n itself.
func OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return fmt.Sprintf("<!-- %v -->", err)
	}
	return buf.String()
}

func newElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

func node(v any) *html.Node {
	n, ok := v.(*html.Node)
	if !ok || n == nil {
		panic(fmt.Sprintf("dom: %T is not a node", v))
	}
	return n
}

// CreateInstance creates a detached element for typ.
func (d *Document) CreateInstance(typ string, props element.Props, handle any) any {
	n := newElement(typ)
	d.handles[n] = handle
	d.record(Op{Kind: OpCreate, Node: describe(n)})
	return n
}

// CreateTextInstance creates a detached text node.
func (d *Document) CreateTextInstance(text string, handle any) any {
	n := &html.Node{Type: html.TextNode, Data: text}
	d.handles[n] = handle
	d.record(Op{Kind: OpCreateText, Node: describe(n)})
	return n
}

// AppendInitialChild appends child to a parent that is not yet attached.
// It is not recorded.
func (d *Document) AppendInitialChild(parent, child any) {
	node(parent).AppendChild(node(child))
}

// FinalizeInitialChildren applies the initial props of a new element.
func (d *Document) FinalizeInitialChildren(instance any, typ string, props element.Props) bool {
	n := node(instance)
	for _, name := range sortedKeys(props) {
		if name == element.KeyProp {
			continue
		}
		d.setProp(n, name, props[name], false)
	}
	return false
}

// AppendChild moves or appends child as the last child of parent.
func (d *Document) AppendChild(parent, child any) {
	p, c := node(parent), node(child)
	detach(c)
	p.AppendChild(c)
	d.record(Op{Kind: OpAppend, Parent: describe(p), Node: describe(c)})
}

// InsertBefore moves or inserts child before the existing child before.
func (d *Document) InsertBefore(parent, child, before any) {
	p, c, b := node(parent), node(child), node(before)
	detach(c)
	p.InsertBefore(c, b)
	d.record(Op{Kind: OpInsert, Parent: describe(p), Node: describe(c), Value: describe(b)})
}

// AppendChildToContainer appends child to a root container.
func (d *Document) AppendChildToContainer(container, child any) {
	d.AppendChild(container, child)
}

// InsertInContainerBefore inserts child into a root container.
func (d *Document) InsertInContainerBefore(container, child, before any) {
	d.InsertBefore(container, child, before)
}

// RemoveChild removes child from parent and forgets the handlers of the
// removed subtree.
func (d *Document) RemoveChild(parent, child any) {
	p, c := node(parent), node(child)
	if c.Parent != p {
		panic(fmt.Sprintf("dom: %s is not a child of %s", describe(c), describe(p)))
	}
	p.RemoveChild(c)
	walk(c, func(n *html.Node) {
		delete(d.handlers, n)
		delete(d.handles, n)
	})
	d.record(Op{Kind: OpRemove, Parent: describe(p), Node: describe(c)})
}

// PrepareUpdate returns an UpdatePayload with the changed props, or nil.
func (d *Document) PrepareUpdate(instance any, typ string, oldProps, newProps element.Props) any {
	payload := diffProperties(oldProps, newProps)
	if len(payload) == 0 {
		return nil
	}
	return payload
}

// CommitUpdate applies a payload returned by PrepareUpdate.
func (d *Document) CommitUpdate(instance, payload any, typ string, oldProps, newProps element.Props, handle any) {
	n := node(instance)
	changes, ok := payload.(UpdatePayload)
	if !ok {
		panic(fmt.Sprintf("dom: unexpected update payload %T", payload))
	}
	d.handles[n] = handle
	for _, ch := range changes {
		d.setProp(n, ch.Name, ch.Value, ch.Remove)
	}
}

// CommitTextUpdate replaces the text of a text node.
func (d *Document) CommitTextUpdate(instance any, oldText, newText string) {
	n := node(instance)
	n.Data = newText
	d.record(Op{Kind: OpSetText, Node: describe(n), Value: newText})
}

// ShouldSetTextContent reports whether props' children are rendered as
// the element's text instead of child nodes.
func (d *Document) ShouldSetTextContent(typ string, props element.Props) bool {
	if typ == "textarea" {
		return true
	}
	_, ok := textContent(props.Children())
	return ok
}

// ResetTextContent removes all children of instance.
func (d *Document) ResetTextContent(instance any) {
	n := node(instance)
	setText(n, "")
	d.record(Op{Kind: OpResetText, Node: describe(n)})
}

// ScheduleMicrotask hands fn to the document's scheduler.
func (d *Document) ScheduleMicrotask(fn func()) {
	d.scheduler.ScheduleMicrotask(fn)
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
